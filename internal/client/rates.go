package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// AddCurrencyRate creates a rate. On confirmation the optimistic entry is
// replaced with the server copy so the assigned id is kept locally.
func (c *Client) AddCurrencyRate(rate models.CurrencyRate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var created models.CurrencyRate
	err := attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		s.Rates = append(s.Rates, rate)
	}, func() (*envelope, error) {
		env, err := c.do(http.MethodPost, "/api/v1/admin/configuration/currency-rates", rate)
		if err != nil {
			return nil, err
		}
		if env.Success {
			var data struct {
				CurrencyRate models.CurrencyRate `json:"currencyRate"`
			}
			if err := json.Unmarshal(env.Data, &data); err == nil {
				created = data.CurrencyRate
			}
		}
		return env, nil
	})
	if err != nil {
		return err
	}

	if !created.ID.IsZero() {
		c.state.Rates[len(c.state.Rates)-1] = created
	}
	return nil
}

func (c *Client) UpdateCurrencyRate(rate models.CurrencyRate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Renaming the default currency's code would leave the default dangling,
	// same as deleting the rate.
	for _, existing := range c.state.Rates {
		if existing.ID == rate.ID {
			if existing.CurrencyCode == c.state.DefaultCurrency && rate.CurrencyCode != existing.CurrencyCode {
				return fmt.Errorf("%s is the default currency, select another default before renaming it", existing.CurrencyCode)
			}
			break
		}
	}

	return attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		for i := range s.Rates {
			if s.Rates[i].ID == rate.ID {
				s.Rates[i] = rate
				return
			}
		}
	}, func() (*envelope, error) {
		return c.do(http.MethodPut, "/api/v1/admin/configuration/currency-rates/"+rate.ID.Hex(), rate)
	})
}

// ToggleCurrencyRate flips one rate's active flag. Rates are independently
// active; no other rate is touched.
func (c *Client) ToggleCurrencyRate(id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var target *models.CurrencyRate
	for i := range c.state.Rates {
		if c.state.Rates[i].ID == id {
			target = &c.state.Rates[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("currency rate not found: %s", id.Hex())
	}
	next := *target
	next.IsActive = !next.IsActive

	return attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		for i := range s.Rates {
			if s.Rates[i].ID == id {
				s.Rates[i] = next
				return
			}
		}
	}, func() (*envelope, error) {
		return c.do(http.MethodPut, "/api/v1/admin/configuration/currency-rates/"+id.Hex(), next)
	})
}

func (c *Client) DeleteCurrencyRate(id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rate := range c.state.Rates {
		if rate.ID == id && rate.CurrencyCode == c.state.DefaultCurrency {
			return fmt.Errorf("%s is the default currency, select another default before removing it", rate.CurrencyCode)
		}
	}

	return attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		next := make([]models.CurrencyRate, 0, len(s.Rates))
		for _, rate := range s.Rates {
			if rate.ID != id {
				next = append(next, rate)
			}
		}
		s.Rates = next
	}, func() (*envelope, error) {
		return c.do(http.MethodDelete, "/api/v1/admin/configuration/currency-rates/"+id.Hex(), nil)
	})
}

// SetDefaultCurrency selects the default among configured codes. The default
// does not have to be active.
func (c *Client) SetDefaultCurrency(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	configured := false
	for _, rate := range c.state.Rates {
		if rate.CurrencyCode == code {
			configured = true
			break
		}
	}
	if !configured {
		return fmt.Errorf("%s is not a configured currency", code)
	}

	return attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		s.DefaultCurrency = code
	}, func() (*envelope, error) {
		return c.do(http.MethodPut, "/api/v1/admin/configuration/default-currency", map[string]string{
			"defaultCurrency": code,
		})
	})
}
