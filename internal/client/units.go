package client

import (
	"fmt"
	"net/http"
)

// AddUnit appends a unit to the given category and pushes the entire units
// document, per the replace-whole-sub-resource contract.
func (c *Client) AddUnit(category, unit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, _, err := unitSlot(&c.state.Units, category); err != nil {
		return err
	}

	return attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		list, _, err := unitSlot(&s.Units, category)
		if err != nil {
			return
		}
		for _, existing := range *list {
			if existing == unit {
				return
			}
		}
		*list = append(*list, unit)
	}, func() (*envelope, error) {
		return c.do(http.MethodPut, "/api/v1/admin/configuration/units", c.state.Units)
	})
}

// RemoveUnit removes a unit from the given category. Removing the current
// default is refused locally: the caller has to pick a new default first, so
// a dangling default can never be submitted.
func (c *Client) RemoveUnit(category, unit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, def, err := unitSlot(&c.state.Units, category)
	if err != nil {
		return err
	}
	if *def == unit {
		return fmt.Errorf("%q is the default %s unit, select another default before removing it", unit, category)
	}

	return attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		list, _, err := unitSlot(&s.Units, category)
		if err != nil {
			return
		}
		next := make([]string, 0, len(*list))
		for _, existing := range *list {
			if existing != unit {
				next = append(next, existing)
			}
		}
		*list = next
	}, func() (*envelope, error) {
		return c.do(http.MethodPut, "/api/v1/admin/configuration/units", c.state.Units)
	})
}

// SetDefaultUnit selects the default for a category; the unit must already be
// a member of that category's list.
func (c *Client) SetDefaultUnit(category, unit string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, _, err := unitSlot(&c.state.Units, category)
	if err != nil {
		return err
	}
	member := false
	for _, existing := range *list {
		if existing == unit {
			member = true
			break
		}
	}
	if !member {
		return fmt.Errorf("%q is not a configured %s unit", unit, category)
	}

	return attempt(&c.state, ConfigState.Clone, func(s *ConfigState) {
		_, def, err := unitSlot(&s.Units, category)
		if err != nil {
			return
		}
		*def = unit
	}, func() (*envelope, error) {
		return c.do(http.MethodPut, "/api/v1/admin/configuration/units", c.state.Units)
	})
}
