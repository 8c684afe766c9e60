// Package client is the admin dashboard's typed API client. It keeps a local
// ConfigState, applies edits optimistically and rolls them back when the
// server rejects the change.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client

	mu    sync.Mutex
	state ConfigState
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// State returns a snapshot of the local configuration.
func (c *Client) State() ConfigState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Load fetches the configuration aggregate and brand registry, replacing the
// local state.
func (c *Client) Load() error {
	env, err := c.do(http.MethodGet, "/api/v1/configuration", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("load configuration: %s", env.Message)
	}

	var configData struct {
		Configuration struct {
			Units           json.RawMessage `json:"units"`
			DefaultCurrency string          `json:"defaultCurrency"`
		} `json:"configuration"`
		CurrencyRates json.RawMessage `json:"currencyRates"`
	}
	if err := json.Unmarshal(env.Data, &configData); err != nil {
		return err
	}

	brandsEnv, err := c.do(http.MethodGet, "/api/v1/brands", nil)
	if err != nil {
		return err
	}
	if !brandsEnv.Success {
		return fmt.Errorf("load brands: %s", brandsEnv.Message)
	}
	var brandsData struct {
		Brands json.RawMessage `json:"brands"`
	}
	if err := json.Unmarshal(brandsEnv.Data, &brandsData); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := ConfigState{DefaultCurrency: configData.Configuration.DefaultCurrency}
	if len(configData.Configuration.Units) > 0 {
		if err := json.Unmarshal(configData.Configuration.Units, &next.Units); err != nil {
			return err
		}
	}
	if len(configData.CurrencyRates) > 0 {
		if err := json.Unmarshal(configData.CurrencyRates, &next.Rates); err != nil {
			return err
		}
	}
	if len(brandsData.Brands) > 0 {
		if err := json.Unmarshal(brandsData.Brands, &next.Brands); err != nil {
			return err
		}
	}
	c.state = next
	return nil
}

func (c *Client) do(method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	return &env, nil
}

func (c *Client) doMultipart(path, field, filename string, file io.Reader) (*envelope, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("POST %s: %s", path, resp.Status)
	}
	return &env, nil
}
