package entity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bullpen/internal/apperrors"
)

// Client talks to the backend entity API. Every record the platform shows
// lives behind this API; the service holds no entity data of its own.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Query is the filter payload accepted by the entity API's query endpoint
type Query struct {
	Filter map[string]any `json:"filter,omitempty"`
	Sort   string         `json:"sort,omitempty"`
	Limit  int            `json:"limit,omitempty"`
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("entity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// List fetches all records of an entity, optionally sorted and limited
func (c *Client) List(ctx context.Context, name, sort string, limit int, out any) error {
	return c.do(ctx, http.MethodPost, "/"+name+"/query", Query{Sort: sort, Limit: limit}, out)
}

// Filter fetches records matching an equality filter
func (c *Client) Filter(ctx context.Context, name string, filter map[string]any, sort string, limit int, out any) error {
	return c.do(ctx, http.MethodPost, "/"+name+"/query", Query{Filter: filter, Sort: sort, Limit: limit}, out)
}

// Get fetches a single record by id
func (c *Client) Get(ctx context.Context, name, id string, out any) error {
	return c.do(ctx, http.MethodGet, "/"+name+"/"+id, nil, out)
}

// Create inserts one record and decodes the stored result into out
func (c *Client) Create(ctx context.Context, name string, obj any, out any) error {
	return c.do(ctx, http.MethodPost, "/"+name, obj, out)
}

// Update applies a partial patch to one record
func (c *Client) Update(ctx context.Context, name, id string, patch map[string]any) error {
	return c.do(ctx, http.MethodPatch, "/"+name+"/"+id, patch, nil)
}

// Delete removes one record
func (c *Client) Delete(ctx context.Context, name, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+name+"/"+id, nil, nil)
}

// BulkCreate inserts a batch of records in one call
func (c *Client) BulkCreate(ctx context.Context, name string, objs any) error {
	return c.do(ctx, http.MethodPost, "/"+name+"/bulk", objs, nil)
}
