package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// FetchAutoIsolationConfigs lists the isolation configs of an instance.
func (c *Client) FetchAutoIsolationConfigs(ctx context.Context, instanceID string) ([]AutoIsolationConfig, error) {
	var configs []AutoIsolationConfig
	q := url.Values{"instance": {instanceID}}
	if err := c.do(ctx, http.MethodGet, "/auto-isolation", q, nil, &configs); err != nil {
		return nil, fmt.Errorf("failed to fetch isolation configs: %w", err)
	}
	return configs, nil
}

// CreateAutoIsolationConfig enables isolation for cfg.Instance.
func (c *Client) CreateAutoIsolationConfig(ctx context.Context, cfg AutoIsolationConfig) (*AutoIsolationConfig, error) {
	var created AutoIsolationConfig
	if err := c.do(ctx, http.MethodPost, "/auto-isolation", nil, cfg, &created); err != nil {
		return nil, fmt.Errorf("failed to create isolation config: %w", err)
	}
	return &created, nil
}

// DestroyAutoIsolationConfig removes an isolation config.
func (c *Client) DestroyAutoIsolationConfig(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/auto-isolation/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to destroy isolation config: %w", err)
	}
	return nil
}
