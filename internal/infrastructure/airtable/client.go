// Package airtable implements ports.RecordStore against the Airtable REST API (v0).
package airtable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://api.airtable.com/v0"
	defaultTimeout  = 10 * time.Second
	pageSize        = 100
)

// Config captures the settings needed to reach one Airtable base.
type Config struct {
	APIKey   string
	BaseID   string
	Endpoint string
	Timeout  time.Duration
	// PingTable is the table read by Ping.
	PingTable string
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

type Client struct {
	apiKey    string
	baseID    string
	endpoint  string
	pingTable string
	session   *http.Client
}

// NewClient returns a Client for one base. A default endpoint and timeout are
// applied when none are provided.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("airtable: api key is required")
	}
	if strings.TrimSpace(cfg.BaseID) == "" {
		return nil, errors.New("airtable: base id is required")
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("airtable: invalid endpoint %q: %w", endpoint, err)
	}

	session := cfg.HTTPClient
	if session == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		session = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:    cfg.APIKey,
		baseID:    cfg.BaseID,
		endpoint:  endpoint,
		pingTable: cfg.PingTable,
		session:   session,
	}, nil
}

func (c *Client) tableURL(table string) string {
	return c.endpoint + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

func (c *Client) newRequest(ctx context.Context, endpoint string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and turns every >=400 response into an *httpStatusError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, decodeError(resp.StatusCode, b)
	}
	return resp, nil
}
