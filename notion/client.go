// Package notion talks to the Notion API: it resolves the day page for a date
// and appends digest content to it.
package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ythttp "ytdigest/http"
)

// DefaultVersion is the Notion-Version header sent with every request.
const DefaultVersion = "2022-06-28"

// ErrUnexpectedStatus is returned when a 2xx response is not one the
// operation accepts as success.
var ErrUnexpectedStatus = errors.New("notion: unexpected status")

// Client is a minimal Notion API client covering database queries, page
// creation and block appends.
type Client struct {
	http    *ythttp.Client
	baseURL string
	token   string
	version string
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. https://api.notion.com/v1.
	BaseURL string
	// Token is the integration secret. It is sent as-is, even when empty.
	Token string
	// Version overrides DefaultVersion.
	Version string
	// HTTP is the transport. Nil uses a default client.
	HTTP *ythttp.Client
}

// NewClient creates a Notion client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.HTTP == nil {
		cfg.HTTP = ythttp.New(nil)
	}
	return &Client{
		http:    cfg.HTTP,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		version: cfg.Version,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization":  "Bearer " + c.token,
		"Notion-Version": c.version,
	}
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// QueryDatabase returns the pages of databaseID matching filter.
// Only the first page of results is read.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter Filter) (*QueryResult, error) {
	body := queryRequest{Filter: filter}
	resp, err := c.http.DoJSON(ctx, http.MethodPost, c.endpoint("databases", databaseID, "query"), body, c.headers())
	if err != nil {
		return nil, fmt.Errorf("query database: %w", err)
	}

	var result QueryResult
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("query database: %w", err)
	}
	return &result, nil
}

// CreatePage creates a page in a database. Success is 200 or 201 only.
func (c *Client) CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	resp, err := c.http.DoJSON(ctx, http.MethodPost, c.endpoint("pages"), req, c.headers())
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create page: %w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var page Page
	if err := resp.DecodeJSON(&page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if page.ID == "" {
		return nil, fmt.Errorf("create page: response carries no id")
	}
	return &page, nil
}

// AppendBlockChildren appends blocks to a page or block in one request.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, blocks []Block) error {
	body := appendRequest{Children: blocks}
	resp, err := c.http.DoJSON(ctx, http.MethodPatch, c.endpoint("blocks", blockID, "children"), body, c.headers())
	if err != nil {
		return fmt.Errorf("append block children: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("append block children: %w %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}
