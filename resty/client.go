// Package resty provides a config-driven HTTP implementation of
// aisle.PageFetcher and aisle.Hydrator for catalog sources that expose a
// JSON search API. The response shape is described by mapping paths in the
// profile configuration, not by code.
package resty

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RichardMcSorley/aisle"
	"github.com/go-resty/resty/v2"
)

// DefaultTimeout is the default timeout for source API requests.
const DefaultTimeout = 30 * time.Second

// Config describes a catalog source API. Mapping paths are dot-separated
// routes into the decoded response JSON.
type Config struct {
	BaseURL    string            `mapstructure:"base_url"`
	SearchPath string            `mapstructure:"search_path"`
	DetailPath string            `mapstructure:"detail_path"`
	Headers    map[string]string `mapstructure:"headers"`
	Params     map[string]string `mapstructure:"params"`
	Query      QueryParams       `mapstructure:"query"`
	Mapping    Mapping           `mapstructure:"mapping"`
}

// QueryParams names the query string parameters the source expects.
// Unset names fall back to q, category, offset and limit.
type QueryParams struct {
	Term     string `mapstructure:"term"`
	Category string `mapstructure:"category"`
	Offset   string `mapstructure:"offset"`
	Limit    string `mapstructure:"limit"`
}

// Mapping locates product fields in a response payload. Items points at the
// result array of a search response; an empty Items means the payload root
// is the array itself. Detail points at the object a detail response wraps
// the product in, and CategoryKey at the key field of category objects.
type Mapping struct {
	Items       string `mapstructure:"items"`
	Detail      string `mapstructure:"detail"`
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	URL         string `mapstructure:"url"`
	Price       string `mapstructure:"price"`
	Categories  string `mapstructure:"categories"`
	CategoryKey string `mapstructure:"category_key"`
}

// Ensure Client implements the source interfaces at compile time.
var (
	_ aisle.PageFetcher = (*Client)(nil)
	_ aisle.Hydrator    = (*Client)(nil)
)

// Client queries a JSON product API over HTTP.
type Client struct {
	http    *resty.Client
	cfg     Config
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for source API requests.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a Client for the source described by cfg.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, aisle.Errorf(aisle.EINVALID, "source base URL required")
	}
	if cfg.SearchPath == "" {
		return nil, aisle.Errorf(aisle.EINVALID, "source search path required")
	}

	// Fill in conventional parameter and mapping names
	if cfg.Query.Term == "" {
		cfg.Query.Term = "q"
	}
	if cfg.Query.Category == "" {
		cfg.Query.Category = "category"
	}
	if cfg.Query.Offset == "" {
		cfg.Query.Offset = "offset"
	}
	if cfg.Query.Limit == "" {
		cfg.Query.Limit = "limit"
	}
	if cfg.Mapping.ID == "" {
		cfg.Mapping.ID = "id"
	}
	if cfg.Mapping.Name == "" {
		cfg.Mapping.Name = "name"
	}
	if cfg.Mapping.CategoryKey == "" {
		cfg.Mapping.CategoryKey = "id"
	}

	c := &Client{
		cfg:     cfg,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(c.timeout)
	for k, v := range cfg.Headers {
		c.http.SetHeader(k, v)
	}
	if len(cfg.Params) > 0 {
		c.http.SetQueryParams(cfg.Params)
	}

	return c, nil
}

// FetchPage queries the source's search endpoint for one page of products.
func (c *Client) FetchPage(ctx context.Context, sel aisle.Selector, offset, limit int) ([]aisle.Product, error) {
	params := map[string]string{
		c.cfg.Query.Offset: strconv.Itoa(offset),
		c.cfg.Query.Limit:  strconv.Itoa(limit),
	}
	if sel.IsCategory() {
		params[c.cfg.Query.Category] = string(sel.Category)
	} else {
		params[c.cfg.Query.Term] = sel.Query
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(c.cfg.SearchPath)
	if err != nil {
		return nil, aisle.Errorf(aisle.EUNAVAILABLE, "search request failed: %v", err)
	}
	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, aisle.Errorf(aisle.EINVALID, "malformed search response: %v", err)
	}

	raw, found := lookup(payload, c.cfg.Mapping.Items)
	if !found || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, aisle.Errorf(aisle.EINVALID, "search response field %q is not an array", c.cfg.Mapping.Items)
	}

	products := make([]aisle.Product, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := c.mapProduct(obj)
		if p.ID == "" {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// Hydrate fetches the detail record for p. The whole detail object is kept
// on the product, and mapped fields missing from it fall back to the values
// p already carries.
func (c *Client) Hydrate(ctx context.Context, p aisle.Product) (aisle.Product, error) {
	if c.cfg.DetailPath == "" {
		return aisle.Product{}, aisle.Errorf(aisle.EINVALID, "source detail path not configured")
	}
	path := strings.ReplaceAll(c.cfg.DetailPath, "{id}", url.PathEscape(p.ID))

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return aisle.Product{}, aisle.Errorf(aisle.EUNAVAILABLE, "detail request failed: %v", err)
	}
	if err := classifyStatus(resp); err != nil {
		return aisle.Product{}, err
	}

	var payload any
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return aisle.Product{}, aisle.Errorf(aisle.EINVALID, "malformed detail response: %v", err)
	}

	raw, found := lookup(payload, c.cfg.Mapping.Detail)
	if !found {
		return aisle.Product{}, aisle.Errorf(aisle.EINVALID, "detail response missing field %q", c.cfg.Mapping.Detail)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return aisle.Product{}, aisle.Errorf(aisle.EINVALID, "detail response field %q is not an object", c.cfg.Mapping.Detail)
	}

	hydrated := c.mapProduct(obj)
	hydrated.ID = p.ID
	if hydrated.Name == "" {
		hydrated.Name = p.Name
	}
	if hydrated.URL == "" {
		hydrated.URL = p.URL
	}
	if hydrated.Price == "" {
		hydrated.Price = p.Price
	}
	if len(hydrated.Categories) == 0 {
		hydrated.Categories = p.Categories
	}
	hydrated.Detail = obj
	return hydrated, nil
}

// mapProduct reads the mapped fields out of a decoded product object.
func (c *Client) mapProduct(obj map[string]any) aisle.Product {
	m := c.cfg.Mapping
	p := aisle.Product{
		ID:    lookupString(obj, m.ID),
		Name:  lookupString(obj, m.Name),
		URL:   lookupString(obj, m.URL),
		Price: lookupString(obj, m.Price),
	}
	if m.Categories != "" {
		if raw, ok := lookup(obj, m.Categories); ok {
			p.Categories = c.mapCategories(raw)
		}
	}
	return p
}

// mapCategories accepts a bare key, an array of keys, or an array of
// category objects carrying the key under Mapping.CategoryKey.
func (c *Client) mapCategories(raw any) []aisle.CategoryKey {
	entries, ok := raw.([]any)
	if !ok {
		if s := stringify(raw); s != "" {
			return []aisle.CategoryKey{aisle.CategoryKey(s)}
		}
		return nil
	}
	var keys []aisle.CategoryKey
	for _, entry := range entries {
		switch val := entry.(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				keys = append(keys, aisle.CategoryKey(s))
			}
		case map[string]any:
			if s := lookupString(val, c.cfg.Mapping.CategoryKey); s != "" {
				keys = append(keys, aisle.CategoryKey(s))
			}
		}
	}
	return keys
}

// classifyStatus maps an HTTP response status to an application error.
// Sources answer 403 to paced-out clients about as often as 429, so both
// count as rate limiting.
func classifyStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests || code == http.StatusForbidden:
		retryAfter := parseRetryAfter(resp.Header().Get("Retry-After"))
		return aisle.RateLimitErrorf(retryAfter, "rate limited: HTTP %d", code)
	case code >= 500:
		return aisle.Errorf(aisle.EUNAVAILABLE, "source unavailable: HTTP %d", code)
	case code == http.StatusNotFound:
		return aisle.Errorf(aisle.ENOTFOUND, "not found: HTTP %d", code)
	default:
		return aisle.Errorf(aisle.EINVALID, "unexpected response: HTTP %d", code)
	}
}

// parseRetryAfter reads a Retry-After header holding either seconds or an
// HTTP date. Absent or unparseable values yield zero.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// lookup walks a dot-separated path into decoded JSON. An empty path
// returns v itself.
func lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, true
	}
	cur := v
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// lookupString reads the value at path and renders it as a string.
func lookupString(v any, path string) string {
	raw, ok := lookup(v, path)
	if !ok {
		return ""
	}
	return stringify(raw)
}

// stringify renders scalar JSON values. Objects and arrays render empty.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}
