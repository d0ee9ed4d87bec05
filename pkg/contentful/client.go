// Package contentful is a minimal client for the Contentful delivery and
// preview APIs, covering the two read operations this tool needs: paged
// entry listing with a coarse full-text query, and the locale list of an
// environment.
package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/shanonplace/contentful-find-case-sensitive/pkg/config"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/log"
)

// Client talks to one space/environment pair.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	space       string
	environment string
}

// Query describes one page request against the entries collection. Text is a
// coarse, case-insensitive full-text pre-filter evaluated by the API; the
// caller remains responsible for any stricter matching.
type Query struct {
	Text    string
	Locale  string
	Limit   int
	Skip    int
	Include int
}

// Sys carries the system metadata of an entry.
type Sys struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	ContentType Link   `json:"contentType"`
}

// Link is a reference to another resource, used here for content types.
type Link struct {
	Sys LinkSys `json:"sys"`
}

// LinkSys identifies the linked resource.
type LinkSys struct {
	ID string `json:"id"`
}

// Entry is one content entry. Fields stays raw JSON so malformed field
// payloads surface per entry instead of failing the whole page decode.
type Entry struct {
	Sys    Sys             `json:"sys"`
	Fields json.RawMessage `json:"fields"`
}

// ContentTypeID returns the entry's content type identifier.
func (e Entry) ContentTypeID() string {
	return e.Sys.ContentType.Sys.ID
}

// EntriesPage is one page of the entries collection.
type EntriesPage struct {
	Total int     `json:"total"`
	Skip  int     `json:"skip"`
	Limit int     `json:"limit"`
	Items []Entry `json:"items"`
}

// Locale describes one locale configured in the environment.
type Locale struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Default      bool   `json:"default"`
	FallbackCode string `json:"fallbackCode"`
}

type localesResponse struct {
	Items []Locale `json:"items"`
}

// apiError mirrors the body Contentful returns for non-2xx responses.
type apiError struct {
	Message string `json:"message"`
}

// NewClient builds a client from the resolved configuration. The access
// token is injected through an oauth2 static token source so every request
// carries a bearer Authorization header.
func NewClient(cfg *config.Config) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 30 * time.Second

	baseURL := cfg.Host
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		space:       cfg.SpaceID,
		environment: cfg.Environment,
	}
}

// ListEntries fetches one page of entries matching the coarse query.
func (c *Client) ListEntries(ctx context.Context, q Query) (*EntriesPage, error) {
	params := url.Values{}
	if q.Text != "" {
		params.Set("query", q.Text)
	}
	if q.Locale != "" {
		params.Set("locale", q.Locale)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	params.Set("skip", strconv.Itoa(q.Skip))
	if q.Include > 0 {
		params.Set("include", strconv.Itoa(q.Include))
	}

	var page EntriesPage
	if err := c.get(ctx, "entries", params, &page); err != nil {
		return nil, err
	}

	log.ForComponent("contentful").Debugf("entries page: total=%d skip=%d items=%d", page.Total, page.Skip, len(page.Items))
	return &page, nil
}

// Locales fetches the locales configured for the environment.
func (c *Client) Locales(ctx context.Context) ([]Locale, error) {
	var resp localesResponse
	if err := c.get(ctx, "locales", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/%s", c.baseURL, c.space, c.environment, resource)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building %s request: %w", resource, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", resource, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.ForComponent("contentful").Warnf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resource, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", resource, err)
	}

	return nil
}

func (c *Client) statusError(resource string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%s request failed with status %d: %s", resource, resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("%s request failed with status %d", resource, resp.StatusCode)
}
