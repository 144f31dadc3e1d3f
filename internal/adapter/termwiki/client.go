// Package termwiki reads concept pages from the Giellatekno TermWiki
// through the MediaWiki API. The client never writes to the wiki.
package termwiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verdd/verdd-backend/internal/config"
)

// MaxTitlesPerRequest is the MediaWiki limit on titles per query for
// clients without the apihighlimits right.
const MaxTitlesPerRequest = 50

const retryDelay = 500 * time.Millisecond

// Client talks to one MediaWiki api.php endpoint.
type Client struct {
	apiURL      string
	pageURLBase string
	httpClient  *http.Client
	log         *slog.Logger
}

// NewClient creates a Client from the termwiki config.
func NewClient(cfg config.TermWikiConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiURL:      cfg.APIURL,
		pageURLBase: cfg.PageURLBase,
		httpClient:  &http.Client{Timeout: timeout},
		log:         logger.With("adapter", "termwiki"),
	}
}

// PageURL returns the browser link of a page.
func (c *Client) PageURL(title string) string {
	return c.pageURLBase + url.QueryEscape(strings.ReplaceAll(title, " ", "_"))
}

// CategoryMembers lists every page title in category, following
// cmcontinue until the listing is exhausted.
func (c *Client) CategoryMembers(ctx context.Context, category string) ([]string, error) {
	var (
		titles []string
		cont   string
	)
	for {
		params := url.Values{
			"action":  {"query"},
			"list":    {"categorymembers"},
			"cmtitle": {category},
			"cmlimit": {"500"},
			"cmtype":  {"page"},
			"format":  {"json"},
		}
		if cont != "" {
			params.Set("cmcontinue", cont)
		}

		var resp categoryResponse
		if err := c.get(ctx, params, &resp); err != nil {
			return nil, fmt.Errorf("termwiki: list %s: %w", category, err)
		}
		for _, m := range resp.Query.CategoryMembers {
			titles = append(titles, m.Title)
		}

		c.log.DebugContext(ctx, "termwiki category page",
			slog.String("category", category),
			slog.Int("members", len(resp.Query.CategoryMembers)),
		)

		if resp.Continue.CMContinue == "" {
			return titles, nil
		}
		cont = resp.Continue.CMContinue
	}
}

// FetchPages returns the wikitext of up to MaxTitlesPerRequest pages keyed
// by title. Missing pages are absent from the map.
func (c *Client) FetchPages(ctx context.Context, titles []string) (map[string]string, error) {
	if len(titles) == 0 {
		return map[string]string{}, nil
	}
	if len(titles) > MaxTitlesPerRequest {
		return nil, fmt.Errorf("termwiki: %d titles requested, at most %d allowed", len(titles), MaxTitlesPerRequest)
	}

	params := url.Values{
		"action":        {"query"},
		"prop":          {"revisions"},
		"rvprop":        {"content"},
		"rvslots":       {"main"},
		"titles":        {strings.Join(titles, "|")},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	var resp pagesResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("termwiki: fetch pages: %w", err)
	}

	out := make(map[string]string, len(resp.Query.Pages))
	for _, p := range resp.Query.Pages {
		if p.Missing || len(p.Revisions) == 0 {
			continue
		}
		out[p.Title] = p.Revisions[0].Slots.Main.Content
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, params url.Values, dst any) error {
	reqURL := c.apiURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		c.log.ErrorContext(ctx, "termwiki request failed", slog.String("error", err.Error()))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
		return fmt.Errorf("api error %s: %s", apiErr.Error.Code, apiErr.Error.Info)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "termwiki retry", slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryDelay):
	}

	return c.httpClient.Do(req)
}
