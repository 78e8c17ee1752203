// Package openalex resolves journal names to OpenAlex source IDs and fetches
// work records for a publication date. This is the primary, strict tier:
// any transport failure here aborts the whole run.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openalex.org"

const workFields = "id,doi,title,publication_year,publication_date,primary_location,authorships,abstract_inverted_index"

// Client queries the OpenAlex REST API.
type Client struct {
	BaseURL string
	// Delay is slept after each per-journal source lookup to respect the
	// provider's rate expectations.
	Delay  time.Duration
	mailto string
	client *http.Client
}

// NewClient creates an OpenAlex client. A non-empty mailto is sent in the
// User-Agent header as the polite pool identifier.
func NewClient(mailto string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Delay:   200 * time.Millisecond,
		mailto:  mailto,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// ResolveSources maps journal display names to OpenAlex source IDs, taking
// the best match per name. Journals with no match are silently dropped.
func (c *Client) ResolveSources(ctx context.Context, journals []string) ([]string, error) {
	var ids []string
	for _, name := range journals {
		id, err := c.lookupSource(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolving source %q: %w", name, err)
		}
		if id != "" {
			ids = append(ids, id)
		}
		if c.Delay > 0 {
			time.Sleep(c.Delay)
		}
	}
	return ids, nil
}

func (c *Client) lookupSource(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	params := url.Values{
		"search":   {name},
		"per-page": {"1"},
	}
	req, err := c.newRequest(ctx, c.BaseURL+"/sources?"+params.Encode())
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sources search returned %d", resp.StatusCode)
	}

	var result struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding sources response: %w", err)
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].ID, nil
}

// FetchWorks retrieves the journal articles published on date in the given
// sources, a single page of up to 200 works. Returns nil immediately when no
// sources resolved.
func (c *Client) FetchWorks(ctx context.Context, date string, sourceIDs []string) ([]Work, error) {
	if len(sourceIDs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(sourceIDs))
	for i, id := range sourceIDs {
		keys[i] = shortID(id)
	}
	filter := fmt.Sprintf(
		"type:journal-article,primary_location.source.id:%s,from_publication_date:%s,to_publication_date:%s",
		strings.Join(keys, "|"), date, date)
	params := url.Values{
		"filter":   {filter},
		"per-page": {"200"},
		"select":   {workFields},
	}

	req, err := c.newRequest(ctx, c.BaseURL+"/works?"+params.Encode())
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching works: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("works search returned %d", resp.StatusCode)
	}

	var result struct {
		Results []Work `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding works response: %w", err)
	}
	return result.Results, nil
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.mailto != "" {
		req.Header.Set("User-Agent", fmt.Sprintf("ocean-digest-bot (mailto:%s)", c.mailto))
	}
	return req, nil
}

// shortID strips the https://openalex.org/ prefix from a source URL, leaving
// the bare key the works filter expects.
func shortID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
