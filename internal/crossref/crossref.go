// Package crossref is the degraded fallback tier, queried per journal when
// the primary OpenAlex fetch yields nothing. Unlike the primary tier,
// failures for individual journals are logged and skipped, never fatal.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kailuotarny/ocean-climate-digest/internal/digest"
)

const defaultBaseURL = "https://api.crossref.org/works"

// Client queries the Crossref works API.
type Client struct {
	BaseURL string
	// Delay is slept after each per-journal query.
	Delay  time.Duration
	mailto string
	client *http.Client
}

// NewClient creates a Crossref client. A non-empty mailto is sent in the
// User-Agent header for the polite pool.
func NewClient(mailto string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Delay:   200 * time.Millisecond,
		mailto:  mailto,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchAll queries Crossref once per journal name for articles published on
// date and returns them already normalized. Crossref does not report open
// access status through this endpoint, so oa is always false and subfield is
// left for enrichment.
func (c *Client) FetchAll(ctx context.Context, date string, journals []string) []digest.Item {
	var items []digest.Item
	for _, journal := range journals {
		items = append(items, c.fetchJournal(ctx, date, journal)...)
		if c.Delay > 0 {
			time.Sleep(c.Delay)
		}
	}
	return items
}

type message struct {
	Message struct {
		Items []record `json:"items"`
	} `json:"message"`
}

type record struct {
	DOI            string   `json:"DOI"`
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	Author         []author `json:"author"`
	Issued         struct {
		DateParts [][]any `json:"date-parts"`
	} `json:"issued"`
	URL  string `json:"URL"`
	Type string `json:"type"`
}

type author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

func (c *Client) fetchJournal(ctx context.Context, date, journal string) []digest.Item {
	filter := fmt.Sprintf("from-pub-date:%s,until-pub-date:%s,container-title:%s", date, date, journal)
	params := url.Values{
		"filter": {filter},
		"rows":   {"100"},
		"select": {"DOI,title,container-title,author,issued,URL,type"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("Crossref %s: %v", journal, err)
		return nil
	}
	if c.mailto != "" {
		req.Header.Set("User-Agent", fmt.Sprintf("ocean-digest-bot (mailto:%s)", c.mailto))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Crossref %s: %v", journal, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Crossref %s: HTTP %d", journal, resp.StatusCode)
		return nil
	}

	var result message
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("Crossref %s: decoding response: %v", journal, err)
		return nil
	}

	var items []digest.Item
	for _, r := range result.Message.Items {
		if r.Type != "journal-article" {
			continue
		}
		items = append(items, r.toItem())
	}
	return items
}

func (r record) toItem() digest.Item {
	authors := []string{}
	for _, a := range r.Author {
		if len(authors) == 5 {
			break
		}
		name := a.Family
		if a.Given != "" {
			name += ", " + a.Given
		}
		authors = append(authors, name)
	}

	return digest.Item{
		DOI:      r.DOI,
		Title:    first(r.Title),
		Venue:    first(r.ContainerTitle),
		Year:     r.year(),
		Authors:  authors,
		Link:     r.URL,
		Keywords: []string{},
	}
}

// year takes the first element of the issued date-parts, 0 when missing or
// unparseable.
func (r record) year() int {
	if len(r.Issued.DateParts) == 0 || len(r.Issued.DateParts[0]) == 0 {
		return 0
	}
	switch v := r.Issued.DateParts[0][0].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func first(ss []string) string {
	if len(ss) > 0 {
		return ss[0]
	}
	return ""
}
