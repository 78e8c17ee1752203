// Package digest holds the normalized item and output document types plus
// the pure transformations between them: deduplication, capping, and the
// must-read ranking.
package digest

import (
	"sort"
	"strings"
	"time"
)

// MaxItems caps how many articles a single day's digest may contain.
const MaxItems = 25

// mustReadCount is the size of the ranked must-read subset.
const mustReadCount = 3

// Item is one normalized journal article. Year holds an int when the source
// year parses as one and the raw string otherwise; consumers of the JSON
// output must accept both.
type Item struct {
	DOI          string   `json:"doi"`
	Title        string   `json:"title"`
	Venue        string   `json:"venue"`
	Year         any      `json:"year"`
	Authors      []string `json:"authors"`
	Subfield     string   `json:"subfield"`
	Summary      string   `json:"summary"`
	Context      string   `json:"context"`
	OpenQuestion string   `json:"open_question"`
	Link         string   `json:"link"`
	OA           bool     `json:"oa"`
	Keywords     []string `json:"keywords"`

	// Abstract is rebuilt from the catalog's inverted index and only feeds
	// the enrichment prompt; it is never serialized.
	Abstract string `json:"-"`
}

// Digest is the final output document for one day.
type Digest struct {
	Date     string   `json:"date"`
	Items    []Item   `json:"items"`
	MustRead []string `json:"must_read"`
}

// TargetDate returns yesterday's date in the given timezone as YYYY-MM-DD.
// When the timezone database is unavailable a fixed UTC+8 zone is used.
func TargetDate(tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.FixedZone("UTC+8", 8*3600)
	}
	return time.Now().In(loc).AddDate(0, 0, -1).Format("2006-01-02")
}

// Dedupe drops items without a DOI, keeps the first occurrence of each DOI
// (case-insensitively), and stops once MaxItems have been kept. Arrival
// order decides which duplicates and overflow survive.
func Dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.DOI == "" {
			continue
		}
		key := strings.ToLower(it.DOI)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
		if len(out) == MaxItems {
			break
		}
	}
	return out
}

// MustRead picks the top 3 items by a stable two-key descending sort:
// flagship venue membership first, open access as the tie-break, input order
// preserved for full ties. Returns their DOIs, omitting empty ones.
func MustRead(items []Item, flagships map[string]bool) []string {
	ranked := make([]Item, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		fi, fj := flagships[ranked[i].Venue], flagships[ranked[j].Venue]
		if fi != fj {
			return fi
		}
		if ranked[i].OA != ranked[j].OA {
			return ranked[i].OA
		}
		return false
	})

	top := ranked
	if len(top) > mustReadCount {
		top = top[:mustReadCount]
	}
	dois := make([]string, 0, len(top))
	for _, it := range top {
		if it.DOI != "" {
			dois = append(dois, it.DOI)
		}
	}
	return dois
}
