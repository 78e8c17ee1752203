package openalex

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kailuotarny/ocean-climate-digest/internal/digest"
)

// Work is a raw OpenAlex work record, limited to the fields we select.
type Work struct {
	ID                    string           `json:"id"`
	DOI                   string           `json:"doi"`
	Title                 string           `json:"title"`
	PublicationYear       int              `json:"publication_year"`
	PublicationDate       string           `json:"publication_date"`
	PrimaryLocation       *Location        `json:"primary_location"`
	Authorships           []Authorship     `json:"authorships"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}

// Location is where a work was published or hosted.
type Location struct {
	Source         *Source `json:"source"`
	LandingPageURL string  `json:"landing_page_url"`
	PDFURL         string  `json:"pdf_url"`
	IsOA           bool    `json:"is_oa"`
	License        string  `json:"license"`
}

// Source is the journal or repository behind a location.
type Source struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Authorship links a work to one author.
type Authorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

// ToItem normalizes a raw work into a digest item.
func (w Work) ToItem() digest.Item {
	var loc Location
	if w.PrimaryLocation != nil {
		loc = *w.PrimaryLocation
	}

	venue := ""
	if loc.Source != nil {
		venue = loc.Source.DisplayName
	}

	link := loc.LandingPageURL
	if link == "" {
		link = loc.PDFURL
	}
	if link == "" && w.DOI != "" {
		link = "https://doi.org/" + strings.TrimPrefix(w.DOI, "https://doi.org/")
	}

	authors := []string{}
	for _, a := range w.Authorships {
		if a.Author.DisplayName == "" {
			continue
		}
		authors = append(authors, a.Author.DisplayName)
		if len(authors) == 5 {
			break
		}
	}

	oa := loc.IsOA || strings.Contains(strings.ToLower(loc.License), "cc-")

	return digest.Item{
		DOI:      w.DOI,
		Title:    w.Title,
		Venue:    venue,
		Year:     w.year(),
		Authors:  authors,
		Link:     link,
		OA:       oa,
		Keywords: []string{},
		Abstract: invertAbstract(w.AbstractInvertedIndex),
	}
}

// year prefers the integer publication year, then the leading four characters
// of the publication date. A date prefix that is not a number is kept
// verbatim, so the serialized year may be a string.
func (w Work) year() any {
	if w.PublicationYear != 0 {
		return w.PublicationYear
	}
	raw := w.PublicationDate
	if raw == "" {
		raw = "0000"
	}
	if len(raw) > 4 {
		raw = raw[:4]
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}

// invertAbstract rebuilds the plain-text abstract from OpenAlex's inverted
// index (word to token positions). Word order is restored exactly; the
// original punctuation spacing is not recoverable. Words are placed in
// sorted key order and the first claimant of a position wins, so the result
// does not depend on map iteration order even for malformed indexes where
// two words share a position.
func invertAbstract(inv map[string][]int) string {
	if len(inv) == 0 {
		return ""
	}
	keys := make([]string, 0, len(inv))
	for word := range inv {
		keys = append(keys, word)
	}
	sort.Strings(keys)

	var slots []string
	for _, word := range keys {
		for _, p := range inv[word] {
			if p < 0 {
				continue
			}
			if p >= len(slots) {
				slots = append(slots, make([]string, p-len(slots)+1)...)
			}
			if slots[p] == "" {
				slots[p] = word
			}
		}
	}
	words := make([]string, 0, len(slots))
	for _, w := range slots {
		if w != "" {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}
