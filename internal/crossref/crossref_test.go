package crossref

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(url string) *Client {
	c := NewClient("")
	c.BaseURL = url
	c.Delay = 0
	return c
}

const sampleResponse = `{"message":{"items":[
	{"DOI":"10.1/a","title":["Sediment flux"],"container-title":["Marine Geology"],
	 "author":[{"given":"Ada","family":"Lovelace"},{"family":"Turing"}],
	 "issued":{"date-parts":[[2024,5,1]]},"URL":"https://doi.org/10.1/a","type":"journal-article"},
	{"DOI":"10.1/b","title":["A book chapter"],"container-title":["Marine Geology"],
	 "issued":{"date-parts":[[2024]]},"URL":"https://doi.org/10.1/b","type":"book-chapter"}
]}}`

func TestFetchAllNormalizesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("rows") != "100" {
			t.Errorf("expected rows=100, got %s", r.URL.Query().Get("rows"))
		}
		fmt.Fprint(w, sampleResponse)
	}))
	defer srv.Close()

	items := testClient(srv.URL).FetchAll(context.Background(), "2024-05-01", []string{"Marine Geology"})
	if len(items) != 1 {
		t.Fatalf("expected 1 journal article, got %d items", len(items))
	}

	it := items[0]
	if it.DOI != "10.1/a" {
		t.Errorf("expected DOI 10.1/a, got %q", it.DOI)
	}
	if it.Title != "Sediment flux" {
		t.Errorf("expected title from first element, got %q", it.Title)
	}
	if it.Venue != "Marine Geology" {
		t.Errorf("expected venue Marine Geology, got %q", it.Venue)
	}
	if it.Year != 2024 {
		t.Errorf("expected year 2024, got %v", it.Year)
	}
	if len(it.Authors) != 2 || it.Authors[0] != "Lovelace, Ada" || it.Authors[1] != "Turing" {
		t.Errorf("unexpected authors: %v", it.Authors)
	}
	if it.OA {
		t.Error("fallback items must not be marked open access")
	}
	if it.Subfield != "" {
		t.Errorf("expected empty subfield, got %q", it.Subfield)
	}
}

func TestFetchAllQueriesPerJournal(t *testing.T) {
	var filters []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filters = append(filters, r.URL.Query().Get("filter"))
		fmt.Fprint(w, `{"message":{"items":[]}}`)
	}))
	defer srv.Close()

	testClient(srv.URL).FetchAll(context.Background(), "2024-05-01", []string{"Geology", "Ocean Science"})
	if len(filters) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(filters))
	}
	want := "from-pub-date:2024-05-01,until-pub-date:2024-05-01,container-title:Geology"
	if filters[0] != want {
		t.Errorf("filter mismatch:\n  got  %s\n  want %s", filters[0], want)
	}
}

func TestFetchAllToleratesHTTPErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, sampleResponse)
	}))
	defer srv.Close()

	items := testClient(srv.URL).FetchAll(context.Background(), "2024-05-01",
		[]string{"Failing Journal", "Marine Geology"})
	if len(items) != 1 {
		t.Errorf("expected 1 item from the surviving journal, got %d", len(items))
	}
}

func TestRecordYearMissing(t *testing.T) {
	var r record
	if got := r.year(); got != 0 {
		t.Errorf("expected 0 for missing date-parts, got %d", got)
	}
}
