package openalex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(url string) *Client {
	c := NewClient("test@example.org")
	c.BaseURL = url
	c.Delay = 0
	return c
}

func TestResolveSourcesDropsUnmatched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); !strings.Contains(got, "mailto:test@example.org") {
			t.Errorf("missing mailto in User-Agent: %q", got)
		}
		if r.URL.Query().Get("search") == "Nature Geoscience" {
			fmt.Fprint(w, `{"results":[{"id":"https://openalex.org/S1"}]}`)
			return
		}
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	ids, err := testClient(srv.URL).ResolveSources(context.Background(),
		[]string{"Nature Geoscience", "Unknown Journal"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "https://openalex.org/S1" {
		t.Errorf("expected single resolved id, got %v", ids)
	}
}

func TestResolveSourcesFatalOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ResolveSources(context.Background(), []string{"Geology"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "Geology") {
		t.Errorf("error should name the journal: %v", err)
	}
}

func TestFetchWorksEmptySourceIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when no sources resolved")
	}))
	defer srv.Close()

	works, err := testClient(srv.URL).FetchWorks(context.Background(), "2024-05-01", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if works != nil {
		t.Errorf("expected nil works, got %v", works)
	}
}

func TestFetchWorksFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		want := "type:journal-article,primary_location.source.id:S1|S2,from_publication_date:2024-05-01,to_publication_date:2024-05-01"
		if filter != want {
			t.Errorf("filter mismatch:\n  got  %s\n  want %s", filter, want)
		}
		if r.URL.Query().Get("per-page") != "200" {
			t.Errorf("expected per-page 200, got %s", r.URL.Query().Get("per-page"))
		}
		fmt.Fprint(w, `{"results":[{"id":"https://openalex.org/W1","doi":"https://doi.org/10.1/a","title":"T"}]}`)
	}))
	defer srv.Close()

	works, err := testClient(srv.URL).FetchWorks(context.Background(), "2024-05-01",
		[]string{"https://openalex.org/S1", "https://openalex.org/S2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(works) != 1 || works[0].Title != "T" {
		t.Errorf("unexpected works: %+v", works)
	}
}

func TestFetchWorksFatalOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchWorks(context.Background(), "2024-05-01", []string{"S1"})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
}
