package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailuotarny/ocean-climate-digest/internal/digest"
)

func TestWriteBothFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	d := &digest.Digest{
		Date: "2024-05-01",
		Items: []digest.Item{
			{DOI: "10.1/a", Title: "海洋环流与气候", Year: 2024, Authors: []string{"A"}, Keywords: []string{}},
		},
		MustRead: []string{"10.1/a"},
	}

	latest, err := Write(dir, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != filepath.Join(dir, "latest.json") {
		t.Errorf("unexpected latest path: %s", latest)
	}

	dated, err := os.ReadFile(filepath.Join(dir, "2024-05-01.json"))
	if err != nil {
		t.Fatalf("dated file not written: %v", err)
	}
	latestData, err := os.ReadFile(latest)
	if err != nil {
		t.Fatalf("latest file not written: %v", err)
	}
	if !bytes.Equal(dated, latestData) {
		t.Error("dated and latest files differ")
	}
}

func TestWritePreservesNonASCII(t *testing.T) {
	dir := t.TempDir()
	d := &digest.Digest{
		Date:     "2024-05-01",
		Items:    []digest.Item{{DOI: "10.1/a", Summary: "海洋沉积物记录"}},
		MustRead: []string{},
	}
	if _, err := Write(dir, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "latest.json"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Contains(data, []byte("海洋沉积物记录")) {
		t.Error("expected literal UTF-8 text in output")
	}
	if bytes.Contains(data, []byte(`\u`)) {
		t.Error("output must not escape non-ASCII characters")
	}
}

func TestWriteEmptyDigest(t *testing.T) {
	dir := t.TempDir()
	d := &digest.Digest{Date: "2024-05-01", Items: []digest.Item{}, MustRead: []string{}}
	if _, err := Write(dir, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "latest.json"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Contains(data, []byte(`"items": []`)) {
		t.Errorf("expected empty items array, got:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"must_read": []`)) {
		t.Errorf("expected empty must_read array, got:\n%s", data)
	}
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	d := &digest.Digest{Date: "2024-05-01", Items: []digest.Item{{DOI: "10.1/old"}}, MustRead: []string{}}
	if _, err := Write(dir, d); err != nil {
		t.Fatalf("first write: %v", err)
	}

	d.Items = []digest.Item{{DOI: "10.1/new"}}
	if _, err := Write(dir, d); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "latest.json"))
	if bytes.Contains(data, []byte("10.1/old")) {
		t.Error("expected old content to be fully overwritten")
	}
}

func TestReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := &digest.Digest{
		Date:     "2024-05-01",
		Items:    []digest.Item{{DOI: "10.1/a", Title: "T", Year: 2024}},
		MustRead: []string{"10.1/a"},
	}
	path, err := Write(dir, d)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Date != "2024-05-01" || len(got.Items) != 1 || got.Items[0].DOI != "10.1/a" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
