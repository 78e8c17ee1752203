// Package writer serializes a digest to the dated and latest JSON files.
package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailuotarny/ocean-climate-digest/internal/digest"
)

// LatestFile is the fixed name of the always-overwritten pointer file.
const LatestFile = "latest.json"

// Write serializes the digest to <dir>/<date>.json and <dir>/latest.json
// with identical content, creating dir if needed. Non-ASCII text is kept
// literal and the output is indented. Returns the path of the latest file.
func Write(dir string, d *digest.Digest) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", fmt.Errorf("encoding digest: %w", err)
	}
	data := buf.Bytes()

	dated := filepath.Join(dir, d.Date+".json")
	if err := os.WriteFile(dated, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dated, err)
	}

	latest := filepath.Join(dir, LatestFile)
	if err := os.WriteFile(latest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", latest, err)
	}
	return latest, nil
}

// Read loads a digest file written by Write.
func Read(path string) (*digest.Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading digest: %w", err)
	}
	var d digest.Digest
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing digest: %w", err)
	}
	return &d, nil
}
