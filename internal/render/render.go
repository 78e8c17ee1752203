// Package render turns a digest into a standalone HTML page so the output
// directory can be published as a static site next to the JSON files.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/kailuotarny/ocean-climate-digest/internal/digest"
)

var md = goldmark.New()

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Ocean Climate Digest %s</title>
<style>
body { max-width: 720px; margin: 2rem auto; padding: 0 1rem; font-family: Georgia, serif; line-height: 1.6; }
h1 { border-bottom: 1px solid #ccc; padding-bottom: 0.3rem; }
h2 { margin-top: 2rem; }
em { color: #555; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTML renders the digest as a full HTML page.
func HTML(d *digest.Digest) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(d)), &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return []byte(fmt.Sprintf(pageTemplate, d.Date, buf.String())), nil
}

// Markdown formats the digest as a markdown document.
func Markdown(d *digest.Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ocean Climate Digest: %s\n\n", d.Date)

	if len(d.Items) == 0 {
		b.WriteString("No new articles today.\n")
		return b.String()
	}

	if len(d.MustRead) > 0 {
		b.WriteString("**Must read:**\n\n")
		for _, doi := range d.MustRead {
			fmt.Fprintf(&b, "- %s\n", doi)
		}
		b.WriteString("\n")
	}

	for _, it := range d.Items {
		title := it.Title
		if title == "" {
			title = it.DOI
		}
		fmt.Fprintf(&b, "## %s\n\n", title)

		meta := it.Venue
		if hasYear(it.Year) {
			meta = fmt.Sprintf("%s (%v)", meta, it.Year)
		}
		if it.OA {
			meta += ", open access"
		}
		if it.Subfield != "" {
			meta += ", " + it.Subfield
		}
		fmt.Fprintf(&b, "*%s*\n\n", meta)

		if len(it.Authors) > 0 {
			fmt.Fprintf(&b, "%s\n\n", strings.Join(it.Authors, ", "))
		}
		if it.Summary != "" {
			fmt.Fprintf(&b, "%s\n\n", it.Summary)
		}
		if it.Context != "" {
			fmt.Fprintf(&b, "%s\n\n", it.Context)
		}
		if it.OpenQuestion != "" {
			fmt.Fprintf(&b, "%s\n\n", it.OpenQuestion)
		}
		if it.Link != "" {
			label := it.DOI
			if label == "" {
				label = it.Link
			}
			fmt.Fprintf(&b, "[%s](%s)\n\n", label, it.Link)
		}
	}
	return b.String()
}

// hasYear reports whether a dual-typed year carries a real value. Zero is
// the unknown-year sentinel; a JSON round trip turns ints into float64.
func hasYear(year any) bool {
	switch y := year.(type) {
	case nil:
		return false
	case int:
		return y != 0
	case float64:
		return y != 0
	case string:
		return y != ""
	}
	return true
}
