// Package pipeline orchestrates the daily digest run: resolve sources,
// fetch, normalize, fall back, dedupe, enrich, rank, write. Strictly
// sequential; data flows forward only.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kailuotarny/ocean-climate-digest/internal/config"
	"github.com/kailuotarny/ocean-climate-digest/internal/crossref"
	"github.com/kailuotarny/ocean-climate-digest/internal/digest"
	"github.com/kailuotarny/ocean-climate-digest/internal/enrich"
	"github.com/kailuotarny/ocean-climate-digest/internal/llm"
	"github.com/kailuotarny/ocean-climate-digest/internal/openalex"
	"github.com/kailuotarny/ocean-climate-digest/internal/store"
	"github.com/kailuotarny/ocean-climate-digest/internal/writer"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
}

// Result holds the outcome of a full digest run.
type Result struct {
	Date   string
	Digest *digest.Digest
	// Source is which tier produced the items: openalex, crossref or none.
	Source string
	// Path is the written latest file.
	Path  string
	Steps []StepResult
}

// Pipeline runs the daily digest job.
type Pipeline struct {
	cfg      *config.Config
	openalex *openalex.Client
	crossref *crossref.Client
	enricher *enrich.Enricher
	store    *store.Store
}

// New creates a pipeline. The store may be nil to skip run archiving.
func New(cfg *config.Config, st *store.Store) *Pipeline {
	mailto := os.Getenv(cfg.Enrichment.ContactEmailEnv)
	provider := llm.NewOpenAIProvider(cfg.Enrichment.Model, cfg.Enrichment.APIKeyEnv)
	return &Pipeline{
		cfg:      cfg,
		openalex: openalex.NewClient(mailto),
		crossref: crossref.NewClient(mailto),
		enricher: enrich.New(provider, 300*time.Millisecond),
		store:    st,
	}
}

// Run executes the full sequence for yesterday's date. Source resolution,
// the primary fetch and writing the output are fatal; everything else
// degrades in place.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	return p.runDate(ctx, digest.TargetDate(p.cfg.Timezone))
}

func (p *Pipeline) runDate(ctx context.Context, date string) (*Result, error) {
	r := &Result{Date: date, Source: "none"}

	log.Println("Step 1/6: Resolving journal sources...")
	ids, err := p.openalex.ResolveSources(ctx, p.cfg.Journals)
	if err != nil {
		return nil, err
	}
	r.step("Resolve", fmt.Sprintf("Resolved %d of %d journals", len(ids), len(p.cfg.Journals)))

	log.Println("Step 2/6: Fetching works from OpenAlex...")
	works, err := p.openalex.FetchWorks(ctx, date, ids)
	if err != nil {
		return nil, err
	}
	items := make([]digest.Item, 0, len(works))
	for _, w := range works {
		items = append(items, w.ToItem())
	}
	if len(items) > 0 {
		r.Source = "openalex"
	}
	r.step("Fetch", fmt.Sprintf("Fetched %d works for %s", len(items), date))

	log.Println("Step 3/6: Checking fallback...")
	if len(items) == 0 {
		log.Println("Primary fetch empty, querying Crossref per journal...")
		items = p.crossref.FetchAll(ctx, date, p.cfg.Journals)
		if len(items) > 0 {
			r.Source = "crossref"
		}
		r.step("Fallback", fmt.Sprintf("Crossref returned %d items", len(items)))
	} else {
		r.step("Fallback", "Not needed")
	}

	log.Println("Step 4/6: Deduplicating...")
	items = digest.Dedupe(items)
	r.step("Dedupe", fmt.Sprintf("%d unique items (cap %d)", len(items), digest.MaxItems))

	log.Println("Step 5/6: Enriching items...")
	items = p.enricher.EnrichAll(ctx, items)
	r.step("Enrich", fmt.Sprintf("Processed %d items", len(items)))

	log.Println("Step 6/6: Ranking and writing digest...")
	must := digest.MustRead(items, p.cfg.FlagshipSet())
	d := &digest.Digest{Date: date, Items: items, MustRead: must}
	path, err := writer.Write(p.cfg.OutputDir(), d)
	if err != nil {
		return nil, err
	}
	r.Digest = d
	r.Path = path
	r.step("Write", fmt.Sprintf("Wrote %d items, %d must-read", len(items), len(must)))

	if p.store != nil {
		if err := p.store.RecordRun(date, len(items), len(must), r.Source); err != nil {
			log.Printf("Recording run: %v", err)
		}
	}

	log.Printf("Generated %s for %s with %d items.", path, date, len(items))
	return r, nil
}

func (r *Result) step(name, summary string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Summary: summary})
}
