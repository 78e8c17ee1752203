// Package enrich fills each item's summary, context, open question and
// subfield with one chat completion per item.
package enrich

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kailuotarny/ocean-climate-digest/internal/digest"
	"github.com/kailuotarny/ocean-climate-digest/internal/llm"
)

const enrichPrompt = `你是一名资深学术编辑，领域：海洋科学/沉积学/古气候/海洋地质/海洋地球物理/海洋物理与化学/海洋生物/气候变化。
给定论文元数据与摘要，请输出：
1) 关键结论（1 句，中文，避免夸张辞藻）；
2) 与以往研究对比（2–3 句，引用 1–2 篇里程碑或近期研究，仅列作者或期刊缩写即可）；
3) 一个清晰、可检验的未解决科学问题（1 句，中文）。
4) 给出最可能的子领域标签（八选一：海洋物理学/海洋化学/海洋生物学/海洋地质学/海洋地球物理学/沉积学/古气候学/古海洋学/气候变化科学）。
仅返回 JSON：{"summary": "...","context": "...","open_question": "...","subfield":"..."}。

元数据：
标题：%s
期刊：%s
作者：%s
DOI：%s
摘要：%s`

const (
	failedContext      = "（自动生成失败，保留摘要片段）"
	failedOpenQuestion = "该研究尚未解决的问题有待随后评估。"

	// summaryLimit is the fallback truncation length, in runes.
	summaryLimit = 200
)

// Enricher runs the model over items sequentially, one call per item with a
// fixed delay in between.
type Enricher struct {
	provider llm.Provider
	delay    time.Duration
}

// New creates an enricher. A nil provider is allowed and disables enrichment.
func New(provider llm.Provider, delay time.Duration) *Enricher {
	return &Enricher{provider: provider, delay: delay}
}

// EnrichAll enriches every item. Without a configured provider the items
// pass through untouched. Per-item failures degrade to a local heuristic
// and never abort the run.
func (e *Enricher) EnrichAll(ctx context.Context, items []digest.Item) []digest.Item {
	if e.provider == nil || !e.provider.IsConfigured() {
		log.Println("No model credential configured, skipping enrichment")
		return items
	}

	out := make([]digest.Item, 0, len(items))
	for _, it := range items {
		out = append(out, e.enrich(ctx, it))
		if e.delay > 0 {
			time.Sleep(e.delay)
		}
	}
	return out
}

func (e *Enricher) enrich(ctx context.Context, it digest.Item) digest.Item {
	abstract := it.Abstract
	if abstract == "" {
		abstract = "(无)"
	}
	prompt := fmt.Sprintf(enrichPrompt,
		it.Title, it.Venue, strings.Join(it.Authors, ", "), it.DOI, abstract)

	text, err := e.provider.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Enrichment failed for %s: %v", it.DOI, err)
		return fallback(it)
	}

	parsed := llm.ParseJSONObject(text)
	if parsed == nil {
		return fallback(it)
	}

	it.Summary = getString(parsed, "summary")
	it.Context = getString(parsed, "context")
	it.OpenQuestion = getString(parsed, "open_question")
	it.Subfield = getString(parsed, "subfield")
	return it
}

// fallback keeps a truncated abstract as the summary and fixed placeholder
// text for the generated fields. Subfield is left as-is.
func fallback(it digest.Item) digest.Item {
	if it.Abstract != "" {
		r := []rune(it.Abstract)
		if len(r) > summaryLimit {
			r = r[:summaryLimit]
		}
		it.Summary = string(r) + "..."
	}
	it.Context = failedContext
	it.OpenQuestion = failedOpenQuestion
	return it
}

func getString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
