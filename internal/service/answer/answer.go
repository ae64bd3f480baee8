// Package answer turns ranked search results into the context block, source
// list, and final answer text for one query. Both functions are pure: they
// hold no state and never touch the network, which keeps the orchestrator's
// only moving parts at its two external collaborators.
package answer

import (
	"fmt"
	"strings"

	"github.com/ashita-ai/kotae/internal/model"
)

// Fallback is returned verbatim when no search result carried excerpt text.
// Callers and tests compare against it exactly — do not reword.
const Fallback = "I could not find relevant information in the documents to answer your question."

// UnknownDocument is the source title used when the index returned no title.
const UnknownDocument = "Unknown Document"

// Assemble converts search results, in received order, into the concatenated
// context string and the caller-facing source list. Results without excerpt
// text are skipped entirely: no context block, no source entry. Surviving
// excerpts keep the 1-based index of the raw result they came from, so a
// skipped result leaves a gap in the numbering.
//
// Zero qualifying results yields ("", nil) — the signal for the no-results
// fallback path.
func Assemble(results []model.SearchResult) (string, []model.Source) {
	var b strings.Builder
	var sources []model.Source

	for i, r := range results {
		if r.Excerpt == "" {
			continue
		}

		title := r.Title
		if title == "" {
			title = UnknownDocument
		}
		confidence := r.Confidence
		if confidence == "" {
			confidence = model.ConfidenceMedium
		}

		fmt.Fprintf(&b, "Document %d: %s\n\n", i+1, r.Excerpt)
		sources = append(sources, model.Source{
			Document:   title,
			Excerpt:    r.Excerpt,
			Confidence: confidence,
		})
	}

	return b.String(), sources
}

// Synthesize produces the answer text for an assembled context. An empty
// context returns Fallback. Otherwise the answer is a fixed prefix naming the
// corpus, the first previewLen characters of the context, and a truncation
// marker. Truncation counts runes and is deliberately not word-boundary
// aware — it may cut mid-word.
func Synthesize(context, corpusName string, previewLen int) string {
	if context == "" {
		return Fallback
	}
	return fmt.Sprintf("Based on the %s document, here's what I found:\n\n%s...",
		corpusName, truncate(context, previewLen))
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
