package answer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kotae/internal/model"
)

func TestAssemble_NumbersAndOrder(t *testing.T) {
	results := []model.SearchResult{
		{Title: "Arch Doc", Excerpt: "Multi-tenancy means...", Confidence: model.ConfidenceHigh},
		{Title: "Ops Doc", Excerpt: "Isolation is enforced...", Confidence: model.ConfidenceLow},
	}

	ctx, sources := Assemble(results)

	assert.Equal(t, "Document 1: Multi-tenancy means...\n\nDocument 2: Isolation is enforced...\n\n", ctx)
	require.Len(t, sources, 2)
	assert.Equal(t, "Arch Doc", sources[0].Document)
	assert.Equal(t, model.ConfidenceHigh, sources[0].Confidence)
	assert.Equal(t, "Ops Doc", sources[1].Document)
}

func TestAssemble_SkipsEmptyExcerpts(t *testing.T) {
	results := []model.SearchResult{
		{Title: "Skipped", Excerpt: ""},
		{Title: "Kept", Excerpt: "useful text"},
		{Title: "Also Skipped"},
	}

	ctx, sources := Assemble(results)

	require.Len(t, sources, 1, "results without excerpt text must not produce sources")
	assert.Equal(t, "Kept", sources[0].Document)
	// Numbering follows the raw result index, so the survivor keeps its slot.
	assert.True(t, strings.HasPrefix(ctx, "Document 2: useful text"))
}

func TestAssemble_NumberingSkipsGaps(t *testing.T) {
	results := []model.SearchResult{
		{Title: "NoExcerpt"},
		{Title: "Kept", Excerpt: "useful text"},
	}

	ctx, sources := Assemble(results)

	assert.Equal(t, "Document 2: useful text\n\n", ctx)
	require.Len(t, sources, 1)
	assert.Equal(t, "Kept", sources[0].Document)
}

func TestAssemble_Fallbacks(t *testing.T) {
	ctx, sources := Assemble([]model.SearchResult{{Excerpt: "anonymous excerpt"}})

	require.Len(t, sources, 1)
	assert.Equal(t, UnknownDocument, sources[0].Document)
	assert.Equal(t, model.ConfidenceMedium, sources[0].Confidence)
	assert.NotEmpty(t, ctx)
}

func TestAssemble_Empty(t *testing.T) {
	for name, results := range map[string][]model.SearchResult{
		"no results":       nil,
		"only empty texts": {{Title: "A"}, {Title: "B"}},
	} {
		t.Run(name, func(t *testing.T) {
			ctx, sources := Assemble(results)
			assert.Empty(t, ctx)
			assert.Empty(t, sources)
		})
	}
}

func TestAssemble_PureAndIdempotent(t *testing.T) {
	results := []model.SearchResult{
		{Title: "Doc", Excerpt: "text one"},
		{Excerpt: "text two"},
	}

	ctx1, sources1 := Assemble(results)
	ctx2, sources2 := Assemble(results)

	assert.Equal(t, ctx1, ctx2)
	assert.Equal(t, sources1, sources2)
	// Input must not be mutated.
	assert.Empty(t, results[1].Title)
}

func TestSynthesize_FallbackOnEmptyContext(t *testing.T) {
	got := Synthesize("", "SaaS Architecture Fundamentals", 500)
	assert.Equal(t, Fallback, got)
}

func TestSynthesize_PrefixAndMarker(t *testing.T) {
	got := Synthesize("Document 1: Multi-tenancy means...\n\n", "SaaS Architecture Fundamentals", 500)

	assert.True(t, strings.HasPrefix(got,
		"Based on the SaaS Architecture Fundamentals document, here's what I found:\n\nDocument 1: Multi-tenancy means..."))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSynthesize_TruncationLaw(t *testing.T) {
	long := strings.Repeat("abcde ", 200) // 1200 chars, well over the preview.
	got := Synthesize(long, "Corpus", 500)

	prefix := "Based on the Corpus document, here's what I found:\n\n"
	require.True(t, strings.HasPrefix(got, prefix))
	embedded := strings.TrimSuffix(strings.TrimPrefix(got, prefix), "...")
	assert.Equal(t, 500, utf8.RuneCountInString(embedded),
		"embedded context must be exactly previewLen characters")
	assert.Equal(t, long[:500], embedded, "truncation is verbatim, not word-boundary aware")
}

func TestSynthesize_TruncationIsCharacterAccurate(t *testing.T) {
	// Multi-byte runes: byte truncation would split the last character.
	long := strings.Repeat("テナント分離", 100)
	got := Synthesize(long, "Corpus", 500)

	prefix := "Based on the Corpus document, here's what I found:\n\n"
	embedded := strings.TrimSuffix(strings.TrimPrefix(got, prefix), "...")
	assert.Equal(t, 500, utf8.RuneCountInString(embedded))
	assert.True(t, utf8.ValidString(embedded))
}

func TestSynthesize_ShortContextKeptWhole(t *testing.T) {
	got := Synthesize("Document 1: short\n\n", "Corpus", 500)
	assert.Contains(t, got, "Document 1: short\n\n...")
}
