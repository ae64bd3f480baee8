package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kotae/internal/model"
	"github.com/ashita-ai/kotae/internal/service/embedding"
)

type fakeIndex struct {
	results []model.SearchResult
	err     error
	gotVec  []float32
	gotLim  int
}

func (f *fakeIndex) Query(_ context.Context, vector []float32, limit int) ([]model.SearchResult, error) {
	f.gotVec = vector
	f.gotLim = limit
	return f.results, f.err
}

func (f *fakeIndex) Healthy(context.Context) error { return f.err }

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("provider down")
}
func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("provider down")
}
func (failingEmbedder) Dimensions() int { return 0 }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVectorGateway_Search(t *testing.T) {
	idx := &fakeIndex{results: []model.SearchResult{
		{Title: "Arch Doc", Excerpt: "Multi-tenancy means...", Score: 0.91, Confidence: model.ConfidenceHigh},
		{Title: "Ops Doc", Excerpt: "Pools of shared...", Score: 0.55, Confidence: model.ConfidenceMedium},
	}}
	gw := NewVectorGateway(embedding.NewNoopProvider(4), idx, discardLogger())

	results, err := gw.Search(context.Background(), "What is multi-tenancy?", 5)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Arch Doc", results[0].Title, "index order must be preserved")
	assert.Len(t, idx.gotVec, 4)
	assert.Equal(t, 5, idx.gotLim)
}

func TestVectorGateway_EmbedFailure(t *testing.T) {
	gw := NewVectorGateway(failingEmbedder{}, &fakeIndex{}, discardLogger())

	_, err := gw.Search(context.Background(), "question", 5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestVectorGateway_IndexFailure(t *testing.T) {
	idx := &fakeIndex{err: errors.New("connection refused")}
	gw := NewVectorGateway(embedding.NewNoopProvider(4), idx, discardLogger())

	_, err := gw.Search(context.Background(), "question", 5)
	require.Error(t, err)
}

func TestConfidenceFromScore(t *testing.T) {
	cases := []struct {
		score float32
		want  model.Confidence
	}{
		{0.95, model.ConfidenceHigh},
		{0.80, model.ConfidenceHigh},
		{0.79, model.ConfidenceMedium},
		{0.50, model.ConfidenceMedium},
		{0.49, model.ConfidenceLow},
		{0.0, model.ConfidenceLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, confidenceFromScore(tc.score), "score %f", tc.score)
	}
}
