package search

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQdrantURL(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		host    string
		port    int
		useTLS  bool
		wantErr bool
	}{
		{name: "https with rest port", url: "https://xyz.cloud.qdrant.io:6333", host: "xyz.cloud.qdrant.io", port: 6334, useTLS: true},
		{name: "http local", url: "http://localhost:6333", host: "localhost", port: 6334},
		{name: "explicit grpc port", url: "http://localhost:6334", host: "localhost", port: 6334},
		{name: "custom port kept", url: "http://localhost:7000", host: "localhost", port: 7000},
		{name: "no port defaults to grpc", url: "http://qdrant.internal", host: "qdrant.internal", port: 6334},
		{name: "empty", url: "", wantErr: true},
		{name: "garbage port", url: "http://host:notaport", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			host, port, useTLS, err := parseQdrantURL(tc.url)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.host, host)
			assert.Equal(t, tc.port, port)
			assert.Equal(t, tc.useTLS, useTLS)
		})
	}
}

func TestNewQdrantIndex(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	idx, err := NewQdrantIndex(QdrantConfig{
		URL:        "http://localhost:6333",
		Collection: "documents",
		Dims:       1024,
	}, logger)

	require.NoError(t, err, "gRPC connects lazily, construction must succeed")
	require.NotNil(t, idx)
	assert.Equal(t, "documents", idx.collection)
	assert.Equal(t, uint64(1024), idx.dims)

	_ = idx.Close()
}

func TestNewQdrantIndex_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewQdrantIndex(QdrantConfig{URL: "", Collection: "documents", Dims: 1024}, logger)
	require.Error(t, err)
}
