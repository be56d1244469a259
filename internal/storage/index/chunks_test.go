package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyyong/askgary/internal/core"
)

func TestChunkRepo_SaveAndLoadAll(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := NewChunkRepo(db)

	chunks := []core.Chunk{
		{ID: "about-0", Text: "Gary is based in Toronto.", Source: "about.md", ChunkIndex: 0, Embedding: []float32{0.1, 0.2, 0.3}},
		{ID: "work-0", Text: "Gary worked at Capco.", Source: "work.md", ChunkIndex: 0, Embedding: []float32{-0.5, 0, 0.5}},
		{ID: "work-1", Text: "He led automation projects.", Source: "work.md", ChunkIndex: 1, Embedding: []float32{1, 1, 1}},
	}
	for _, c := range chunks {
		require.NoError(t, repo.SaveChunk(ctx, c))
	}

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, chunks, got)
}

func TestChunkRepo_EmptyIndex(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer db.Close()

	got, err := NewChunkRepo(db).LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
