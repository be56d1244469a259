package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyyong/askgary/internal/core"
	"github.com/garyyong/askgary/pkg/log"
)

// ChunkRepo reads the chunk index written by the offline indexer.
type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// LoadAll returns every chunk in insertion order. The whole index is loaded
// at startup; it is small by design.
func (r *ChunkRepo) LoadAll(ctx context.Context) ([]core.Chunk, error) {
	query := `SELECT chunk_id, text, source, chunk_index, embedding FROM chunks ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []core.Chunk
	for rows.Next() {
		var c core.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.Text, &c.Source, &c.ChunkIndex, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		c.Embedding, err = deserializeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Info().Int("count", len(chunks)).Msg("loaded chunk index")
	return chunks, nil
}

// SaveChunk inserts one chunk with its embedding. Used by the indexing job.
func (r *ChunkRepo) SaveChunk(ctx context.Context, c core.Chunk) error {
	blob, err := serializeVector(c.Embedding)
	if err != nil {
		return err
	}

	query := `INSERT INTO chunks (chunk_id, text, source, chunk_index, embedding) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Text, c.Source, c.ChunkIndex, blob); err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}
