package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/garyyong/askgary/internal/core"
	"github.com/garyyong/askgary/pkg/log"
)

const contextSeparator = "\n\n---\n\n"

// Engine ranks the fixed chunk index against a query embedding. The index is
// small, so scoring is a full linear scan.
type Engine struct {
	embedder core.Embedder
	chunks   []core.Chunk
	topK     int
}

func NewEngine(embedder core.Embedder, chunks []core.Chunk, topK int) *Engine {
	return &Engine{
		embedder: embedder,
		chunks:   chunks,
		topK:     topK,
	}
}

// Retrieve returns the concatenated texts of the top-K chunks for the query
// plus the sorted set of their distinct source labels. An empty index yields
// empty context without spending an embedding call.
func (e *Engine) Retrieve(ctx context.Context, query string) (string, []string, error) {
	if len(e.chunks) == 0 {
		log.FromCtx(ctx).Debug().Msg("chunk index is empty, skipping retrieval")
		return "", nil, nil
	}

	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("embed query: %w", err)
	}

	order := make([]int, len(e.chunks))
	scores := make([]float64, len(e.chunks))
	for i, c := range e.chunks {
		order[i] = i
		scores[i] = CosineSimilarity(queryVec, c.Embedding)
	}

	// Stable sort: equal scores keep original index order.
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	k := e.topK
	if k > len(order) {
		k = len(order)
	}

	texts := make([]string, 0, k)
	sourceSet := make(map[string]struct{}, k)
	for _, i := range order[:k] {
		texts = append(texts, e.chunks[i].Text)
		sourceSet[e.chunks[i].Source] = struct{}{}
	}

	sources := make([]string, 0, len(sourceSet))
	for s := range sourceSet {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	return strings.Join(texts, contextSeparator), sources, nil
}

// CosineSimilarity is dot(a,b) / (|a|*|b|), and 0 whenever either vector is
// empty, the lengths differ, or either norm is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
