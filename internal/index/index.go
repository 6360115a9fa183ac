package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
	"github.com/johnquangdev/video-chat/internal/infrastructure/storage"
)

// DefaultTopK is the number of results returned when the caller does not
// ask for a specific k.
const DefaultTopK = 4

// Embedder maps text to a fixed-length embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is an exact nearest-neighbor index over embedded chunks. It is a
// single-writer structure: Build and Persist for one location must be
// serialized by the caller.
type Index struct {
	embedder Embedder
	records  []entities.VectorRecord
}

// persistedIndex is the on-disk shape of an index.
type persistedIndex struct {
	Records []entities.VectorRecord `json:"records"`
}

// Build embeds every chunk and assembles the index.
func Build(ctx context.Context, embedder Embedder, chunks []entities.Chunk) (*Index, error) {
	records := make([]entities.VectorRecord, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk: %w", err)
		}
		records = append(records, entities.VectorRecord{Chunk: chunk, Embedding: vec})
	}
	return &Index{embedder: embedder, records: records}, nil
}

// Load deserializes a previously persisted index. Deserialization turns
// stored bytes into live structure, so the caller must explicitly vouch
// for the location with trusted=true; untrusted locations fail closed.
func Load(ctx context.Context, store storage.FileStore, location string, embedder Embedder, trusted bool) (*Index, error) {
	if !trusted {
		return nil, entities.ErrUntrustedIndex
	}

	exists, err := store.Exists(ctx, location)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, entities.ErrIndexNotFound
	}

	data, err := store.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	var persisted persistedIndex
	if err := json.Unmarshal(data, &persisted); err != nil {
		return nil, fmt.Errorf("failed to decode index at %s: %w", location, err)
	}
	return &Index{embedder: embedder, records: persisted.Records}, nil
}

// Persist writes the index so a later Load reproduces identical search
// behavior: vectors and chunk metadata round-trip unchanged.
func (idx *Index) Persist(ctx context.Context, store storage.FileStore, location string) error {
	data, err := json.Marshal(persistedIndex{Records: idx.records})
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	return store.Write(ctx, location, data)
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Search embeds the query and returns the k best-matching chunks by cosine
// similarity, best first. k defaults to DefaultTopK when non-positive.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]entities.SearchResult, error) {
	if len(idx.records) == 0 {
		return nil, entities.ErrIndexEmpty
	}
	if k <= 0 {
		k = DefaultTopK
	}

	queryVec, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results := make([]entities.SearchResult, 0, len(idx.records))
	for _, rec := range idx.records {
		results = append(results, entities.SearchResult{
			Chunk: rec.Chunk,
			Score: cosineSimilarity(queryVec, rec.Embedding),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// cosineSimilarity computes cosine similarity between two vectors.
// Mismatched or zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
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
