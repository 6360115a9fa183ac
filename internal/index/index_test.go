package index

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
	"github.com/johnquangdev/video-chat/internal/infrastructure/storage"
)

// fakeEmbedder maps text to letter-frequency vectors so similar strings
// get similar vectors without any network.
type fakeEmbedder struct {
	calls int
	fail  bool
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("embedder down")
	}
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}

func testChunks() []entities.Chunk {
	return []entities.Chunk{
		{Text: "cats and kittens purring", Source: "vid1"},
		{Text: "quantum flux harmonics", Source: "vid1"},
		{Text: "dogs barking loudly", Source: "vid1"},
	}
}

func TestBuildAndSearch(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, &fakeEmbedder{}, testChunks())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", idx.Len())
	}

	results, err := idx.Search(ctx, "cats purring kittens", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.Text != "cats and kittens purring" {
		t.Fatalf("expected cat chunk first, got %q", results[0].Chunk.Text)
	}
	if results[0].Score < results[1].Score {
		t.Fatalf("results not ordered best first: %v then %v", results[0].Score, results[1].Score)
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx, err := Build(context.Background(), &fakeEmbedder{}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	_, err = idx.Search(context.Background(), "anything", 3)
	if !errors.Is(err, entities.ErrIndexEmpty) {
		t.Fatalf("expected ErrIndexEmpty, got %v", err)
	}
}

func TestBuild_EmbedderFailure(t *testing.T) {
	_, err := Build(context.Background(), &fakeEmbedder{fail: true}, testChunks())
	if err == nil {
		t.Fatalf("expected build to fail when embedder fails")
	}
}

func TestPersistLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	emb := &fakeEmbedder{}

	built, err := Build(ctx, emb, testChunks())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := built.Persist(ctx, store, "indexes/vid1/index.json"); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded, err := Load(ctx, store, "indexes/vid1/index.json", emb, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Len() != built.Len() {
		t.Fatalf("record count changed: %d vs %d", loaded.Len(), built.Len())
	}

	query := "barking dogs"
	want, err := built.Search(ctx, query, 3)
	if err != nil {
		t.Fatalf("Search on built failed: %v", err)
	}
	got, err := loaded.Search(ctx, query, 3)
	if err != nil {
		t.Fatalf("Search on loaded failed: %v", err)
	}
	if len(want) != len(got) {
		t.Fatalf("result counts differ: %d vs %d", len(want), len(got))
	}
	for i := range want {
		if want[i].Chunk != got[i].Chunk || want[i].Score != got[i].Score {
			t.Fatalf("result %d differs after round trip: %+v vs %+v", i, want[i], got[i])
		}
	}
}

func TestLoad_UntrustedLocationRejected(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	_, err = Load(context.Background(), store, "indexes/vid1/index.json", &fakeEmbedder{}, false)
	if !errors.Is(err, entities.ErrUntrustedIndex) {
		t.Fatalf("expected ErrUntrustedIndex, got %v", err)
	}
}

func TestLoad_MissingIndex(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	_, err = Load(context.Background(), store, "indexes/nothing/index.json", &fakeEmbedder{}, true)
	if !errors.Is(err, entities.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}
