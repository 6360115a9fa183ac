package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/video-chat/errors"
	"github.com/johnquangdev/video-chat/internal/domain/entities"
	"github.com/johnquangdev/video-chat/internal/index"
	"github.com/johnquangdev/video-chat/internal/infrastructure/cache"
	"github.com/johnquangdev/video-chat/internal/infrastructure/storage"
)

type lengthEmbedder struct{}

func (lengthEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestChat(t *testing.T, gen Generator) (Service, *cache.MemorySessionStore, *index.Manager) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	manager := index.NewManager(store, lengthEmbedder{}, index.NewChunker(200, 40), 1, zap.NewNop())
	sessions := cache.NewMemorySessionStore()
	svc := NewService(manager, gen, sessions, 2, 10, zap.NewNop())
	return svc, sessions, manager
}

func buildIndex(t *testing.T, manager *index.Manager, videoID, text string) {
	t.Helper()
	doc := entities.TranscriptDocument{VideoID: videoID, Location: "transcripts/" + videoID + ".txt", Text: text}
	if _, err := manager.CreateOrLoad(context.Background(), videoID, []entities.TranscriptDocument{doc}); err != nil {
		t.Fatalf("CreateOrLoad failed: %v", err)
	}
}

func TestAsk_AppendsBothTurns(t *testing.T) {
	gen := &fakeGenerator{answer: "The video is about cats."}
	svc, sessions, manager := newTestChat(t, gen)
	buildIndex(t, manager, "vid1", "Cats chase mice. Dogs chase cats.")

	answer, err := svc.Ask(context.Background(), "s1", "", "What is the video about?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != gen.answer {
		t.Fatalf("answer = %q", answer)
	}

	turns, err := sessions.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
	if turns[0].Role != entities.RoleUser || turns[0].Text != "What is the video about?" {
		t.Fatalf("first turn = %+v", turns[0])
	}
	if turns[1].Role != entities.RoleAssistant || turns[1].Text != gen.answer {
		t.Fatalf("second turn = %+v", turns[1])
	}
}

func TestAsk_HistoryGrowsByTwoPerExchange(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	svc, sessions, manager := newTestChat(t, gen)
	buildIndex(t, manager, "vid1", "Some video content about travel.")

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := svc.Ask(context.Background(), "s1", "", "question"); err != nil {
			t.Fatalf("Ask %d: %v", i, err)
		}
	}
	turns, _ := sessions.History(context.Background(), "s1")
	if len(turns) != 2*n {
		t.Fatalf("turns = %d, want %d", len(turns), 2*n)
	}
}

func TestAsk_GenerationFailureAppendsNothing(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model overloaded")}
	svc, sessions, manager := newTestChat(t, gen)
	buildIndex(t, manager, "vid1", "Some video content.")

	_, err := svc.Ask(context.Background(), "s1", "", "question")
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrorCode_GENERATION_FAILED {
		t.Fatalf("code = %v", appErr.Code)
	}

	turns, _ := sessions.History(context.Background(), "s1")
	if len(turns) != 0 {
		t.Fatalf("failed exchange recorded %d turns", len(turns))
	}

	// The session stays usable after a failure.
	gen.err = nil
	gen.answer = "recovered"
	if _, err := svc.Ask(context.Background(), "s1", "", "question"); err != nil {
		t.Fatalf("Ask after failure: %v", err)
	}
	turns, _ = sessions.History(context.Background(), "s1")
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
}

func TestAsk_NoIndexIsNoContent(t *testing.T) {
	svc, _, _ := newTestChat(t, &fakeGenerator{answer: "x"})

	_, err := svc.Ask(context.Background(), "s1", "", "question")
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrorCode_INDEX_EMPTY {
		t.Fatalf("code = %v", appErr.Code)
	}
}

func TestAsk_ExplicitVideoTargetsItsIndex(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	svc, _, manager := newTestChat(t, gen)
	buildIndex(t, manager, "vid1", "First video about rivers.")
	buildIndex(t, manager, "vid2", "Second video about mountains.")

	if _, err := svc.Ask(context.Background(), "s1", "vid1", "question"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "rivers") {
		t.Fatalf("prompt did not use vid1 context: %q", gen.prompts)
	}
}

func TestAsk_PromptCarriesHistoryAndQuestion(t *testing.T) {
	gen := &fakeGenerator{answer: "first answer"}
	svc, _, manager := newTestChat(t, gen)
	buildIndex(t, manager, "vid1", "Video content here.")

	if _, err := svc.Ask(context.Background(), "s1", "", "first question"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if _, err := svc.Ask(context.Background(), "s1", "", "second question"); err != nil {
		t.Fatalf("Ask: %v", err)
	}

	last := gen.prompts[len(gen.prompts)-1]
	for _, want := range []string{"first question", "first answer", "second question"} {
		if !strings.Contains(last, want) {
			t.Fatalf("prompt missing %q:\n%s", want, last)
		}
	}
}

func TestClearSession(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	svc, sessions, manager := newTestChat(t, gen)
	buildIndex(t, manager, "vid1", "Video content here.")

	if _, err := svc.Ask(context.Background(), "s1", "", "question"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if err := svc.ClearSession(context.Background(), "s1"); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	turns, _ := sessions.History(context.Background(), "s1")
	if len(turns) != 0 {
		t.Fatalf("history not cleared: %d turns", len(turns))
	}
}

func TestLimitTurns(t *testing.T) {
	history := make([]entities.Turn, 6)
	for i := range history {
		history[i] = entities.NewTurn(entities.RoleUser, string(rune('a'+i)))
	}
	limited := limitTurns(history, 4)
	if len(limited) != 4 {
		t.Fatalf("len = %d, want 4", len(limited))
	}
	if limited[0].Text != "c" {
		t.Fatalf("oldest kept turn = %q, want c", limited[0].Text)
	}
	if got := limitTurns(history, 0); len(got) != len(history) {
		t.Fatalf("max 0 should keep all turns")
	}
}
