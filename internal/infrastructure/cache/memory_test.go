package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
)

func TestMemorySessionStore_AppendOrder(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := store.Append(ctx, "s1",
			entities.NewTurn(entities.RoleUser, fmt.Sprintf("q%d", i)),
			entities.NewTurn(entities.RoleAssistant, fmt.Sprintf("a%d", i)),
		)
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	turns, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(turns) != 10 {
		t.Fatalf("expected 10 turns, got %d", len(turns))
	}
	for i := 0; i < 5; i++ {
		if turns[2*i].Text != fmt.Sprintf("q%d", i) || turns[2*i+1].Text != fmt.Sprintf("a%d", i) {
			t.Fatalf("turns out of order at pair %d: %+v %+v", i, turns[2*i], turns[2*i+1])
		}
	}
}

func TestMemorySessionStore_SessionsAreDisjoint(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	store.Append(ctx, "a", entities.NewTurn(entities.RoleUser, "hello"))
	store.Append(ctx, "b", entities.NewTurn(entities.RoleUser, "world"))

	turns, _ := store.History(ctx, "a")
	if len(turns) != 1 || turns[0].Text != "hello" {
		t.Fatalf("session a polluted: %+v", turns)
	}
	if err := store.Clear(ctx, "a"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	turns, _ = store.History(ctx, "a")
	if len(turns) != 0 {
		t.Fatalf("expected cleared session, got %+v", turns)
	}
	turns, _ = store.History(ctx, "b")
	if len(turns) != 1 {
		t.Fatalf("session b affected by clearing a: %+v", turns)
	}
}

func TestMemorySessionStore_ConcurrentSessions(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			for j := 0; j < 50; j++ {
				store.Append(ctx, id, entities.NewTurn(entities.RoleUser, "q"))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		turns, err := store.History(ctx, fmt.Sprintf("s%d", i))
		if err != nil || len(turns) != 50 {
			t.Fatalf("session s%d: expected 50 turns, got %d (err=%v)", i, len(turns), err)
		}
	}
}
