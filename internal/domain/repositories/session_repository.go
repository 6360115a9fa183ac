package repositories

import (
	"context"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
)

// SessionRepository stores per-session conversation history. A session is
// created on first reference to its id; histories of different sessions
// are disjoint. Turns are append-only.
type SessionRepository interface {
	Append(ctx context.Context, sessionID string, turns ...entities.Turn) error
	History(ctx context.Context, sessionID string) ([]entities.Turn, error)
	Clear(ctx context.Context, sessionID string) error
}
