package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/video-chat/errors"
	"github.com/johnquangdev/video-chat/internal/domain/entities"
	domainrepo "github.com/johnquangdev/video-chat/internal/domain/repositories"
	"github.com/johnquangdev/video-chat/internal/index"
)

// Generator is the text generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service answers questions about processed videos using retrieved
// transcript chunks plus the session's prior turns.
type Service interface {
	// Ask answers a question in a session. An empty videoID targets the
	// most recently processed video.
	Ask(ctx context.Context, sessionID, videoID, question string) (string, error)
	History(ctx context.Context, sessionID string) ([]entities.Turn, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type service struct {
	indexes         *index.Manager
	generator       Generator
	sessions        domainrepo.SessionRepository
	topK            int
	maxHistoryTurns int
	logger          *zap.Logger
}

// NewService constructs the chat service.
func NewService(
	indexes *index.Manager,
	generator Generator,
	sessions domainrepo.SessionRepository,
	topK int,
	maxHistoryTurns int,
	logger *zap.Logger,
) Service {
	if topK <= 0 {
		topK = index.DefaultTopK
	}
	return &service{
		indexes:         indexes,
		generator:       generator,
		sessions:        sessions,
		topK:            topK,
		maxHistoryTurns: maxHistoryTurns,
		logger:          logger,
	}
}

func (s *service) Ask(ctx context.Context, sessionID, videoID, question string) (string, error) {
	idx, err := s.resolveIndex(ctx, videoID)
	if err != nil {
		return "", err
	}

	results, err := idx.Search(ctx, question, s.topK)
	if err != nil {
		if errors.Is(err, entities.ErrIndexEmpty) {
			return "", apperrors.ErrIndexEmpty()
		}
		return "", apperrors.ErrEmbeddingFailed(err)
	}

	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		return "", apperrors.ErrStorageFailed("read session history", err)
	}

	prompt := buildPrompt(results, history, question, s.maxHistoryTurns)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("chat.generation_failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return "", apperrors.ErrGenerationFailed(err)
	}

	// Turns are recorded only for completed exchanges, user first.
	if err := s.sessions.Append(ctx, sessionID,
		entities.NewTurn(entities.RoleUser, question),
		entities.NewTurn(entities.RoleAssistant, answer),
	); err != nil {
		return "", apperrors.ErrStorageFailed("append session history", err)
	}

	s.logger.Info("chat.answered",
		zap.String("session_id", sessionID),
		zap.Int("retrieved", len(results)),
	)
	return answer, nil
}

func (s *service) History(ctx context.Context, sessionID string) ([]entities.Turn, error) {
	turns, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("read session history", err)
	}
	return turns, nil
}

func (s *service) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return apperrors.ErrStorageFailed("clear session", err)
	}
	return nil
}

// resolveIndex picks the per-video index when a video is named, otherwise
// the most recently processed one. A missing index surfaces as the
// no-content error so the session stays usable.
func (s *service) resolveIndex(ctx context.Context, videoID string) (*index.Index, error) {
	var (
		idx *index.Index
		err error
	)
	if videoID != "" {
		idx, err = s.indexes.Get(ctx, videoID)
	} else {
		idx, err = s.indexes.Active(ctx)
	}
	if err != nil {
		if errors.Is(err, entities.ErrIndexNotFound) {
			return nil, apperrors.ErrIndexEmpty()
		}
		return nil, apperrors.ErrStorageFailed("load index", err)
	}
	return idx, nil
}
