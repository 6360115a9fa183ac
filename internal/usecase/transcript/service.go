package transcript

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/video-chat/errors"
	"github.com/johnquangdev/video-chat/internal/domain/entities"
	domainrepo "github.com/johnquangdev/video-chat/internal/domain/repositories"
	"github.com/johnquangdev/video-chat/internal/index"
	"github.com/johnquangdev/video-chat/pkg/youtube"
)

// CaptionSource is the external fragment source collaborator.
type CaptionSource interface {
	GetFragments(ctx context.Context, videoID, lang string) ([]entities.RawFragment, error)
	ListLanguages(ctx context.Context, videoID string) ([]string, error)
	Translate(ctx context.Context, videoID, fromLang, toLang string) ([]entities.RawFragment, error)
}

// ProcessResult reports where a processed transcript landed.
type ProcessResult struct {
	VideoID  string
	Location string
}

// Service orchestrates transcript acquisition: fetch fragments with
// language fallback, merge them into sentence segments, persist the
// transcript and hand it to the index manager.
type Service interface {
	Process(ctx context.Context, sourceURL string) (*ProcessResult, error)
}

type service struct {
	source        CaptionSource
	transcripts   domainrepo.TranscriptRepository
	indexes       *index.Manager
	preferredLang string
	logger        *zap.Logger
}

// NewService constructs the transcript processing service.
func NewService(
	source CaptionSource,
	transcripts domainrepo.TranscriptRepository,
	indexes *index.Manager,
	preferredLang string,
	logger *zap.Logger,
) Service {
	if preferredLang == "" {
		preferredLang = "en"
	}
	return &service{
		source:        source,
		transcripts:   transcripts,
		indexes:       indexes,
		preferredLang: preferredLang,
		logger:        logger,
	}
}

// Process turns a video URL into a persisted transcript and a ready index.
// Reprocessing an already-processed video reuses the stored transcript and
// the persisted index instead of refetching.
func (s *service) Process(ctx context.Context, sourceURL string) (*ProcessResult, error) {
	videoID := youtube.ExtractVideoID(sourceURL)
	if videoID == "" {
		return nil, apperrors.ErrInvalidIdentifier(sourceURL)
	}

	exists, err := s.transcripts.Exists(ctx, videoID)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("list transcripts", err)
	}
	if exists {
		return s.reuseExisting(ctx, videoID)
	}

	fragments, err := s.acquireFragments(ctx, videoID)
	if err != nil {
		return nil, err
	}

	segments := Merge(normalizeFragments(fragments), DefaultMaxGap)
	s.logger.Info("transcript.merged",
		zap.String("video_id", videoID),
		zap.Int("fragments", len(fragments)),
		zap.Int("segments", len(segments)),
	)

	location, err := s.transcripts.Write(ctx, videoID, segments)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("write transcript", err)
	}

	doc := entities.TranscriptDocument{
		VideoID:  videoID,
		Location: location,
		Text:     renderText(segments),
	}
	if _, err := s.indexes.CreateOrLoad(ctx, videoID, []entities.TranscriptDocument{doc}); err != nil {
		return nil, apperrors.ErrEmbeddingFailed(err)
	}

	return &ProcessResult{VideoID: videoID, Location: location}, nil
}

// reuseExisting rebuilds or reloads the index from the already persisted
// transcripts for a video.
func (s *service) reuseExisting(ctx context.Context, videoID string) (*ProcessResult, error) {
	docs, err := s.transcripts.ReadByVideoID(ctx, videoID)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("read transcripts", err)
	}
	if len(docs) == 0 {
		return nil, apperrors.ErrNotFound("transcript")
	}
	// Newest first; the latest run is the document of record.
	latest := docs[:1]
	if _, err := s.indexes.CreateOrLoad(ctx, videoID, latest); err != nil {
		return nil, apperrors.ErrEmbeddingFailed(err)
	}
	s.logger.Info("transcript.reused",
		zap.String("video_id", videoID),
		zap.String("location", latest[0].Location),
	)
	return &ProcessResult{VideoID: videoID, Location: latest[0].Location}, nil
}

// fetchStrategy is one step of the language fallback chain.
type fetchStrategy struct {
	name  string
	fetch func(ctx context.Context, videoID string) ([]entities.RawFragment, error)
}

// acquireFragments tries each strategy in order until one yields
// fragments. Collaborator failures never escape raw: they reduce to the
// tagged error taxonomy.
func (s *service) acquireFragments(ctx context.Context, videoID string) ([]entities.RawFragment, error) {
	strategies := []fetchStrategy{
		{name: "direct", fetch: s.fetchDirect},
		{name: "language_family", fetch: s.fetchLanguageFamily},
		{name: "translate", fetch: s.fetchTranslated},
	}

	var lastErr error
	for _, strategy := range strategies {
		fragments, err := strategy.fetch(ctx, videoID)
		if err == nil {
			s.logger.Info("transcript.fetched",
				zap.String("video_id", videoID),
				zap.String("strategy", strategy.name),
				zap.Int("fragments", len(fragments)),
			)
			return fragments, nil
		}
		if errors.Is(err, entities.ErrCaptionsDisabled) {
			return nil, apperrors.ErrTranscriptsDisabled(videoID)
		}
		s.logger.Warn("transcript.fetch_failed",
			zap.String("video_id", videoID),
			zap.String("strategy", strategy.name),
			zap.Error(err),
		)
		lastErr = err
	}
	return nil, apperrors.ErrNoTranscriptAvailable(videoID, lastErr)
}

func (s *service) fetchDirect(ctx context.Context, videoID string) ([]entities.RawFragment, error) {
	return s.source.GetFragments(ctx, videoID, s.preferredLang)
}

// fetchLanguageFamily picks the first listed track whose code shares the
// preferred language's family, e.g. en-GB for en.
func (s *service) fetchLanguageFamily(ctx context.Context, videoID string) ([]entities.RawFragment, error) {
	langs, err := s.source.ListLanguages(ctx, videoID)
	if err != nil {
		return nil, err
	}
	family := languageFamily(s.preferredLang)
	for _, lang := range langs {
		if languageFamily(lang) == family {
			return s.source.GetFragments(ctx, videoID, lang)
		}
	}
	return nil, entities.ErrLanguageNotListed
}

// fetchTranslated translates the first available track into the preferred
// language.
func (s *service) fetchTranslated(ctx context.Context, videoID string) ([]entities.RawFragment, error) {
	langs, err := s.source.ListLanguages(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(langs) == 0 {
		return nil, entities.ErrNoCaptionTrack
	}
	return s.source.Translate(ctx, videoID, langs[0], s.preferredLang)
}

func languageFamily(code string) string {
	if i := strings.IndexByte(code, '-'); i >= 0 {
		return strings.ToLower(code[:i])
	}
	return strings.ToLower(code)
}

// normalizeFragments synthesizes a missing end time as start + duration.
func normalizeFragments(fragments []entities.RawFragment) []entities.RawFragment {
	out := make([]entities.RawFragment, len(fragments))
	copy(out, fragments)
	for i := range out {
		if out[i].End < out[i].Start {
			out[i].End = out[i].Start + out[i].Duration
		}
		if out[i].End == 0 {
			out[i].End = out[i].Start + out[i].Duration
		}
	}
	return out
}

func renderText(segments []entities.TimedSegment) string {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(seg.Line())
		sb.WriteString("\n")
	}
	return sb.String()
}
