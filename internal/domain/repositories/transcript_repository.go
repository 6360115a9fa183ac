package repositories

import (
	"context"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
)

// TranscriptRepository persists merged transcripts as line-oriented text.
// Writes never overwrite: each processing run gets its own location.
type TranscriptRepository interface {
	// Write persists the segments for a video and returns the location of
	// the new transcript file.
	Write(ctx context.Context, videoID string, segments []entities.TimedSegment) (string, error)
	// ReadAll returns every persisted transcript, in discovery order.
	ReadAll(ctx context.Context) ([]entities.TranscriptDocument, error)
	// ReadByVideoID returns the transcripts for one video, newest first by
	// the timestamp embedded in the filename.
	ReadByVideoID(ctx context.Context, videoID string) ([]entities.TranscriptDocument, error)
	// Exists reports whether at least one transcript for the video is
	// present.
	Exists(ctx context.Context, videoID string) (bool, error)
}
