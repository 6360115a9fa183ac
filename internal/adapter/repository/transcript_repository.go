package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
	"github.com/johnquangdev/video-chat/internal/infrastructure/storage"
)

const (
	transcriptDir        = "transcripts"
	transcriptTimeLayout = "20060102_150405"
)

// TranscriptRepository persists merged transcripts as one text file per
// processing run, named transcript_<videoID>_<timestamp>.txt. Files are
// never overwritten; reprocessing a video adds a new file.
type TranscriptRepository struct {
	store storage.FileStore
}

// NewTranscriptRepository constructs a repository over the given store.
func NewTranscriptRepository(store storage.FileStore) *TranscriptRepository {
	return &TranscriptRepository{store: store}
}

// Write renders the segments one line each and stores them at a fresh
// location. Returns the location of the new file.
func (r *TranscriptRepository) Write(ctx context.Context, videoID string, segments []entities.TimedSegment) (string, error) {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(seg.Line())
		sb.WriteString("\n")
	}

	location, err := r.freshLocation(ctx, videoID)
	if err != nil {
		return "", err
	}
	if err := r.store.Write(ctx, location, []byte(sb.String())); err != nil {
		return "", err
	}
	return location, nil
}

// freshLocation derives a path from the video id and the current time,
// disambiguating same-second writes with a numeric suffix.
func (r *TranscriptRepository) freshLocation(ctx context.Context, videoID string) (string, error) {
	stamp := time.Now().Format(transcriptTimeLayout)
	location := fmt.Sprintf("%s/transcript_%s_%s.txt", transcriptDir, videoID, stamp)
	for n := 1; ; n++ {
		exists, err := r.store.Exists(ctx, location)
		if err != nil {
			return "", err
		}
		if !exists {
			return location, nil
		}
		location = fmt.Sprintf("%s/transcript_%s_%s_%d.txt", transcriptDir, videoID, stamp, n)
	}
}

// ReadAll returns every persisted transcript in the store's enumeration
// order. Enumeration order is not chronological; callers that need "the
// latest" must sort on ProcessedAt.
func (r *TranscriptRepository) ReadAll(ctx context.Context) ([]entities.TranscriptDocument, error) {
	names, err := r.store.List(ctx, transcriptDir)
	if err != nil {
		return nil, err
	}

	var docs []entities.TranscriptDocument
	for _, name := range names {
		videoID, processedAt, ok := parseTranscriptName(name)
		if !ok {
			continue
		}
		location := transcriptDir + "/" + name
		data, err := r.store.Read(ctx, location)
		if err != nil {
			return nil, err
		}
		docs = append(docs, entities.TranscriptDocument{
			VideoID:     videoID,
			Location:    location,
			ProcessedAt: processedAt,
			Text:        string(data),
		})
	}
	return docs, nil
}

// ReadByVideoID returns the transcripts for one video, newest first.
func (r *TranscriptRepository) ReadByVideoID(ctx context.Context, videoID string) ([]entities.TranscriptDocument, error) {
	all, err := r.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	var docs []entities.TranscriptDocument
	for _, doc := range all {
		if doc.VideoID == videoID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ProcessedAt.After(docs[j].ProcessedAt)
	})
	return docs, nil
}

// Exists reports whether at least one transcript for the video is present.
func (r *TranscriptRepository) Exists(ctx context.Context, videoID string) (bool, error) {
	names, err := r.store.List(ctx, transcriptDir)
	if err != nil {
		return false, err
	}
	prefix := "transcript_" + videoID + "_"
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// parseTranscriptName extracts the video id and timestamp from a file name
// of the form transcript_<id>_<YYYYMMDD_HHMMSS>[_<n>].txt.
func parseTranscriptName(name string) (string, time.Time, bool) {
	base, ok := strings.CutSuffix(name, ".txt")
	if !ok {
		return "", time.Time{}, false
	}
	rest, ok := strings.CutPrefix(base, "transcript_")
	if !ok {
		return "", time.Time{}, false
	}

	parts := strings.Split(rest, "_")
	if len(parts) < 3 {
		return "", time.Time{}, false
	}
	// The timestamp spans the two fields after the id; the id itself may
	// contain underscores.
	for i := 1; i+1 < len(parts); i++ {
		stamp := parts[i] + "_" + parts[i+1]
		processedAt, err := time.Parse(transcriptTimeLayout, stamp)
		if err != nil {
			continue
		}
		return strings.Join(parts[:i], "_"), processedAt, true
	}
	return "", time.Time{}, false
}
