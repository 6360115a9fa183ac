package entities

import (
	"fmt"
	"strings"
	"time"
)

// RawFragment is a single timed caption unit as delivered by the caption
// source, typically sub-sentence length. End is synthesized as
// Start+Duration when the source omits it.
type RawFragment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	End      float64 `json:"end"`
	Text     string  `json:"text"`
}

// TimedSegment is a merged fragment run approximating one sentence or
// clause, with a single start/end time span.
type TimedSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Line renders the segment in its persisted form.
func (s TimedSegment) Line() string {
	return fmt.Sprintf("[%s - %s] %s", FormatTimestamp(s.Start), FormatTimestamp(s.End), strings.TrimSpace(s.Text))
}

// FormatTimestamp converts seconds to HH:MM:SS.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// TranscriptDocument is one persisted transcript: the rendered lines of a
// single processing run for a video identifier.
type TranscriptDocument struct {
	VideoID     string    `json:"video_id"`
	Location    string    `json:"location"`
	ProcessedAt time.Time `json:"processed_at"`
	Text        string    `json:"text"`
}
