package transcript

import (
	"strings"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
)

// DefaultMaxGap is the largest silence, in seconds, still bridged when
// merging consecutive caption fragments into one segment.
const DefaultMaxGap = 1.5

// sentenceEndPunct marks characters that close a sentence-like unit.
const sentenceEndPunct = `.?!"')`

// Merge reconstructs sentence-level segments from ordered caption
// fragments. A fragment starts a new segment when the text accumulated so
// far already ends with sentence-ending punctuation, or when it begins more
// than maxGap seconds after the current segment ends. Either condition
// alone closes the segment. Single forward pass; a closed segment is never
// revisited. Empty input yields empty output.
func Merge(fragments []entities.RawFragment, maxGap float64) []entities.TimedSegment {
	if len(fragments) == 0 {
		return nil
	}

	merged := make([]entities.TimedSegment, 0, len(fragments))
	current := entities.TimedSegment{
		Start: fragments[0].Start,
		End:   fragments[0].End,
		Text:  strings.TrimSpace(fragments[0].Text),
	}

	for _, frag := range fragments[1:] {
		text := strings.TrimSpace(frag.Text)

		endsSentence := len(current.Text) > 0 && strings.ContainsRune(sentenceEndPunct, rune(current.Text[len(current.Text)-1]))
		gapTooLarge := frag.Start > current.End+maxGap

		if endsSentence || gapTooLarge {
			merged = append(merged, current)
			current = entities.TimedSegment{Start: frag.Start, End: frag.End, Text: text}
			continue
		}

		current.Text += " " + text
		current.End = frag.End
	}

	return append(merged, current)
}
