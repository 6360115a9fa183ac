package index

import (
	"strings"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// separators in priority order: paragraph break, line break,
// sentence-ending punctuation, word boundary. A piece that still exceeds
// the chunk size after the last separator is cut on rune boundaries.
var separators = []string{"\n\n", "\n", ". ", "? ", "! ", " "}

// Chunker splits transcript documents into overlapping text windows for
// indexing. Same documents and same configuration always produce the same
// chunk sequence.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker. Non-positive arguments fall back to the
// defaults.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Split chunks each document's text and tags every chunk with the source
// video identifier.
func (c *Chunker) Split(docs []entities.TranscriptDocument) []entities.Chunk {
	var chunks []entities.Chunk
	for _, doc := range docs {
		pieces := c.split(doc.Text, separators)
		for _, window := range c.assemble(pieces) {
			chunks = append(chunks, entities.Chunk{Text: window, Source: doc.VideoID})
		}
	}
	return chunks
}

// split recursively cuts text by the highest-priority separator present
// until every piece fits the chunk size.
func (c *Chunker) split(text string, seps []string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return c.hardSplit(text)
	}

	parts := strings.SplitAfter(text, seps[0])
	if len(parts) == 1 {
		return c.split(text, seps[1:])
	}

	var out []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			if len(trimmed) <= c.chunkSize {
				out = append(out, trimmed)
			} else {
				out = append(out, c.split(trimmed, seps[1:])...)
			}
		}
	}
	return out
}

// hardSplit cuts text that has no usable separator on rune boundaries.
func (c *Chunker) hardSplit(text string) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// assemble greedily packs pieces into windows of at most chunkSize
// characters, seeding each new window with the trailing chunkOverlap
// characters of the previous one so retrieval is robust to semantic units
// straddling a window boundary.
func (c *Chunker) assemble(pieces []string) []string {
	var windows []string
	var current string
	for _, piece := range pieces {
		if current == "" {
			current = piece
			continue
		}
		if len(current)+1+len(piece) <= c.chunkSize {
			current += " " + piece
			continue
		}
		windows = append(windows, current)
		if tail := c.overlapTail(current); tail != "" && len(tail)+1+len(piece) <= c.chunkSize {
			current = tail + " " + piece
		} else {
			current = piece
		}
	}
	if current != "" {
		windows = append(windows, current)
	}
	return windows
}

// overlapTail returns the last chunkOverlap characters of a window,
// trimmed forward to a word boundary.
func (c *Chunker) overlapTail(window string) string {
	if c.chunkOverlap == 0 || len(window) <= c.chunkOverlap {
		return ""
	}
	tail := window[len(window)-c.chunkOverlap:]
	i := strings.IndexByte(tail, ' ')
	if i < 0 {
		return ""
	}
	return tail[i+1:]
}
