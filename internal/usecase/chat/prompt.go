package chat

import (
	"strings"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
)

// systemInstruction pins the assistant to the retrieved context. It asks
// for "the video" phrasing so answers never mention transcripts or
// retrieval machinery.
const systemInstruction = `You are a helpful assistant that answers questions about a video.
Answer using ONLY the context below. If the context does not contain the answer, say you don't know.
Refer to "the video", never to "the transcript" or "the context".
Format your answer in Markdown.`

// buildPrompt assembles the generation prompt: system role, retrieved
// context, limited prior turns, then the new question.
func buildPrompt(results []entities.SearchResult, history []entities.Turn, question string, maxHistoryTurns int) string {
	var sb strings.Builder
	sb.WriteString(systemInstruction)
	sb.WriteString("\n\nContext:\n")
	for _, result := range results {
		sb.WriteString(result.Chunk.Text)
		sb.WriteString("\n---\n")
	}

	turns := limitTurns(history, maxHistoryTurns)
	if len(turns) > 0 {
		sb.WriteString("\nConversation so far:\n")
		for _, turn := range turns {
			sb.WriteString(turn.Role)
			sb.WriteString(": ")
			sb.WriteString(turn.Text)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nuser: ")
	sb.WriteString(question)
	sb.WriteString("\nassistant:")
	return sb.String()
}

// limitTurns keeps the most recent max turns so prompts stay bounded.
func limitTurns(history []entities.Turn, max int) []entities.Turn {
	if max <= 0 || len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}
