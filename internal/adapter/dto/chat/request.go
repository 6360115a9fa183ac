package chat

// AskRequest represents a question in a chat session. SessionID is
// optional; the server assigns one when absent. VideoID is optional and
// targets a specific processed video instead of the most recent one.
type AskRequest struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=128"`
	VideoID   string `json:"video_id,omitempty" validate:"omitempty,len=11"`
	Question  string `json:"question" validate:"required,min=1,max=4000"`
}
