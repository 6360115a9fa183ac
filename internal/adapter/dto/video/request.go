package video

// ProcessRequest represents the request to process a video URL
type ProcessRequest struct {
	URL string `json:"url" validate:"required,min=11,max=2048"`
}
