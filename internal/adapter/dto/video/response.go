package video

// ProcessResponse reports a processed video
type ProcessResponse struct {
	VideoID  string `json:"video_id"`
	Location string `json:"location"`
}
