package entities

import "errors"

// Domain errors
var (
	// Caption source errors
	ErrNoCaptionTrack    = errors.New("no caption track found")
	ErrCaptionsDisabled  = errors.New("captions are disabled")
	ErrLanguageNotListed = errors.New("language not listed for this video")
	ErrTranslationFailed = errors.New("caption translation failed")

	// Index errors
	ErrIndexEmpty     = errors.New("index contains no records")
	ErrIndexNotFound  = errors.New("no persisted index at location")
	ErrUntrustedIndex = errors.New("refusing to load index from untrusted location")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)
