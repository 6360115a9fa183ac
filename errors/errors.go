package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies the failure category carried by an AppError.
type ErrorCode int

const (
	ErrorCode_INTERNAL ErrorCode = iota
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_INVALID_IDENTIFIER
	ErrorCode_NO_TRANSCRIPT_AVAILABLE
	ErrorCode_TRANSCRIPTS_DISABLED
	ErrorCode_EMBEDDING_FAILED
	ErrorCode_GENERATION_FAILED
	ErrorCode_INDEX_EMPTY
	ErrorCode_STORAGE_FAILED
	ErrorCode_NOT_FOUND
	ErrorCode_HTTP_OK
)

// String returns the wire name of the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INVALID_PAYLOAD:
		return "INVALID_PAYLOAD"
	case ErrorCode_INVALID_IDENTIFIER:
		return "INVALID_IDENTIFIER"
	case ErrorCode_NO_TRANSCRIPT_AVAILABLE:
		return "NO_TRANSCRIPT_AVAILABLE"
	case ErrorCode_TRANSCRIPTS_DISABLED:
		return "TRANSCRIPTS_DISABLED"
	case ErrorCode_EMBEDDING_FAILED:
		return "EMBEDDING_FAILED"
	case ErrorCode_GENERATION_FAILED:
		return "GENERATION_FAILED"
	case ErrorCode_INDEX_EMPTY:
		return "INDEX_EMPTY"
	case ErrorCode_STORAGE_FAILED:
		return "STORAGE_FAILED"
	case ErrorCode_NOT_FOUND:
		return "NOT_FOUND"
	case ErrorCode_HTTP_OK:
		return "OK"
	}
	return fmt.Sprintf("ERROR_CODE_%d", int(c))
}

// AppError is the application error type surfaced at API boundaries.
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// Transcript acquisition errors

func ErrInvalidIdentifier(source string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_IDENTIFIER,
		Message:  "Could not extract a video identifier from the given URL",
	}.WithDetail("source", source)
}

func ErrNoTranscriptAvailable(videoID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NO_TRANSCRIPT_AVAILABLE,
		Message:  "No caption track is available for this video in any language",
	}.WithDetail("video_id", videoID)
}

func ErrTranscriptsDisabled(videoID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_TRANSCRIPTS_DISABLED,
		Message:  "Captions are disabled for this video",
	}.WithDetail("video_id", videoID)
}

// Retrieval and generation errors

func ErrEmbeddingFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_EMBEDDING_FAILED,
		Message:  "Embedding service failed",
	}
}

func ErrGenerationFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_GENERATION_FAILED,
		Message:  "I couldn't generate an answer. Please try rephrasing your question.",
	}
}

func ErrIndexEmpty() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_INDEX_EMPTY,
		Message:  "No content has been indexed yet. Process a video first.",
	}
}

// Storage errors

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}
