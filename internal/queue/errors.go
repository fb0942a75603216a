package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrStreamUnavailable means capture could not start or continue.
	ErrStreamUnavailable = errors.New("stream unavailable")
	// ErrTranscriptionFailure means one chunk's transcription call failed.
	ErrTranscriptionFailure = errors.New("transcription failure")
	// ErrSummarizationFailure means a leaf or merge summarization call failed.
	ErrSummarizationFailure = errors.New("summarization failure")
	// ErrNotFound means the session id is unknown.
	ErrNotFound = errors.New("session not found")

	ErrBusy               = errors.New("session is being processed")
	ErrFinalized          = errors.New("session already left pending")
	ErrAlreadyTranscribed = errors.New("chunk already transcribed")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// ChunkError attributes a transcription failure to a specific chunk.
type ChunkError struct {
	SessionID string
	Index     int
	Err       error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("session %s chunk %d: %v", e.SessionID, e.Index, e.Err)
}

func (e *ChunkError) Unwrap() []error {
	return []error{ErrTranscriptionFailure, e.Err}
}
