package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/meeting-scribe/internal/archive"
	"github.com/nguyentantai21042004/meeting-scribe/internal/capture"
	"github.com/nguyentantai21042004/meeting-scribe/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse acknowledges a command that completes in the background.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type SessionListResponse struct {
	Sessions []queue.View `json:"sessions"`
	Total    int          `json:"total"`
}

// ResultResponse is the document shown once a session is processed.
type ResultResponse struct {
	pipeline.Result
	Ready bool `json:"ready"`
}

type ArchiveListResponse struct {
	Records []archive.Record `json:"records"`
	Total   int              `json:"total"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, queue.ErrNotFound), errors.Is(err, archive.ErrNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, queue.ErrBusy):
		return http.StatusConflict, "Session is being processed"
	case errors.Is(err, queue.ErrFinalized):
		return http.StatusConflict, "Session is no longer pending"
	case errors.Is(err, capture.ErrAlreadyRecording):
		return http.StatusConflict, "A recording is already active"
	case errors.Is(err, capture.ErrNotRecording):
		return http.StatusConflict, "No active recording"
	case errors.Is(err, queue.ErrStreamUnavailable):
		return http.StatusServiceUnavailable, "Audio stream unavailable"
	case errors.Is(err, queue.ErrTranscriptionFailure):
		return http.StatusBadGateway, "Transcription failed"
	case errors.Is(err, queue.ErrSummarizationFailure):
		return http.StatusBadGateway, "Summarization failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) writeError(c *gin.Context, op string, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "%s error: %v", op, err)
	}
	c.JSON(code, ErrorResponse{Error: msg, Details: err.Error()})
}
