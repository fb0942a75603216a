package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

type StartRecordingRequest struct {
	RecordID string             `json:"recordId"`
	Metadata queue.CallMetadata `json:"metadata"`
}

// RecordingState reports whether a recording is active
func (h *Handler) RecordingState(c *gin.Context) {
	c.JSON(http.StatusOK, h.recorder.State())
}

// StartRecording begins capturing from the configured input device
func (h *Handler) StartRecording(c *gin.Context) {
	var req StartRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}

	id, err := h.recorder.Start(c.Request.Context(), req.RecordID, req.Metadata)
	if err != nil {
		h.writeError(c, "start recording", err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "recording started", ID: id})
}

// StopRecording ends the recording and submits its session
func (h *Handler) StopRecording(c *gin.Context) {
	id, err := h.recorder.Stop(c.Request.Context())
	if err != nil {
		h.writeError(c, "stop recording", err)
		return
	}
	c.JSON(http.StatusAccepted, MessageResponse{Message: "recording stopped", ID: id})
}

// UpdateRecordingMetadata replaces the metadata of the active recording
func (h *Handler) UpdateRecordingMetadata(c *gin.Context) {
	var md queue.CallMetadata
	if err := c.ShouldBindJSON(&md); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid metadata", Details: err.Error()})
		return
	}

	if err := h.recorder.UpdateMetadata(c.Request.Context(), md); err != nil {
		h.writeError(c, "update recording metadata", err)
		return
	}
	c.JSON(http.StatusOK, h.recorder.State())
}
