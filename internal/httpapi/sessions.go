package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

// StartSessionRequest creates a session. Every field is optional.
type StartSessionRequest struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	DisplayName string             `json:"displayName"`
	Metadata    queue.CallMetadata `json:"metadata"`
}

// StartSession handles session creation
func (h *Handler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	view, err := h.service.StartSession(c.Request.Context(), req.ID, req.Filename, req.DisplayName, req.Metadata)
	if err != nil {
		h.writeError(c, "start session", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// IngestChunk appends the raw request body as the next chunk. The filename
// comes from the "filename" query parameter, capturedAt from "capturedAt"
// (RFC 3339).
func (h *Handler) IngestChunk(c *gin.Context) {
	id := c.Param("id")

	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxChunkBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Chunk could not be read", Details: err.Error()})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Chunk body is empty"})
		return
	}

	payload := queue.Payload{
		Data:        data,
		Filename:    c.Query("filename"),
		ContentType: c.ContentType(),
	}
	if raw := c.Query("capturedAt"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid capturedAt", Details: err.Error()})
			return
		}
		payload.CapturedAt = at
	}

	chunk, err := h.service.IngestChunk(c.Request.Context(), id, payload)
	if err != nil {
		h.writeError(c, "ingest chunk", err)
		return
	}
	c.JSON(http.StatusCreated, chunk)
}

// UpdateMetadata replaces the session's call metadata
func (h *Handler) UpdateMetadata(c *gin.Context) {
	var md queue.CallMetadata
	if err := c.ShouldBindJSON(&md); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid metadata", Details: err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.service.UpdateMetadata(c.Request.Context(), id, md); err != nil {
		h.writeError(c, "update metadata", err)
		return
	}

	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "update metadata", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Finalize starts the transcribe and summarize pass. With ?wait=true the
// request blocks until the pass ends and returns the session.
func (h *Handler) Finalize(c *gin.Context) {
	h.runPass(c, "finalize", h.service.Finalize)
}

// Retry re-runs the pass; chunks transcribed earlier are skipped.
func (h *Handler) Retry(c *gin.Context) {
	h.runPass(c, "retry", h.service.Retry)
}

func (h *Handler) runPass(c *gin.Context, op string, run func(ctx context.Context, id string) error) {
	id := c.Param("id")
	ctx := c.Request.Context()

	wait, _ := strconv.ParseBool(c.Query("wait"))
	if !wait {
		if err := h.service.Submit(ctx, id); err != nil {
			h.writeError(c, op, err)
			return
		}
		c.JSON(http.StatusAccepted, MessageResponse{Message: op + " started", ID: id})
		return
	}

	runErr := run(ctx, id)
	view, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeError(c, op, err)
		return
	}
	if runErr != nil && view.Status != queue.StatusError {
		// rejected before the pass started
		h.writeError(c, op, runErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetSession returns one session
func (h *Handler) GetSession(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "get session", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetResult returns the stitched timeline and, once ready, the summary.
func (h *Handler) GetResult(c *gin.Context) {
	res, err := h.service.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "get result", err)
		return
	}
	c.JSON(http.StatusOK, ResultResponse{Result: res, Ready: res.Status == queue.StatusSuccess})
}

// ListSessions returns every session in insertion order
func (h *Handler) ListSessions(c *gin.Context) {
	views := h.service.List(c.Request.Context())
	c.JSON(http.StatusOK, SessionListResponse{Sessions: views, Total: len(views)})
}

// DeleteSession removes one session
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "delete session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearSessions removes every session
func (h *Handler) ClearSessions(c *gin.Context) {
	h.service.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}
