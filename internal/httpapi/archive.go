package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListArchive returns archived sessions, newest first. ?limit= caps the list.
func (h *Handler) ListArchive(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = n
	}

	records, err := h.archive.List(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, "list archive", err)
		return
	}
	c.JSON(http.StatusOK, ArchiveListResponse{Records: records, Total: len(records)})
}

// GetArchived returns one archived session with its timeline
func (h *Handler) GetArchived(c *gin.Context) {
	rec, err := h.archive.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "get archived", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteArchived removes an archived session
func (h *Handler) DeleteArchived(c *gin.Context) {
	if err := h.archive.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "delete archived", err)
		return
	}
	c.Status(http.StatusNoContent)
}
