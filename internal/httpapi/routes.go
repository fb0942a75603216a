package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handler, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
	router.GET("/events", h.Events)

	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.GET("", h.ListSessions)
		sessions.DELETE("", h.ClearSessions)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.DeleteSession)
		sessions.GET("/:id/result", h.GetResult)
		sessions.POST("/:id/chunks", h.IngestChunk)
		sessions.PUT("/:id/metadata", h.UpdateMetadata)
		sessions.POST("/:id/finalize", h.Finalize)
		sessions.POST("/:id/retry", h.Retry)
	}

	if h.recorder != nil {
		recording := router.Group("/recording")
		{
			recording.GET("", h.RecordingState)
			recording.POST("/start", h.StartRecording)
			recording.POST("/stop", h.StopRecording)
			recording.PUT("/metadata", h.UpdateRecordingMetadata)
		}
	}

	if h.archive != nil {
		archived := router.Group("/archive")
		{
			archived.GET("", h.ListArchive)
			archived.GET("/:id", h.GetArchived)
			archived.DELETE("/:id", h.DeleteArchived)
		}
	}
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
