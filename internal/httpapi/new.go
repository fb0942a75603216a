package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/meeting-scribe/internal/archive"
	"github.com/nguyentantai21042004/meeting-scribe/internal/capture"
	"github.com/nguyentantai21042004/meeting-scribe/internal/eventbus"
	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/pipeline"
)

// ArchiveReader is what the API needs from the archive store.
type ArchiveReader interface {
	Get(ctx context.Context, id string) (archive.Record, error)
	List(ctx context.Context, limit int) ([]archive.Record, error)
	Delete(ctx context.Context, id string) error
}

type Config struct {
	// MaxChunkBytes caps an uploaded chunk body.
	MaxChunkBytes int64
	EventBuffer   int
}

// Handler serves the session, recording and event routes.
type Handler struct {
	service  pipeline.Service
	recorder capture.Recorder
	bus      eventbus.Bus
	archive  ArchiveReader
	cfg      Config
	logger   logger.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new handler. recorder and archive may be nil, in
// which case their routes are not registered.
func NewHandler(service pipeline.Service, recorder capture.Recorder, bus eventbus.Bus, archive ArchiveReader, cfg Config, log logger.Logger) *Handler {
	if cfg.MaxChunkBytes <= 0 {
		cfg.MaxChunkBytes = 64 << 20
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}

	return &Handler{
		service:  service,
		recorder: recorder,
		bus:      bus,
		archive:  archive,
		cfg:      cfg,
		logger:   log,
		upgrader: websocket.Upgrader{
			// observers are local tools, any origin is accepted
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}
