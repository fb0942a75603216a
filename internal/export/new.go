package export

import (
	"github.com/nguyentantai21042004/meeting-scribe/internal/eventbus"
	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
)

type Config struct {
	OutputDir string
	Markdown  bool
	Docx      bool
	// EventBuffer sizes the bus subscription.
	EventBuffer int
}

type implExporter struct {
	cfg     Config
	bus     eventbus.Bus
	results ResultReader
	logger  logger.Logger
}

// New creates an Exporter fed by success events on bus.
func New(cfg Config, bus eventbus.Bus, results ResultReader, log logger.Logger) Exporter {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}
	return &implExporter{
		cfg:     cfg,
		bus:     bus,
		results: results,
		logger:  log,
	}
}
