package queue

import (
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/eventbus"
	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
)

type implQueue struct {
	bus    eventbus.Bus
	logger logger.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

// New creates an empty in-memory Queue publishing to bus.
func New(bus eventbus.Bus, log logger.Logger) Queue {
	return &implQueue{
		bus:      bus,
		logger:   log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}
