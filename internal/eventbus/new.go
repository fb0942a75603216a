package eventbus

import (
	"sync"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
)

type implBus struct {
	logger logger.Logger

	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// New creates an in-process event Bus
func New(log logger.Logger) Bus {
	return &implBus{
		logger: log,
		subs:   make(map[int]chan Event),
	}
}
