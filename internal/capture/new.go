package capture

import (
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

type implRecorder struct {
	source   Source
	sessions Sessions
	duration time.Duration
	clock    Clock
	logger   logger.Logger

	mu        sync.Mutex
	loop      *Loop
	cancel    func()
	finished  chan struct{}
	recordID  string
	metadata  queue.CallMetadata
	metaRev   int
	started   bool // session created by the first chunk
	chunks    int
	startedAt time.Time
}

// NewRecorder creates a Recorder cutting source into chunks of duration.
// A nil clock uses wall time.
func NewRecorder(source Source, sessions Sessions, duration time.Duration, clock Clock, log logger.Logger) Recorder {
	if clock == nil {
		clock = realClock{}
	}
	return &implRecorder{
		source:   source,
		sessions: sessions,
		duration: duration,
		clock:    clock,
		logger:   log,
	}
}
