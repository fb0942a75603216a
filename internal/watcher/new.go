package watcher

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/pkg/executor"
)

type Config struct {
	InboxDir      string
	TempDir       string
	FFmpegBinary  string
	MaxConcurrent int
	// Settle is how long a new file is left alone before it is read.
	Settle time.Duration
}

// New creates a new Watcher instance with concurrency control
func New(cfg Config, ingester Ingester, exec executor.Executor, log logger.Logger) (Watcher, error) {
	if err := os.MkdirAll(cfg.InboxDir, 0755); err != nil {
		return nil, fmt.Errorf("create inbox: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(cfg.InboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}

	return &implWatcher{
		cfg:       cfg,
		ingester:  ingester,
		executor:  exec,
		logger:    log,
		watcher:   watcher,
		semaphore: make(chan struct{}, cfg.MaxConcurrent),
		queues:    make(map[string]chan string),
		seen:      make(map[string]bool),
	}, nil
}

type implWatcher struct {
	cfg       Config
	ingester  Ingester
	executor  executor.Executor
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup

	mu     sync.Mutex
	queues map[string]chan string // per session, in arrival order
	seen   map[string]bool
}
