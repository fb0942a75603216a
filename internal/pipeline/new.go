package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
	"github.com/nguyentantai21042004/meeting-scribe/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-scribe/internal/transcription"
)

type Config struct {
	// Prompt drives the summarizer. Empty uses its default.
	Prompt        string
	MaxConcurrent int
}

type implService struct {
	queue       queue.Queue
	transcriber transcription.Transcriber
	summarizer  summarizer.Summarizer
	cfg         Config
	logger      logger.Logger
	now         func() time.Time

	sem *semaphore
	wg  sync.WaitGroup

	// background passes outlive the request that submitted them
	baseCtx context.Context
}

// New creates a Service over q.
func New(q queue.Queue, tr transcription.Transcriber, sum summarizer.Summarizer, cfg Config, log logger.Logger) Service {
	return &implService{
		queue:       q,
		transcriber: tr,
		summarizer:  sum,
		cfg:         cfg,
		logger:      log,
		now:         time.Now,
		sem:         newSemaphore(cfg.MaxConcurrent),
		baseCtx:     context.Background(),
	}
}
