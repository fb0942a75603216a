package archive

import (
	"context"

	"github.com/nguyentantai21042004/meeting-scribe/internal/eventbus"
	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

// ResultReader loads a finished session.
type ResultReader interface {
	Result(ctx context.Context, id string) (pipeline.Result, error)
}

// Archiver saves every session that reaches success.
type Archiver struct {
	store   *Store
	bus     eventbus.Bus
	results ResultReader
	logger  logger.Logger
	buffer  int
}

func NewArchiver(store *Store, bus eventbus.Bus, results ResultReader, buffer int, log logger.Logger) *Archiver {
	if buffer <= 0 {
		buffer = 64
	}
	return &Archiver{store: store, bus: bus, results: results, logger: log, buffer: buffer}
}

// Run blocks until ctx is done.
func (a *Archiver) Run(ctx context.Context) {
	events, cancel := a.bus.Subscribe(a.buffer)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Kind != eventbus.KindStatusChanged || ev.Status != string(queue.StatusSuccess) {
				continue
			}

			res, err := a.results.Result(ctx, ev.SessionID)
			if err != nil {
				a.logger.Warn(ctx, "Archive skipped for %s: %v", ev.SessionID, err)
				continue
			}
			if err := a.store.Save(ctx, res); err != nil {
				a.logger.Error(ctx, "Archive of %s failed: %v", ev.SessionID, err)
				continue
			}
			a.logger.Info(ctx, "Archived session %s", ev.SessionID)
		}
	}
}
