package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

// Loop cuts a Source into fixed-duration units and delivers each finished unit
// right away. It reschedules itself after every unit until stopped or until the
// stream goes away.
type Loop struct {
	source   Source
	duration time.Duration
	clock    Clock
	deliver  func(queue.Payload)
	logger   logger.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
	err     error
}

// NewLoop creates a Loop. A nil clock uses wall time.
func NewLoop(source Source, duration time.Duration, clock Clock, deliver func(queue.Payload), log logger.Logger) *Loop {
	if clock == nil {
		clock = realClock{}
	}
	return &Loop{
		source:   source,
		duration: duration,
		clock:    clock,
		deliver:  deliver,
		logger:   log,
	}
}

// Start opens the first unit synchronously so a missing stream is reported to
// the caller before anything is produced.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return ErrAlreadyRecording
	}

	unit, err := l.source.Open(ctx)
	if err != nil {
		if errors.Is(err, queue.ErrStreamUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", queue.ErrStreamUnavailable, err)
	}

	l.running = true
	l.err = nil
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	go l.run(ctx, unit, l.stop, l.done)
	return nil
}

// Stop signals the loop, waits for the open unit to be delivered and returns
// the error that ended the loop early, if any.
func (l *Loop) Stop() error {
	l.mu.Lock()
	if !l.running {
		err := l.err
		l.mu.Unlock()
		return err
	}
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
	done := l.done
	l.mu.Unlock()

	<-done

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Done is closed when the loop has exited.
func (l *Loop) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return l.done
}

func (l *Loop) run(ctx context.Context, unit Unit, stop, done chan struct{}) {
	var exitErr error
	defer func() {
		l.mu.Lock()
		l.running = false
		l.err = exitErr
		l.mu.Unlock()
		close(done)
	}()

	for {
		select {
		case <-l.clock.After(l.duration):
			l.finish(ctx, unit)

			next, err := l.source.Open(ctx)
			if err != nil {
				l.logger.Warn(ctx, "Capture stream lost, stopping loop: %v", err)
				exitErr = err
				return
			}
			unit = next

		case <-stop:
			l.finish(ctx, unit)
			return

		case <-ctx.Done():
			l.finish(ctx, unit)
			exitErr = ctx.Err()
			return
		}
	}
}

func (l *Loop) finish(ctx context.Context, unit Unit) {
	payload, err := unit.Close()
	if err != nil {
		if errors.Is(err, ErrEmptyUnit) {
			l.logger.Debug(ctx, "Skipping empty capture unit")
		} else {
			l.logger.Error(ctx, "Failed to close capture unit: %v", err)
		}
		return
	}

	if payload.CapturedAt.IsZero() {
		payload.CapturedAt = l.clock.Now()
	}
	l.deliver(payload)
}
