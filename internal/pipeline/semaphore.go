package pipeline

import "context"

// semaphore caps how many sessions are transcribed and summarized at once.
type semaphore struct {
	slots chan struct{}
}

func newSemaphore(capacity int) *semaphore {
	if capacity < 1 {
		capacity = 1
	}
	return &semaphore{slots: make(chan struct{}, capacity)}
}

// acquire blocks until a worker slot is free or ctx ends.
func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.slots
}

// saturated reports whether every slot is taken.
func (s *semaphore) saturated() bool {
	return len(s.slots) == cap(s.slots)
}
