package queue

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/meeting-scribe/internal/eventbus"
)

func (q *implQueue) Upsert(id, filename, displayName string, md CallMetadata) (*Session, bool) {
	q.mu.Lock()
	if s, ok := q.sessions[id]; ok {
		q.mu.Unlock()
		return s, false
	}

	s := newSession(id, filename, displayName, md, q.now())
	q.sessions[id] = s
	q.order = append(q.order, id)
	q.mu.Unlock()

	q.logger.Info(context.Background(), "Session added: %s (%s)", id, displayName)
	q.bus.Publish(eventbus.Event{Kind: eventbus.KindAdded, SessionID: id, Status: string(StatusPending)})
	return s, true
}

func (q *implQueue) ReplaceMetadata(id string, md CallMetadata) error {
	s, ok := q.Get(id)
	if !ok {
		return fmt.Errorf("replace metadata %s: %w", id, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status() != StatusPending {
		return fmt.Errorf("replace metadata %s: %w", id, ErrFinalized)
	}
	s.metadata = md.Clone()
	return nil
}

func (q *implQueue) SetStatus(s *Session, status Status) error {
	if status == StatusSuccess {
		return fmt.Errorf("%w: success requires a summary", ErrInvalidTransition)
	}
	return q.apply(s, status, nil)
}

func (q *implQueue) Fail(s *Session, cause error) error {
	return q.apply(s, StatusError, func() {
		if cause != nil {
			s.lastError = cause.Error()
		}
	})
}

func (q *implQueue) Complete(s *Session, summary string) error {
	return q.apply(s, StatusSuccess, func() {
		s.summary = summary
	})
}

// apply performs one transition and its side effects under the session lock,
// then publishes. mutate runs only when the transition succeeded.
func (q *implQueue) apply(s *Session, status Status, mutate func()) error {
	s.mu.Lock()
	from := s.Status()
	if err := transition(s.machine, status); err != nil {
		s.mu.Unlock()
		return err
	}
	switch status {
	case StatusTranscribing:
		s.summary = ""
		s.lastError = ""
	}
	if mutate != nil {
		mutate()
	}
	s.mu.Unlock()

	q.logger.Debug(context.Background(), "Session %s: %s -> %s", s.id, from, status)
	if status == StatusSuccess {
		q.bus.Publish(eventbus.Event{Kind: eventbus.KindSummaryUpdated, SessionID: s.id, Status: string(status)})
	}
	q.bus.Publish(eventbus.Event{Kind: eventbus.KindStatusChanged, SessionID: s.id, Status: string(status)})
	return nil
}

func (q *implQueue) Get(id string) (*Session, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	s, ok := q.sessions[id]
	return s, ok
}

// Remove deletes the session. It returns false, and emits nothing, when id is unknown.
func (q *implQueue) Remove(id string) bool {
	q.mu.Lock()
	if _, ok := q.sessions[id]; !ok {
		q.mu.Unlock()
		return false
	}
	delete(q.sessions, id)
	for i, sid := range q.order {
		if sid == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	q.mu.Unlock()

	q.logger.Info(context.Background(), "Session removed: %s", id)
	q.bus.Publish(eventbus.Event{Kind: eventbus.KindRemoved, SessionID: id})
	return true
}

// List returns sessions in creation order.
func (q *implQueue) List() []*Session {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]*Session, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, q.sessions[id])
	}
	return out
}

// Clear drops every session and always emits cleared.
func (q *implQueue) Clear() {
	q.mu.Lock()
	n := len(q.sessions)
	q.sessions = make(map[string]*Session)
	q.order = nil
	q.mu.Unlock()

	q.logger.Info(context.Background(), "Queue cleared (%d sessions)", n)
	q.bus.Publish(eventbus.Event{Kind: eventbus.KindCleared})
}
