package queue

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/looplab/fsm"
)

// Session is one recording's aggregate: its ordered chunks, metadata, status and summary.
// Chunk order is capture order and is never changed.
type Session struct {
	id          string
	filename    string
	displayName string
	createdAt   time.Time

	machine *fsm.FSM
	busy    atomic.Bool

	mu        sync.RWMutex
	chunks    []*Chunk
	metadata  CallMetadata
	summary   string
	lastError string
}

func newSession(id, filename, displayName string, md CallMetadata, now time.Time) *Session {
	return &Session{
		id:          id,
		filename:    filename,
		displayName: displayName,
		createdAt:   now,
		machine:     newMachine(),
		metadata:    md.Clone(),
	}
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Filename() string    { return s.filename }
func (s *Session) DisplayName() string { return s.displayName }

// Status returns the current state machine state.
func (s *Session) Status() Status {
	return Status(s.machine.Current())
}

// Metadata returns a copy of the current call metadata.
func (s *Session) Metadata() CallMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata.Clone()
}

// Summary returns the summary; ok is false unless the session reached success.
func (s *Session) Summary() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Status() != StatusSuccess {
		return "", false
	}
	return s.summary, true
}

// AppendChunk adds a new, untranscribed chunk at the end of the session.
func (s *Session) AppendChunk(p Payload) Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Chunk{
		Index: len(s.chunks),
		Audio: p,
	}
	s.chunks = append(s.chunks, c)
	return *c
}

// Chunks returns copies of all chunks in capture order.
func (s *Session) Chunks() []Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Chunk, len(s.chunks))
	for i, c := range s.chunks {
		out[i] = copyChunk(c)
	}
	return out
}

// PendingChunks returns, in order, the chunks that still lack a transcription.
func (s *Session) PendingChunks() []Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Chunk
	for _, c := range s.chunks {
		if !c.Transcribed() {
			out = append(out, copyChunk(c))
		}
	}
	return out
}

// AttachTranscription records the result for chunk index. A chunk is transcribed at most once.
func (s *Session) AttachTranscription(index int, text string, segments []Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.chunks) {
		return ErrNotFound
	}
	c := s.chunks[index]
	if c.Transcribed() {
		return ErrAlreadyTranscribed
	}

	t := text
	c.Transcription = &t
	c.Segments = append([]Segment(nil), segments...)
	return nil
}

// FullTranscription joins every chunk's transcription, in order, with a single space.
// Chunks without a transcription count as empty strings.
func (s *Session) FullTranscription() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parts := make([]string, len(s.chunks))
	for i, c := range s.chunks {
		parts[i] = c.Text()
	}
	return strings.Join(parts, " ")
}

// TryAcquire marks the session as being processed. Release must follow a successful call.
func (s *Session) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *Session) Release() {
	s.busy.Store(false)
}

// View returns a consistent copy for observers.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := s.Status()
	v := View{
		ID:          s.id,
		Filename:    s.filename,
		DisplayName: s.displayName,
		Status:      status,
		LastError:   s.lastError,
		Metadata:    s.metadata.Clone(),
		Chunks:      make([]Chunk, len(s.chunks)),
		CreatedAt:   s.createdAt,
	}
	if status == StatusSuccess {
		v.Summary = s.summary
	}
	for i, c := range s.chunks {
		v.Chunks[i] = copyChunk(c)
	}
	return v
}

func copyChunk(c *Chunk) Chunk {
	out := *c
	if c.Transcription != nil {
		t := *c.Transcription
		out.Transcription = &t
	}
	out.Segments = append([]Segment(nil), c.Segments...)
	return out
}
