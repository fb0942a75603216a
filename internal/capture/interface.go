package capture

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

var (
	ErrAlreadyRecording = errors.New("a recording is already active")
	ErrNotRecording     = errors.New("no active recording")
	// ErrEmptyUnit is returned by Unit.Close when the interval captured no audio.
	ErrEmptyUnit = errors.New("capture unit is empty")
)

// Source is a live audio stream that can be cut into units.
type Source interface {
	// Open starts a new unit. It fails with queue.ErrStreamUnavailable when
	// there is no live stream.
	Open(ctx context.Context) (Unit, error)
	// Close releases the stream.
	Close() error
}

// Unit is one open chunk-capture interval.
type Unit interface {
	// Close finalizes the interval and yields its audio.
	Close() (queue.Payload, error)
}

// Clock lets tests drive the chunk cycle.
type Clock interface {
	After(d time.Duration) <-chan time.Time
	Now() time.Time
}

// Sessions is the part of the pipeline the recorder feeds.
type Sessions interface {
	StartSession(ctx context.Context, id, filename, displayName string, md queue.CallMetadata) (queue.View, error)
	IngestChunk(ctx context.Context, id string, audio queue.Payload) (queue.Chunk, error)
	UpdateMetadata(ctx context.Context, id string, md queue.CallMetadata) error
	Submit(ctx context.Context, id string) error
}

// State is a snapshot of the recorder.
type State struct {
	Recording bool      `json:"recording"`
	RecordID  string    `json:"recordId,omitempty"`
	Chunks    int       `json:"chunks"`
	StartedAt time.Time `json:"startedAt,omitempty"`
}

// Recorder runs one capture loop at a time and hands its chunks to Sessions.
type Recorder interface {
	// Start begins recording. An empty recordID gets a generated one.
	Start(ctx context.Context, recordID string, md queue.CallMetadata) (string, error)
	// Stop ends the recording after its last partial chunk is delivered and
	// submits the session for finalization.
	Stop(ctx context.Context) (string, error)
	UpdateMetadata(ctx context.Context, md queue.CallMetadata) error
	State() State
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (realClock) Now() time.Time                         { return time.Now() }
