package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

// Result is a finished session plus its stitched transcript.
type Result struct {
	queue.View
	Transcription string          `json:"transcription"`
	Timeline      []queue.Segment `json:"timeline"`
	TimelineText  string          `json:"timelineText"`
}

// Service is the command surface over the session queue.
type Service interface {
	// StartSession creates the session, or returns the existing one for id.
	// Empty id, filename and displayName are derived.
	StartSession(ctx context.Context, id, filename, displayName string, md queue.CallMetadata) (queue.View, error)
	// IngestChunk appends one captured chunk, in capture order.
	IngestChunk(ctx context.Context, id string, audio queue.Payload) (queue.Chunk, error)
	UpdateMetadata(ctx context.Context, id string, md queue.CallMetadata) error

	// Finalize transcribes every pending chunk, summarizes and settles the
	// session on success or error. It blocks until the pass ends.
	Finalize(ctx context.Context, id string) error
	// Retry re-runs the pass. Chunks transcribed earlier are skipped.
	Retry(ctx context.Context, id string) error
	// Submit runs Finalize in the background, bounded by the worker limit.
	Submit(ctx context.Context, id string) error

	Get(ctx context.Context, id string) (queue.View, error)
	Result(ctx context.Context, id string) (Result, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) []queue.View
	Clear(ctx context.Context)

	// Wait blocks until background passes finish.
	Wait()
}
