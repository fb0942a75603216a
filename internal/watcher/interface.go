package watcher

import (
	"context"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

// Watcher defines the interface for inbox monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// Ingester receives what is dropped into the inbox.
type Ingester interface {
	StartSession(ctx context.Context, id, filename, displayName string, md queue.CallMetadata) (queue.View, error)
	IngestChunk(ctx context.Context, id string, audio queue.Payload) (queue.Chunk, error)
	UpdateMetadata(ctx context.Context, id string, md queue.CallMetadata) error
	Submit(ctx context.Context, id string) error
}
