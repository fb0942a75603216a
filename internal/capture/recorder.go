package capture

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

// ChunkFilename names a captured chunk the way uploads are named.
func ChunkFilename(recordID string, p queue.Payload) string {
	return fmt.Sprintf("recording-%s-%d%s", recordID, p.CapturedAt.UnixMilli(), extension(p.ContentType))
}

func extension(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/webm", "video/webm":
		return ".webm"
	case "audio/ogg":
		return ".ogg"
	case "audio/mpeg":
		return ".mp3"
	case "audio/mp4", "audio/x-m4a":
		return ".m4a"
	}
	return ".bin"
}

func (r *implRecorder) Start(ctx context.Context, recordID string, md queue.CallMetadata) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loop != nil {
		return "", ErrAlreadyRecording
	}
	if recordID == "" {
		recordID = uuid.NewString()
	}

	// The recording outlives the request that started it.
	recCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	r.recordID = recordID
	r.metadata = md.Clone()
	r.metaRev = 0
	r.started = false
	r.chunks = 0
	r.startedAt = r.clock.Now()

	loop := NewLoop(r.source, r.duration, r.clock, func(p queue.Payload) { r.deliver(recCtx, p) }, r.logger)
	if err := loop.Start(recCtx); err != nil {
		cancel()
		_ = r.source.Close()
		r.recordID = ""
		return "", err
	}

	finished := make(chan struct{})
	r.loop = loop
	r.cancel = cancel
	r.finished = finished
	go r.watch(recCtx, loop, finished)

	r.logger.Info(ctx, "Recording %s started, chunk duration %s", recordID, r.duration)
	return recordID, nil
}

func (r *implRecorder) Stop(ctx context.Context) (string, error) {
	r.mu.Lock()
	loop, finished := r.loop, r.finished
	id := r.recordID
	r.mu.Unlock()

	if loop == nil {
		return "", ErrNotRecording
	}

	if err := loop.Stop(); err != nil {
		r.logger.Warn(ctx, "Recording %s loop ended with: %v", id, err)
	}
	<-finished
	return id, nil
}

// watch finishes the recording once the loop exits, whether stopped or not.
func (r *implRecorder) watch(ctx context.Context, loop *Loop, finished chan struct{}) {
	<-loop.Done()
	r.finish(ctx)
	close(finished)
}

// finish releases the source and submits the session.
func (r *implRecorder) finish(ctx context.Context) {
	r.mu.Lock()
	id, started, chunks := r.recordID, r.started, r.chunks
	cancel := r.cancel
	r.loop = nil
	r.cancel = nil
	r.recordID = ""
	r.mu.Unlock()

	if err := r.source.Close(); err != nil {
		r.logger.Warn(ctx, "Failed to close capture source: %v", err)
	}

	r.logger.Info(ctx, "Recording %s stopped after %d chunks", id, chunks)
	if started {
		if err := r.sessions.Submit(ctx, id); err != nil {
			r.logger.Error(ctx, "Failed to submit session %s: %v", id, err)
		}
	}
	cancel()
}

func (r *implRecorder) deliver(ctx context.Context, p queue.Payload) {
	r.mu.Lock()
	id, md, rev := r.recordID, r.metadata.Clone(), r.metaRev
	first := !r.started
	r.chunks++
	r.mu.Unlock()

	if p.Filename == "" {
		p.Filename = ChunkFilename(id, p)
	}

	if first {
		if err := r.startSession(ctx, id, md, rev); err != nil {
			r.logger.Error(ctx, "Failed to start session %s: %v", id, err)
			return
		}
	}

	chunk, err := r.sessions.IngestChunk(ctx, id, p)
	if err != nil {
		r.logger.Error(ctx, "Failed to ingest %s: %v", p.Filename, err)
		return
	}
	r.logger.Debug(ctx, "Chunk %d of %s captured (%d bytes)", chunk.Index, id, len(p.Data))
}

// startSession creates the session and then forwards any metadata that
// changed while it was being created.
func (r *implRecorder) startSession(ctx context.Context, id string, md queue.CallMetadata, rev int) error {
	if _, err := r.sessions.StartSession(ctx, id, "recording-"+id, "", md); err != nil {
		return err
	}

	r.mu.Lock()
	r.started = true
	changed := r.metaRev != rev
	latest := r.metadata.Clone()
	r.mu.Unlock()

	if !changed {
		return nil
	}
	if err := r.sessions.UpdateMetadata(ctx, id, latest); err != nil {
		r.logger.Warn(ctx, "Failed to update metadata of %s: %v", id, err)
	}
	return nil
}

func (r *implRecorder) UpdateMetadata(ctx context.Context, md queue.CallMetadata) error {
	r.mu.Lock()
	if r.loop == nil {
		r.mu.Unlock()
		return ErrNotRecording
	}
	r.metadata = md.Clone()
	r.metaRev++
	id, started := r.recordID, r.started
	r.mu.Unlock()

	if !started {
		return nil
	}
	return r.sessions.UpdateMetadata(ctx, id, md)
}

func (r *implRecorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loop == nil {
		return State{}
	}
	return State{
		Recording: true,
		RecordID:  r.recordID,
		Chunks:    r.chunks,
		StartedAt: r.startedAt,
	}
}
