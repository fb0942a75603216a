package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
	"github.com/nguyentantai21042004/meeting-scribe/internal/timeline"
)

func (s *implService) StartSession(ctx context.Context, id, filename, displayName string, md queue.CallMetadata) (queue.View, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if filename == "" {
		filename = "recording-" + id
	}
	if displayName == "" {
		displayName = queue.DisplayName(md, s.now())
	}

	sess, created := s.queue.Upsert(id, filename, displayName, md)
	if !created {
		s.logger.Debug(ctx, "Session %s already exists, reusing it", id)
	}
	return sess.View(), nil
}

func (s *implService) IngestChunk(ctx context.Context, id string, audio queue.Payload) (queue.Chunk, error) {
	sess, ok := s.queue.Get(id)
	if !ok {
		return queue.Chunk{}, fmt.Errorf("ingest chunk: %s: %w", id, queue.ErrNotFound)
	}
	if audio.CapturedAt.IsZero() {
		audio.CapturedAt = s.now()
	}

	chunk := sess.AppendChunk(audio)
	s.logger.Debug(ctx, "Session %s: chunk %d appended (%s, %d bytes)", id, chunk.Index, audio.Filename, len(audio.Data))
	return chunk, nil
}

func (s *implService) UpdateMetadata(ctx context.Context, id string, md queue.CallMetadata) error {
	return s.queue.ReplaceMetadata(id, md)
}

func (s *implService) Get(ctx context.Context, id string) (queue.View, error) {
	sess, ok := s.queue.Get(id)
	if !ok {
		return queue.View{}, fmt.Errorf("get %s: %w", id, queue.ErrNotFound)
	}
	return sess.View(), nil
}

// Result stitches the session's segments into one timeline. The summary is
// only present once the session reached success.
func (s *implService) Result(ctx context.Context, id string) (Result, error) {
	sess, ok := s.queue.Get(id)
	if !ok {
		return Result{}, fmt.Errorf("result %s: %w", id, queue.ErrNotFound)
	}

	view := sess.View()
	segments := timeline.Build(view.Chunks)
	return Result{
		View:          view,
		Transcription: sess.FullTranscription(),
		Timeline:      segments,
		TimelineText:  timeline.Render(segments),
	}, nil
}

func (s *implService) Delete(ctx context.Context, id string) error {
	if !s.queue.Remove(id) {
		return fmt.Errorf("delete %s: %w", id, queue.ErrNotFound)
	}
	return nil
}

func (s *implService) List(ctx context.Context) []queue.View {
	sessions := s.queue.List()
	out := make([]queue.View, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.View())
	}
	return out
}

func (s *implService) Clear(ctx context.Context) {
	s.queue.Clear()
}
