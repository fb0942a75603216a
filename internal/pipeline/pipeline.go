package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

func (s *implService) Finalize(ctx context.Context, id string) error {
	return s.run(ctx, id, "finalize")
}

func (s *implService) Retry(ctx context.Context, id string) error {
	return s.run(ctx, id, "retry")
}

// Submit checks the session exists and is idle, then runs the pass in the background.
func (s *implService) Submit(ctx context.Context, id string) error {
	sess, ok := s.queue.Get(id)
	if !ok {
		return fmt.Errorf("submit %s: %w", id, queue.ErrNotFound)
	}
	if !sess.TryAcquire() {
		return fmt.Errorf("submit %s: %w", id, queue.ErrBusy)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer sess.Release()

		bg := s.baseCtx
		if s.sem.saturated() {
			s.logger.Info(bg, "Session %s queued, every worker is busy", id)
		}
		if err := s.sem.acquire(bg); err != nil {
			s.logger.Error(bg, "Session %s: waiting for a worker: %v", id, err)
			return
		}
		defer s.sem.release()

		if err := s.process(bg, sess, "submit"); err != nil {
			s.logger.Warn(bg, "Session %s ended in error: %v", id, err)
		}
	}()
	return nil
}

func (s *implService) Wait() {
	s.wg.Wait()
}

func (s *implService) run(ctx context.Context, id, trigger string) error {
	sess, ok := s.queue.Get(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", trigger, id, queue.ErrNotFound)
	}
	if !sess.TryAcquire() {
		return fmt.Errorf("%s %s: %w", trigger, id, queue.ErrBusy)
	}
	defer sess.Release()

	if err := s.sem.acquire(ctx); err != nil {
		return err
	}
	defer s.sem.release()

	return s.process(ctx, sess, trigger)
}

// process is one transcribing pass: every chunk without a transcription is
// sent in order, one call at a time, then the joined text is summarized.
// Failures settle the session in error and are returned to the caller.
// The caller must hold the session.
func (s *implService) process(ctx context.Context, sess *queue.Session, trigger string) error {
	start := time.Now()
	id := sess.ID()

	if err := s.queue.SetStatus(sess, queue.StatusTranscribing); err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}

	pending := sess.PendingChunks()
	s.logger.Info(ctx, "Session %s (%s): transcribing %d of %d chunks", id, trigger, len(pending), len(sess.Chunks()))

	for _, chunk := range pending {
		res, err := s.transcriber.Transcribe(ctx, chunk.Audio)
		if err != nil {
			cerr := &queue.ChunkError{SessionID: id, Index: chunk.Index, Err: err}
			return s.fail(ctx, sess, cerr)
		}
		if err := sess.AttachTranscription(chunk.Index, res.Text, res.Segments); err != nil && !errors.Is(err, queue.ErrAlreadyTranscribed) {
			return s.fail(ctx, sess, &queue.ChunkError{SessionID: id, Index: chunk.Index, Err: err})
		}
		s.logger.Debug(ctx, "Session %s: chunk %d transcribed", id, chunk.Index)
	}

	if err := s.queue.SetStatus(sess, queue.StatusSummarizing); err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}

	summary, err := s.summarizer.Summarize(ctx, sess.FullTranscription(), s.cfg.Prompt)
	if err != nil {
		return s.fail(ctx, sess, fmt.Errorf("%w: %w", queue.ErrSummarizationFailure, err))
	}

	if err := s.queue.Complete(sess, summary); err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}

	s.logger.Info(ctx, "Session %s summarized in %s", id, time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *implService) fail(ctx context.Context, sess *queue.Session, cause error) error {
	s.logger.Error(ctx, "Session %s failed: %v", sess.ID(), cause)
	if err := s.queue.Fail(sess, cause); err != nil {
		s.logger.Error(ctx, "Session %s: could not record failure: %v", sess.ID(), err)
	}
	return cause
}
