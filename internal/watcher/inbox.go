package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

var (
	audioExts = []string{".webm", ".wav", ".mp3", ".m4a", ".ogg"}
	videoExts = []string{".mp4", ".mov", ".avi", ".mkv", ".m4v", ".flv"}

	contentTypes = map[string]string{
		".webm": "audio/webm",
		".wav":  "audio/wav",
		".mp3":  "audio/mpeg",
		".m4a":  "audio/mp4",
		".ogg":  "audio/ogg",
	}
)

func (w *implWatcher) handle(ctx context.Context, sid, path string) error {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))

	// A file can be reported by both the directory scan and its own event.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	switch {
	case name == finalizeMarker:
		defer w.cleanupFile(ctx, path)
		w.logger.Info(ctx, "Finalize requested for session %s", sid)
		return w.ingester.Submit(ctx, sid)

	case name == metadataFile:
		defer w.cleanupFile(ctx, path)
		return w.applyMetadata(ctx, sid, path)

	case slices.Contains(audioExts, ext):
		return w.ingestAudio(ctx, sid, path, path)

	case slices.Contains(videoExts, ext):
		w.settle(ctx)
		audioPath, err := w.extractAudio(ctx, path)
		if err != nil {
			return err
		}
		defer w.cleanupFile(ctx, audioPath)
		return w.ingestAudio(ctx, sid, path, audioPath)

	default:
		w.logger.Debug(ctx, "Ignoring unsupported inbox file: %s", path)
		return nil
	}
}

// ingestAudio reads audioPath as the next chunk of sid and removes the source file.
func (w *implWatcher) ingestAudio(ctx context.Context, sid, sourcePath, audioPath string) error {
	if sourcePath == audioPath {
		w.settle(ctx)
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return fmt.Errorf("stat chunk: %w", err)
	}
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return fmt.Errorf("read chunk: %w", err)
	}

	if _, err := w.ingester.StartSession(ctx, sid, "", "", queue.CallMetadata{}); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(audioPath))
	chunk, err := w.ingester.IngestChunk(ctx, sid, queue.Payload{
		Data:        data,
		Filename:    strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath)) + ext,
		ContentType: contentTypes[ext],
		CapturedAt:  info.ModTime(),
	})
	if err != nil {
		return fmt.Errorf("ingest chunk: %w", err)
	}

	w.logger.Info(ctx, "Session %s: chunk %d <- %s", sid, chunk.Index, filepath.Base(sourcePath))
	w.cleanupFile(ctx, sourcePath)
	return nil
}

func (w *implWatcher) applyMetadata(ctx context.Context, sid, path string) error {
	w.settle(ctx)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read metadata: %w", err)
	}
	var md queue.CallMetadata
	if err := yaml.Unmarshal(raw, &md); err != nil {
		return fmt.Errorf("parse metadata: %w", err)
	}

	// StartSession keeps an existing session as is, so the metadata is
	// always applied explicitly afterwards.
	if _, err := w.ingester.StartSession(ctx, sid, "", "", md); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if err := w.ingester.UpdateMetadata(ctx, sid, md); err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}
	w.logger.Info(ctx, "Session %s: metadata applied", sid)
	return nil
}

// settle gives the writer time to finish before the file is read.
func (w *implWatcher) settle(ctx context.Context) {
	if w.cfg.Settle <= 0 {
		return
	}
	select {
	case <-time.After(w.cfg.Settle):
	case <-ctx.Done():
	}
}

// cleanupFile removes a handled file, logs warning if fails
func (w *implWatcher) cleanupFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		w.logger.Warn(ctx, "Failed to cleanup %s: %v", filePath, err)
	} else {
		w.logger.Debug(ctx, "Cleaned up: %s", filePath)
	}
}
