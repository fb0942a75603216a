package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
)

const (
	finalizeMarker = "FINALIZE"
	metadataFile   = "metadata.yaml"
	sessionBacklog = 64
)

// Start monitors the inbox. Every subdirectory is one session; files inside
// it are handled one at a time, in arrival order.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", cap(w.semaphore), w.cfg.InboxDir)
	w.logger.Info(ctx, "Layout: <inbox>/<session>/<chunk>, audio %s, video %s, %s ends a session",
		strings.Join(audioExts, " "), strings.Join(videoExts, " "), finalizeMarker)

	if err := w.scanInbox(ctx); err != nil {
		w.logger.Warn(ctx, "Initial inbox scan failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing ingestion to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if event.Op&fsnotify.Create == fsnotify.Create {
				w.route(ctx, event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) route(ctx context.Context, path string) {
	parent := filepath.Dir(path)

	if filepath.Clean(parent) == filepath.Clean(w.cfg.InboxDir) {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			w.logger.Debug(ctx, "Ignoring top-level inbox file: %s", path)
			return
		}
		w.addSession(ctx, path)
		return
	}

	if filepath.Clean(filepath.Dir(parent)) != filepath.Clean(w.cfg.InboxDir) {
		return
	}
	w.enqueue(ctx, filepath.Base(parent), path)
}

func (w *implWatcher) scanInbox(ctx context.Context) error {
	entries, err := os.ReadDir(w.cfg.InboxDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			w.addSession(ctx, filepath.Join(w.cfg.InboxDir, e.Name()))
		}
	}
	return nil
}

// addSession watches a session directory and queues what it already holds,
// which covers files written before the watch existed.
func (w *implWatcher) addSession(ctx context.Context, dir string) {
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error(ctx, "Failed to watch %s: %v", dir, err)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Error(ctx, "Failed to read %s: %v", dir, err)
		return
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return scanRank(names[i]) < scanRank(names[j])
	})

	sid := filepath.Base(dir)
	for _, n := range names {
		w.enqueue(ctx, sid, filepath.Join(dir, n))
	}
}

// scanRank orders a backlog: metadata, then chunks by name, then the marker.
func scanRank(name string) int {
	switch name {
	case metadataFile:
		return 0
	case finalizeMarker:
		return 2
	}
	return 1
}

func (w *implWatcher) enqueue(ctx context.Context, sid, path string) {
	w.mu.Lock()
	if w.seen[path] {
		w.mu.Unlock()
		return
	}
	w.seen[path] = true

	q, ok := w.queues[sid]
	if !ok {
		q = make(chan string, sessionBacklog)
		w.queues[sid] = q
		w.wg.Add(1)
		go w.worker(ctx, sid, q)
	}
	w.mu.Unlock()

	select {
	case q <- path:
	case <-ctx.Done():
	}
}

func (w *implWatcher) worker(ctx context.Context, sid string, q chan string) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case path := <-q:
			// Acquire semaphore slot (blocks if max concurrent reached)
			select {
			case w.semaphore <- struct{}{}:
			case <-ctx.Done():
				return
			}

			if err := w.handle(ctx, sid, path); err != nil {
				w.logger.Error(ctx, "Failed to process %s: %v", path, err)
			}
			<-w.semaphore

			w.mu.Lock()
			delete(w.seen, path)
			w.mu.Unlock()
		}
	}
}
