package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/archive"
	"github.com/nguyentantai21042004/meeting-scribe/internal/capture"
	"github.com/nguyentantai21042004/meeting-scribe/internal/config"
	"github.com/nguyentantai21042004/meeting-scribe/internal/eventbus"
	"github.com/nguyentantai21042004/meeting-scribe/internal/export"
	"github.com/nguyentantai21042004/meeting-scribe/internal/httpapi"
	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-scribe/internal/provider/geminiclient"
	"github.com/nguyentantai21042004/meeting-scribe/internal/provider/ollamaclient"
	"github.com/nguyentantai21042004/meeting-scribe/internal/provider/openaiclient"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
	"github.com/nguyentantai21042004/meeting-scribe/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-scribe/internal/watcher"
	"github.com/nguyentantai21042004/meeting-scribe/pkg/executor"
)

const (
	shutdownTimeout = 30 * time.Second
	providerRetries = 2
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Scribe")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Transcription: %s (%s)", cfg.Transcription.Provider, cfg.Transcription.Model)
	log.Info(ctx, "Summarization: %s (%s)", cfg.Summarization.Provider, cfg.Summarization.Model)
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Initialize dependencies
	bus := eventbus.New(log)
	defer bus.Close()

	completer, err := newCompleter(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to create summarization client: %v", err)
		os.Exit(1)
	}

	transcriber := openaiclient.NewTranscriber(openaiclient.Config{
		APIKey:     cfg.Transcription.APIKey,
		BaseURL:    cfg.Transcription.BaseURL,
		Model:      cfg.Transcription.Model,
		Language:   cfg.Transcription.Language,
		Prompt:     cfg.Transcription.Prompt,
		MaxRetries: providerRetries,
	}, log)

	sum := summarizer.New(completer, summarizer.Config{
		MaxInputChars: cfg.Summarization.MaxInputChars,
		SplitSlack:    cfg.Summarization.SplitSlack,
		MaxDepth:      cfg.Summarization.MaxDepth,
		DefaultPrompt: cfg.Summarization.Prompt,
		Options: summarizer.Options{
			Model:       cfg.Summarization.Model,
			Temperature: cfg.Summarization.Temperature,
		},
	}, log)

	svc := pipeline.New(queue.New(bus, log), transcriber, sum, pipeline.Config{
		Prompt:        cfg.Summarization.Prompt,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
	}, log)

	exec := executor.New()
	source := capture.NewFFmpegSource(capture.FFmpegConfig{
		Binary:     cfg.Capture.FFmpegBinary,
		Format:     cfg.Capture.InputFormat,
		Device:     cfg.Capture.InputDevice,
		SampleRate: cfg.Capture.SampleRate,
		Channels:   cfg.Capture.Channels,
	}, exec, log)
	recorder := capture.NewRecorder(source, svc, cfg.Capture.ChunkDuration, nil, log)

	exporter := export.New(export.Config{
		OutputDir:   cfg.Paths.Output,
		Markdown:    cfg.Export.Markdown,
		Docx:        cfg.Export.Docx,
		EventBuffer: cfg.Performance.EventBuffer,
	}, bus, svc, log)
	go exporter.Run(ctx)

	var archived httpapi.ArchiveReader
	if cfg.Paths.ArchiveDB != "" {
		store, err := archive.Open(cfg.Paths.ArchiveDB)
		if err != nil {
			log.Error(ctx, "Failed to open archive: %v", err)
			os.Exit(1)
		}
		defer store.Close()
		archived = store
		go archive.NewArchiver(store, bus, svc, cfg.Performance.EventBuffer, log).Run(ctx)
	}

	// Create watcher with the pipeline as ingester
	w, err := watcher.New(watcher.Config{
		InboxDir:      cfg.Paths.Inbox,
		TempDir:       cfg.Paths.Temp,
		FFmpegBinary:  cfg.Capture.FFmpegBinary,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
		Settle:        cfg.Paths.InboxSettle,
	}, svc, exec, log)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	handler := httpapi.NewHandler(svc, recorder, bus, archived, httpapi.Config{
		EventBuffer: cfg.Performance.EventBuffer,
	}, log)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: httpapi.NewRouter(handler, cfg.Server.Mode),
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("watcher: %w", err)
		}
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Scribe is ready!")
	log.Info(ctx, "API: %s", cfg.Server.Addr)
	log.Info(ctx, "Inbox: %s", cfg.Paths.Inbox)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Chunk duration: %s", cfg.Capture.ChunkDuration)
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Fatal error: %v", err)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if id, err := recorder.Stop(shutdownCtx); err == nil {
		log.Info(ctx, "Recording %s stopped and submitted", id)
	} else if !errors.Is(err, capture.ErrNotRecording) {
		log.Warn(ctx, "Failed to stop recording: %v", err)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "HTTP shutdown: %v", err)
	}

	log.Info(ctx, "Waiting for in-flight finalizations...")
	svc.Wait()
	cancel()

	log.Info(ctx, "Meeting Scribe stopped")
}

// newCompleter picks the summarization backend named in the config.
func newCompleter(ctx context.Context, cfg *config.Config, log logger.Logger) (summarizer.Completer, error) {
	sc := cfg.Summarization
	switch sc.Provider {
	case "gemini":
		if len(sc.APIKeys) == 0 {
			return nil, fmt.Errorf("gemini requires at least one API key")
		}
		return geminiclient.New(sc.APIKeys, sc.Model, log), nil
	case "ollama":
		return ollamaclient.New(ctx, sc.Hosts, sc.Model, log), nil
	default:
		var key string
		if len(sc.APIKeys) > 0 {
			key = sc.APIKeys[0]
		}
		return openaiclient.NewCompleter(openaiclient.Config{
			APIKey:     key,
			BaseURL:    sc.BaseURL,
			Model:      sc.Model,
			MaxRetries: providerRetries,
		}, log), nil
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Inbox,
		cfg.Paths.Output,
		cfg.Paths.Temp,
	}

	if cfg.Paths.ArchiveDB != "" {
		dirs = append(dirs, filepath.Dir(cfg.Paths.ArchiveDB))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
