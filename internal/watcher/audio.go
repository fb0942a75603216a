package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extractAudio converts a video recording to 16kHz mono WAV, the format
// Whisper handles best.
func (w *implWatcher) extractAudio(ctx context.Context, videoPath string) (string, error) {
	if err := os.MkdirAll(w.cfg.TempDir, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(w.cfg.TempDir, base+"_16k.wav")

	w.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -vn: no video, -c:a pcm_s16le: uncompressed 16-bit
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}

	if _, err := w.executor.Execute(ctx, w.cfg.FFmpegBinary, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	w.logger.Info(ctx, "Audio extracted: %s", audioPath)
	return audioPath, nil
}
