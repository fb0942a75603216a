package capture

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
	"github.com/nguyentantai21042004/meeting-scribe/pkg/executor"
)

const ffmpegStopGrace = 3 * time.Second

// FFmpegConfig selects the capture device, e.g. Format "pulse" and Device "default".
type FFmpegConfig struct {
	Binary     string
	Format     string
	Device     string
	SampleRate int
	Channels   int
	// BufferSeconds bounds the audio held between two units.
	BufferSeconds int
}

// FFmpegSource records from a device through a long-lived ffmpeg process that
// writes raw PCM to stdout. The process starts on the first Open and lives
// until Close.
type FFmpegSource struct {
	cfg    FFmpegConfig
	exec   executor.Executor
	logger logger.Logger

	mu      sync.Mutex
	process *executor.Process
	pcm     *PCMSource
}

func NewFFmpegSource(cfg FFmpegConfig, exec executor.Executor, log logger.Logger) *FFmpegSource {
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.BufferSeconds == 0 {
		cfg.BufferSeconds = 120
	}
	return &FFmpegSource{cfg: cfg, exec: exec, logger: log}
}

func (s *FFmpegSource) Open(ctx context.Context) (Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pcm == nil {
		if err := s.start(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", queue.ErrStreamUnavailable, err)
		}
	}
	return s.pcm.Open(ctx)
}

func (s *FFmpegSource) start(ctx context.Context) error {
	if s.cfg.Device == "" {
		return fmt.Errorf("no capture device configured")
	}
	if _, err := s.exec.Execute(ctx, s.cfg.Binary, "-hide_banner", "-version"); err != nil {
		return fmt.Errorf("ffmpeg not usable: %w", err)
	}

	p, err := s.exec.Start(ctx, s.cfg.Binary, s.args()...)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Capturing %s:%s at %d Hz, %d ch", s.cfg.Format, s.cfg.Device, s.cfg.SampleRate, s.cfg.Channels)
	s.process = p
	s.pcm = NewPCMSource(p.Stdout, PCMFormat{
		SampleRate:    s.cfg.SampleRate,
		Channels:      s.cfg.Channels,
		BitsPerSample: 16,
	}, s.cfg.BufferSeconds, s.logger)
	return nil
}

func (s *FFmpegSource) args() []string {
	var args []string
	args = append(args, "-hide_banner", "-loglevel", "error")
	if s.cfg.Format != "" {
		args = append(args, "-f", s.cfg.Format)
	}
	args = append(args,
		"-i", s.cfg.Device,
		"-ac", strconv.Itoa(s.cfg.Channels),
		"-ar", strconv.Itoa(s.cfg.SampleRate),
		"-f", "s16le",
		"pipe:1",
	)
	return args
}

// Close stops ffmpeg. The next Open starts a fresh process.
func (s *FFmpegSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.process == nil {
		return nil
	}
	err := s.process.Stop(ffmpegStopGrace)
	s.process = nil
	s.pcm = nil
	return err
}
