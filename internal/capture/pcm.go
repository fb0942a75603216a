package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/smallnest/ringbuffer"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

const pumpReadSize = 4096

// PCMSource buffers a live raw PCM reader and emits each unit as a WAV file.
// The buffer only ever holds whole frames, so units never split a sample.
// The stream is unavailable once the reader returns EOF or an error.
type PCMSource struct {
	reader io.Reader
	format PCMFormat
	align  int
	rb     *ringbuffer.RingBuffer
	logger logger.Logger

	once    sync.Once
	done    chan struct{}
	mu      sync.Mutex
	readErr error
}

// NewPCMSource creates a PCMSource buffering up to bufferSeconds of audio between units.
func NewPCMSource(r io.Reader, format PCMFormat, bufferSeconds int, log logger.Logger) *PCMSource {
	if format.BitsPerSample == 0 {
		format.BitsPerSample = 16
	}
	align := format.blockAlign()
	if align <= 0 {
		align = 1
	}
	size := format.bytesPerSecond() * bufferSeconds
	if size <= 0 {
		size = pumpReadSize
	}
	size -= size % align

	return &PCMSource{
		reader: r,
		format: format,
		align:  align,
		rb:     ringbuffer.New(size).SetBlocking(false),
		logger: log,
		done:   make(chan struct{}),
	}
}

// Open starts the reader pump on first use and begins a new unit.
func (s *PCMSource) Open(ctx context.Context) (Unit, error) {
	s.once.Do(func() { go s.pump(ctx) })

	select {
	case <-s.done:
		return nil, fmt.Errorf("%w: %v", queue.ErrStreamUnavailable, s.err())
	default:
	}

	return &pcmUnit{src: s}, nil
}

// Close is a no-op, the reader belongs to the caller.
func (s *PCMSource) Close() error { return nil }

// Buffered reports how many PCM bytes wait for the current unit.
func (s *PCMSource) Buffered() int {
	return s.rb.Length()
}

func (s *PCMSource) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr == nil {
		return io.EOF
	}
	return s.readErr
}

func (s *PCMSource) pump(ctx context.Context) {
	defer close(s.done)

	// a partial frame left by one read waits in front of the next
	buf := make([]byte, pumpReadSize+s.align)
	carry := 0
	for {
		n, err := s.reader.Read(buf[carry:])
		total := carry + n
		whole := total - total%s.align
		if whole > 0 {
			s.write(ctx, buf[:whole])
		}
		carry = copy(buf, buf[whole:total])
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.mu.Lock()
				s.readErr = err
				s.mu.Unlock()
			}
			s.logger.Info(ctx, "PCM stream ended: %v", err)
			return
		}
	}
}

// write stores the whole frames that fit and drops the rest.
func (s *PCMSource) write(ctx context.Context, frames []byte) {
	free := s.rb.Free()
	keep := min(len(frames), free-free%s.align)
	if keep > 0 {
		if w, err := s.rb.Write(frames[:keep]); err != nil {
			keep = w
		}
	}
	if keep < len(frames) {
		s.logger.Warn(ctx, "PCM buffer full, dropped %d bytes", len(frames)-keep)
	}
}

func (s *PCMSource) drain() []byte {
	n := s.rb.Length()
	n -= n % s.align
	if n == 0 {
		return nil
	}
	data := make([]byte, n)
	read, err := s.rb.Read(data)
	if err != nil && read == 0 {
		return nil
	}
	return data[:read]
}

type pcmUnit struct {
	src    *PCMSource
	closed bool
}

func (u *pcmUnit) Close() (queue.Payload, error) {
	if u.closed {
		return queue.Payload{}, ErrEmptyUnit
	}
	u.closed = true

	pcm := u.src.drain()
	if len(pcm) == 0 {
		return queue.Payload{}, ErrEmptyUnit
	}

	return queue.Payload{
		Data:        encodeWAV(pcm, u.src.format),
		ContentType: "audio/wav",
	}, nil
}
