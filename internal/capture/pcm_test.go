package capture

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEncodeWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	out := encodeWAV(pcm, PCMFormat{SampleRate: 16000, Channels: 1, BitsPerSample: 16})

	if len(out) != wavHeaderSize+len(pcm) {
		t.Fatalf("len = %d, want %d", len(out), wavHeaderSize+len(pcm))
	}
	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" || string(out[36:40]) != "data" {
		t.Error("missing RIFF/WAVE/data markers")
	}
	if got := binary.LittleEndian.Uint32(out[24:28]); got != 16000 {
		t.Errorf("sample rate = %d, want 16000", got)
	}
	if got := binary.LittleEndian.Uint32(out[28:32]); got != 32000 {
		t.Errorf("byte rate = %d, want 32000", got)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 4 {
		t.Errorf("data size = %d, want 4", got)
	}
	if string(out[44:]) != string(pcm) {
		t.Error("PCM data should follow the header unchanged")
	}
}

func TestPCMSourceUnits(t *testing.T) {
	pr, pw := io.Pipe()
	src := NewPCMSource(pr, PCMFormat{SampleRate: 8000, Channels: 1}, 1, logger.NewNop())
	ctx := context.Background()

	unit, err := src.Open(ctx)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, err := pw.Write([]byte{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return src.Buffered() == 6 })

	p, err := unit.Close()
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if p.ContentType != "audio/wav" || len(p.Data) != wavHeaderSize+6 {
		t.Errorf("payload = %s with %d bytes", p.ContentType, len(p.Data))
	}

	// nothing captured since the last unit
	next, err := src.Open(ctx)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := next.Close(); !errors.Is(err, ErrEmptyUnit) {
		t.Errorf("Close() error = %v, want ErrEmptyUnit", err)
	}

	pw.Close()
	waitFor(t, func() bool {
		_, err := src.Open(ctx)
		return errors.Is(err, queue.ErrStreamUnavailable)
	})
}

func TestPCMSourceKeepsTailAfterEOF(t *testing.T) {
	pr, pw := io.Pipe()
	src := NewPCMSource(pr, PCMFormat{SampleRate: 8000, Channels: 1}, 1, logger.NewNop())

	unit, err := src.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		pw.Write([]byte{9, 9})
		pw.Close()
	}()
	waitFor(t, func() bool { return src.Buffered() == 2 })

	p, err := unit.Close()
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(p.Data) != wavHeaderSize+2 {
		t.Errorf("payload = %d bytes, want the buffered tail", len(p.Data))
	}
}

func TestPCMSourceKeepsWholeFrames(t *testing.T) {
	tests := []struct {
		name      string
		format    PCMFormat
		seconds   int
		first     []byte
		wantFirst []byte
		second    []byte
		wantNext  []byte
	}{
		{
			name:      "odd read carries the partial sample",
			format:    PCMFormat{SampleRate: 8000, Channels: 1, BitsPerSample: 16},
			seconds:   1,
			first:     []byte{1, 2, 3},
			wantFirst: []byte{1, 2},
			second:    []byte{4},
			wantNext:  []byte{3, 4},
		},
		{
			name:      "overflow drops whole frames",
			format:    PCMFormat{SampleRate: 1, Channels: 1, BitsPerSample: 16},
			seconds:   2,
			first:     []byte{1, 2, 3, 4, 5, 6, 7},
			wantFirst: []byte{1, 2, 3, 4},
			second:    []byte{8},
			wantNext:  []byte{7, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr, pw := io.Pipe()
			defer pw.Close()
			src := NewPCMSource(pr, tt.format, tt.seconds, logger.NewNop())
			ctx := context.Background()

			unit, err := src.Open(ctx)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if _, err := pw.Write(tt.first); err != nil {
				t.Fatal(err)
			}
			waitFor(t, func() bool { return src.Buffered() == len(tt.wantFirst) })

			p, err := unit.Close()
			if err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if got := p.Data[wavHeaderSize:]; string(got) != string(tt.wantFirst) {
				t.Errorf("first unit = %v, want %v", got, tt.wantFirst)
			}

			next, err := src.Open(ctx)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if _, err := pw.Write(tt.second); err != nil {
				t.Fatal(err)
			}
			waitFor(t, func() bool { return src.Buffered() == len(tt.wantNext) })

			p, err = next.Close()
			if err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if got := p.Data[wavHeaderSize:]; string(got) != string(tt.wantNext) {
				t.Errorf("next unit = %v, want %v", got, tt.wantNext)
			}
		})
	}
}
