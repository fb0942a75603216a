package transcription

import (
	"context"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

// Result is the text of one audio chunk plus its time-coded segments, in
// seconds relative to the start of the chunk.
type Result struct {
	Text     string
	Segments []queue.Segment
}

// Transcriber turns one audio chunk into text. Implementations fail when the
// response carries no text at all.
type Transcriber interface {
	Transcribe(ctx context.Context, audio queue.Payload) (Result, error)
}
