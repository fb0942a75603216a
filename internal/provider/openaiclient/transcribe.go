package openaiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/tidwall/gjson"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
	"github.com/nguyentantai21042004/meeting-scribe/internal/transcription"
)

var (
	ErrNoText     = errors.New("transcription response has no text")
	ErrNoSegments = errors.New("transcription response has no segments")
)

// Transcribe uploads one chunk and reads the verbose JSON response.
func (c *implClient) Transcribe(ctx context.Context, audio queue.Payload) (transcription.Result, error) {
	contentType := audio.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(audio.Data), audio.Filename, contentType),
		Model:          openai.AudioModel(c.cfg.Model),
		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	}
	if c.cfg.Language != "" {
		params.Language = openai.String(c.cfg.Language)
	}
	if c.cfg.Prompt != "" {
		params.Prompt = openai.String(c.cfg.Prompt)
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return transcription.Result{}, fmt.Errorf("transcribe %s: %w", audio.Filename, err)
	}

	result, err := parseVerbose(resp.RawJSON())
	if err != nil {
		return transcription.Result{}, fmt.Errorf("transcribe %s: %w", audio.Filename, err)
	}

	c.logger.Debug(ctx, "Transcribed %s: %d chars, %d segments", audio.Filename, len(result.Text), len(result.Segments))
	return result, nil
}

func parseVerbose(raw string) (transcription.Result, error) {
	text := gjson.Get(raw, "text")
	if !text.Exists() {
		return transcription.Result{}, ErrNoText
	}

	segments := gjson.Get(raw, "segments")
	if !segments.IsArray() {
		return transcription.Result{}, ErrNoSegments
	}

	result := transcription.Result{Text: strings.TrimSpace(text.String())}
	segments.ForEach(func(_, seg gjson.Result) bool {
		result.Segments = append(result.Segments, queue.Segment{
			Start: seg.Get("start").Float(),
			End:   seg.Get("end").Float(),
			Text:  seg.Get("text").String(),
		})
		return true
	})

	return result, nil
}
