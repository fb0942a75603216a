package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrDepthExceeded = errors.New("summary merge depth exceeded")
	ErrNoProgress    = errors.New("merged summaries are not shorter than their input")
)

const mergePromptFormat = "Concatenate the following summaries created by this prompt (keep the language and style of the original summaries): %s"

// MergePrompt derives the prompt used to merge summaries produced by prompt.
func MergePrompt(prompt string) string {
	return fmt.Sprintf(mergePromptFormat, prompt)
}

// Summarize returns one model call's output when text fits the input budget.
// Otherwise each segment is summarized in order and the joined summaries are
// summarized again with MergePrompt. Any failed call fails the whole summary.
func (s *implSummarizer) Summarize(ctx context.Context, text, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = s.cfg.DefaultPrompt
	}
	return s.summarize(ctx, text, prompt, 0)
}

func (s *implSummarizer) summarize(ctx context.Context, text, prompt string, depth int) (string, error) {
	if depth > s.cfg.MaxDepth {
		return "", fmt.Errorf("%w: %d", ErrDepthExceeded, s.cfg.MaxDepth)
	}

	size := utf8.RuneCountInString(text)
	if size <= s.cfg.MaxInputChars {
		return s.complete(ctx, text, prompt)
	}

	segments := splitText(text, s.cfg.MaxInputChars, s.cfg.SplitSlack)
	s.logger.Info(ctx, "Summarizing %d chars in %d segments (depth %d)", size, len(segments), depth)

	summaries := make([]string, 0, len(segments))
	for i, seg := range segments {
		out, err := s.complete(ctx, seg, prompt)
		if err != nil {
			return "", fmt.Errorf("segment %d/%d: %w", i+1, len(segments), err)
		}
		summaries = append(summaries, out)
	}

	if len(summaries) == 1 {
		return summaries[0], nil
	}

	merged := strings.Join(summaries, "\n\n")
	if utf8.RuneCountInString(merged) >= size {
		return "", fmt.Errorf("%w (%d >= %d chars)", ErrNoProgress, utf8.RuneCountInString(merged), size)
	}

	return s.summarize(ctx, merged, MergePrompt(prompt), depth+1)
}

func (s *implSummarizer) complete(ctx context.Context, text, prompt string) (string, error) {
	messages := []Message{
		{Role: RoleSystem, Content: prompt},
		{Role: RoleUser, Content: text},
	}

	out, err := s.completer.Complete(ctx, messages, s.cfg.Options)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return strings.TrimSpace(out), nil
}
