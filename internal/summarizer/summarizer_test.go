package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
)

type call struct {
	prompt string
	text   string
}

// fakeCompleter answers each call with reply(n) and records what it was asked.
type fakeCompleter struct {
	calls  []call
	reply  func(n int, c call) (string, error)
	failOn int
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	c := call{prompt: messages[0].Content, text: messages[1].Content}
	f.calls = append(f.calls, c)
	n := len(f.calls)
	if f.failOn == n {
		return "", errors.New("provider exploded")
	}
	return f.reply(n, c)
}

func TestSummarizeSingleCall(t *testing.T) {
	fake := &fakeCompleter{reply: func(n int, c call) (string, error) {
		return "  the summary \n", nil
	}}
	s := New(fake, Config{MaxInputChars: 100}, logger.NewNop())

	got, err := s.Summarize(context.Background(), "short text", "my prompt")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "the summary" {
		t.Errorf("Summarize() = %q, want %q", got, "the summary")
	}
	if len(fake.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(fake.calls))
	}
	if fake.calls[0].prompt != "my prompt" || fake.calls[0].text != "short text" {
		t.Errorf("call = %+v", fake.calls[0])
	}
}

func TestSummarizeDefaultPrompt(t *testing.T) {
	fake := &fakeCompleter{reply: func(n int, c call) (string, error) { return "ok", nil }}
	s := New(fake, Config{}, logger.NewNop())

	if _, err := s.Summarize(context.Background(), "text", " "); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if fake.calls[0].prompt != defaultPrompt {
		t.Errorf("prompt = %q, want default", fake.calls[0].prompt)
	}
}

func TestSummarizeThreeSegmentsOneMerge(t *testing.T) {
	text := strings.Repeat("a", 100) + strings.Repeat("b", 100) + strings.Repeat("c", 50)
	fake := &fakeCompleter{reply: func(n int, c call) (string, error) {
		if n <= 3 {
			return fmt.Sprintf("S%d:%c", n, c.text[0]), nil
		}
		return "FINAL(" + c.text + ")", nil
	}}
	s := New(fake, Config{MaxInputChars: 100, SplitSlack: 10}, logger.NewNop())

	got, err := s.Summarize(context.Background(), text, "P")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(fake.calls) != 4 {
		t.Fatalf("calls = %d, want 3 leaf + 1 merge", len(fake.calls))
	}
	for i := 0; i < 3; i++ {
		if fake.calls[i].prompt != "P" {
			t.Errorf("leaf %d prompt = %q, want %q", i, fake.calls[i].prompt, "P")
		}
	}
	merge := fake.calls[3]
	if merge.prompt != MergePrompt("P") {
		t.Errorf("merge prompt = %q", merge.prompt)
	}
	if merge.text != "S1:a\n\nS2:b\n\nS3:c" {
		t.Errorf("merge input = %q, want leaf summaries in order", merge.text)
	}
	if got != "FINAL(S1:a\n\nS2:b\n\nS3:c)" {
		t.Errorf("Summarize() = %q", got)
	}
}

func TestSummarizeRecursesUntilFits(t *testing.T) {
	// 4 summaries joined are 22 runes, over the budget of 20, so the merge
	// input is split and merged once more.
	text := strings.Repeat("x", 80)
	fake := &fakeCompleter{reply: func(n int, c call) (string, error) { return "summ", nil }}
	s := New(fake, Config{MaxInputChars: 20, SplitSlack: -1}, logger.NewNop())

	if _, err := s.Summarize(context.Background(), text, "P"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	last := fake.calls[len(fake.calls)-1]
	if last.prompt != MergePrompt(MergePrompt("P")) {
		t.Errorf("final prompt = %q, want a merge of merges", last.prompt)
	}
}

func TestSummarizeFailureAborts(t *testing.T) {
	text := strings.Repeat("a", 300)
	fake := &fakeCompleter{
		failOn: 2,
		reply:  func(n int, c call) (string, error) { return "s", nil },
	}
	s := New(fake, Config{MaxInputChars: 100, SplitSlack: -1}, logger.NewNop())

	got, err := s.Summarize(context.Background(), text, "P")
	if err == nil {
		t.Fatal("Summarize() should fail when a segment call fails")
	}
	if got != "" {
		t.Errorf("Summarize() = %q, want no partial summary", got)
	}
	if len(fake.calls) != 2 {
		t.Errorf("calls = %d, want to stop at the failing segment", len(fake.calls))
	}
}

func TestSummarizeNoProgress(t *testing.T) {
	text := strings.Repeat("a", 30)
	fake := &fakeCompleter{reply: func(n int, c call) (string, error) { return c.text + c.text, nil }}
	s := New(fake, Config{MaxInputChars: 10, SplitSlack: -1}, logger.NewNop())

	_, err := s.Summarize(context.Background(), text, "P")
	if !errors.Is(err, ErrNoProgress) {
		t.Errorf("Summarize() error = %v, want ErrNoProgress", err)
	}
}

func TestSummarizeDepthBound(t *testing.T) {
	text := strings.Repeat("a", 400)
	fake := &fakeCompleter{reply: func(n int, c call) (string, error) {
		return c.text[:len(c.text)/2], nil
	}}
	s := New(fake, Config{MaxInputChars: 10, SplitSlack: -1, MaxDepth: 2}, logger.NewNop())

	_, err := s.Summarize(context.Background(), text, "P")
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("Summarize() error = %v, want ErrDepthExceeded", err)
	}
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		size  int
		slack int
		want  []string
	}{
		{"fits", "hello", 10, 5, []string{"hello"}},
		{"hard cut", "aaaabbbbcc", 4, 0, []string{"aaaa", "bbbb", "cc"}},
		{"sentence boundary", "one two. three four. five", 5, 8, []string{"one two.", "three four.", "five"}},
		{"terminator beyond slack", "abcdefghij. k", 4, 2, []string{"abcd", "efgh", "ij.", "k"}},
		{"multibyte", "xin chào. tạm biệt", 9, 3, []string{"xin chào.", "tạm biệt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitText(tt.text, tt.size, tt.slack)
			if len(got) != len(tt.want) {
				t.Fatalf("splitText() = %q, want %q", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("splitText()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
