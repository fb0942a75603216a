package geminiclient

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/summarizer"
)

func newTestCompleter(keys []string, gen generateFunc) *implCompleter {
	c := New(keys, "", logger.NewNop()).(*implCompleter)
	c.generate = gen
	return c
}

var testMessages = []summarizer.Message{
	{Role: summarizer.RoleSystem, Content: "be brief"},
	{Role: summarizer.RoleUser, Content: "long text"},
}

func TestCompleteRequest(t *testing.T) {
	temp := 0.5
	var gotModel, gotSystem, gotUser string
	var gotTemp float32
	c := newTestCompleter([]string{"k1"}, func(ctx context.Context, key, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		gotModel = model
		gotSystem = cfg.SystemInstruction.Parts[0].Text
		gotUser = contents[0].Parts[0].Text
		gotTemp = *cfg.Temperature
		return "summary", nil
	})

	out, err := c.Complete(context.Background(), testMessages, summarizer.Options{Temperature: &temp})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "summary" {
		t.Errorf("Complete() = %q", out)
	}
	if gotModel != defaultModel || gotSystem != "be brief" || gotUser != "long text" || gotTemp != 0.5 {
		t.Errorf("request = %q %q %q %v", gotModel, gotSystem, gotUser, gotTemp)
	}
}

func TestCompleteRotatesOnRateLimit(t *testing.T) {
	var keys []string
	c := newTestCompleter([]string{"k1", "k2"}, func(ctx context.Context, key, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		keys = append(keys, key)
		if key == "k1" {
			return "", errors.New("Error 429, RESOURCE_EXHAUSTED")
		}
		return "ok", nil
	})

	out, err := c.Complete(context.Background(), testMessages, summarizer.Options{})
	if err != nil || out != "ok" {
		t.Fatalf("Complete() = %q, %v", out, err)
	}
	if len(keys) != 2 || keys[1] != "k2" {
		t.Errorf("keys tried = %v, want [k1 k2]", keys)
	}
	if c.currentKey != 1 {
		t.Errorf("currentKey = %d, want 1", c.currentKey)
	}
}

func TestCompleteAllKeysExhausted(t *testing.T) {
	calls := 0
	c := newTestCompleter([]string{"k1", "k2", "k3"}, func(ctx context.Context, key, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		calls++
		return "", errors.New("quota exceeded")
	})

	if _, err := c.Complete(context.Background(), testMessages, summarizer.Options{}); err == nil {
		t.Fatal("Complete() should fail when every key is rate limited")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want one per key", calls)
	}
}

func TestCompleteOtherErrorStops(t *testing.T) {
	calls := 0
	c := newTestCompleter([]string{"k1", "k2"}, func(ctx context.Context, key, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		calls++
		return "", errors.New("invalid argument")
	})

	if _, err := c.Complete(context.Background(), testMessages, summarizer.Options{}); err == nil {
		t.Fatal("Complete() should fail")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCompleteNoKeys(t *testing.T) {
	c := New(nil, "", logger.NewNop())
	if _, err := c.Complete(context.Background(), testMessages, summarizer.Options{}); !errors.Is(err, ErrNoAPIKeys) {
		t.Errorf("Complete() error = %v, want ErrNoAPIKeys", err)
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		err  string
		want bool
	}{
		{"Error 429: too many requests", true},
		{"quota exceeded for project", true},
		{"RESOURCE_EXHAUSTED", true},
		{"invalid argument", false},
	}
	for _, tt := range tests {
		if got := isRateLimited(errors.New(tt.err)); got != tt.want {
			t.Errorf("isRateLimited(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
