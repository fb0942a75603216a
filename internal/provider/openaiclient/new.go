package openaiclient

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
	"github.com/nguyentantai21042004/meeting-scribe/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-scribe/internal/transcription"
)

const defaultTranscriptionModel = "whisper-1"

type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Transcription only.
	Language string
	Prompt   string

	MaxRetries int
}

type implClient struct {
	client openai.Client
	cfg    Config
	logger logger.Logger
}

func newClient(cfg Config, log logger.Logger) *implClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))

	return &implClient{
		client: openai.NewClient(opts...),
		cfg:    cfg,
		logger: log,
	}
}

// NewTranscriber creates a Whisper backed Transcriber.
func NewTranscriber(cfg Config, log logger.Logger) transcription.Transcriber {
	if cfg.Model == "" {
		cfg.Model = defaultTranscriptionModel
	}
	return newClient(cfg, log)
}

// NewCompleter creates a chat completion backed summarizer.Completer.
func NewCompleter(cfg Config, log logger.Logger) summarizer.Completer {
	return newClient(cfg, log)
}
