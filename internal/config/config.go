package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultSummaryPrompt = "Summarize the following text clearly and concisely."

	// 8000 tokens at roughly 2 characters per token.
	defaultMaxInputChars = 8000 * 2
	defaultTemperature   = 0.5
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Capture       CaptureConfig       `yaml:"capture"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Summarization SummarizationConfig `yaml:"summarization"`
	Paths         PathsConfig         `yaml:"paths"`
	Export        ExportConfig        `yaml:"export"`
	Logging       LoggingConfig       `yaml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"`
}

type CaptureConfig struct {
	ChunkDuration time.Duration `yaml:"chunk_duration"`
	FFmpegBinary  string        `yaml:"ffmpeg_binary"`
	InputFormat   string        `yaml:"input_format"`
	InputDevice   string        `yaml:"input_device"`
	SampleRate    int           `yaml:"sample_rate"`
	Channels      int           `yaml:"channels"`
}

type TranscriptionConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Language string `yaml:"language"`
	Prompt   string `yaml:"prompt"`
}

type SummarizationConfig struct {
	Provider      string   `yaml:"provider"`
	Model         string   `yaml:"model"`
	APIKeys       []string `yaml:"api_keys"`
	BaseURL       string   `yaml:"base_url"`
	Hosts         []string `yaml:"hosts"`
	Prompt        string   `yaml:"prompt"`
	Temperature   *float64 `yaml:"temperature"`
	MaxInputChars int      `yaml:"max_input_chars"`
	SplitSlack    int      `yaml:"split_slack"`
	MaxDepth      int      `yaml:"max_depth"`
}

type PathsConfig struct {
	Inbox       string        `yaml:"inbox"`
	InboxSettle time.Duration `yaml:"inbox_settle"`
	Output      string        `yaml:"output"`
	ArchiveDB   string        `yaml:"archive_db"`
	Temp        string        `yaml:"temp"`
}

type ExportConfig struct {
	Markdown bool `yaml:"markdown"`
	Docx     bool `yaml:"docx"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
	EventBuffer   int `yaml:"event_buffer"`
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Transcription.Provider) {
	case "", "openai":
		c.Transcription.Provider = "openai"
	default:
		return fmt.Errorf("transcription.provider %q is not supported", c.Transcription.Provider)
	}

	switch strings.ToLower(c.Summarization.Provider) {
	case "":
		c.Summarization.Provider = "openai"
	case "openai", "gemini", "ollama":
		c.Summarization.Provider = strings.ToLower(c.Summarization.Provider)
	default:
		return fmt.Errorf("summarization.provider %q is not supported", c.Summarization.Provider)
	}

	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Capture.ChunkDuration < 0 {
		return fmt.Errorf("capture.chunk_duration must be positive")
	}
	if c.Summarization.MaxInputChars < 0 {
		return fmt.Errorf("summarization.max_input_chars must be positive")
	}

	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8089"
	}
	if c.Capture.ChunkDuration == 0 {
		c.Capture.ChunkDuration = 30 * time.Second
	}
	if c.Capture.FFmpegBinary == "" {
		c.Capture.FFmpegBinary = "ffmpeg"
	}
	if c.Capture.SampleRate == 0 {
		c.Capture.SampleRate = 16000
	}
	if c.Capture.Channels == 0 {
		c.Capture.Channels = 1
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-1"
	}
	if c.Summarization.Model == "" {
		switch c.Summarization.Provider {
		case "gemini":
			c.Summarization.Model = "gemini-2.5-flash"
		case "ollama":
			c.Summarization.Model = "llama3:8b"
		default:
			c.Summarization.Model = "gpt-4"
		}
	}
	if c.Summarization.Prompt == "" {
		c.Summarization.Prompt = DefaultSummaryPrompt
	}
	if c.Summarization.Temperature == nil {
		t := defaultTemperature
		c.Summarization.Temperature = &t
	}
	if c.Summarization.MaxInputChars == 0 {
		c.Summarization.MaxInputChars = defaultMaxInputChars
	}
	if c.Summarization.SplitSlack == 0 {
		c.Summarization.SplitSlack = 500
	}
	if c.Summarization.MaxDepth == 0 {
		c.Summarization.MaxDepth = 8
	}
	if c.Summarization.Provider == "ollama" && len(c.Summarization.Hosts) == 0 {
		if c.Summarization.BaseURL != "" {
			c.Summarization.Hosts = []string{c.Summarization.BaseURL}
		} else {
			c.Summarization.Hosts = []string{"http://localhost:11434"}
		}
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.InboxSettle == 0 {
		c.Paths.InboxSettle = 2 * time.Second
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.EventBuffer == 0 {
		c.Performance.EventBuffer = 64
	}

	return nil
}
