package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Paths: PathsConfig{Output: "data/output"},
			},
			wantErr: false,
		},
		{
			name: "valid gemini config",
			config: Config{
				Summarization: SummarizationConfig{Provider: "Gemini"},
				Paths:         PathsConfig{Output: "data/output"},
			},
			wantErr: false,
		},
		{
			name:    "missing output path",
			config:  Config{},
			wantErr: true,
		},
		{
			name: "unknown summarization provider",
			config: Config{
				Summarization: SummarizationConfig{Provider: "bard"},
				Paths:         PathsConfig{Output: "data/output"},
			},
			wantErr: true,
		},
		{
			name: "unknown transcription provider",
			config: Config{
				Transcription: TranscriptionConfig{Provider: "cloudflare"},
				Paths:         PathsConfig{Output: "data/output"},
			},
			wantErr: true,
		},
		{
			name: "unknown server mode",
			config: Config{
				Server: ServerConfig{Mode: "production"},
				Paths:  PathsConfig{Output: "data/output"},
			},
			wantErr: true,
		},
		{
			name: "negative chunk duration",
			config: Config{
				Capture: CaptureConfig{ChunkDuration: -time.Second},
				Paths:   PathsConfig{Output: "data/output"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Paths: PathsConfig{Output: "out"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Capture.ChunkDuration != 30*time.Second {
		t.Errorf("ChunkDuration = %v, want %v", cfg.Capture.ChunkDuration, 30*time.Second)
	}
	if cfg.Summarization.MaxInputChars != 16000 {
		t.Errorf("MaxInputChars = %d, want %d", cfg.Summarization.MaxInputChars, 16000)
	}
	if cfg.Summarization.Prompt != DefaultSummaryPrompt {
		t.Errorf("Prompt = %q, want default", cfg.Summarization.Prompt)
	}
	if cfg.Summarization.Model != "gpt-4" {
		t.Errorf("Model = %q, want %q", cfg.Summarization.Model, "gpt-4")
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want %d", cfg.Performance.MaxConcurrent, 2)
	}
	if cfg.Server.Addr != ":8089" {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, ":8089")
	}
	if cfg.Summarization.Temperature == nil || *cfg.Summarization.Temperature != 0.5 {
		t.Errorf("Temperature = %v, want 0.5", cfg.Summarization.Temperature)
	}
	if cfg.Paths.InboxSettle != 2*time.Second {
		t.Errorf("InboxSettle = %v, want %v", cfg.Paths.InboxSettle, 2*time.Second)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `
capture:
  chunk_duration: "10s"
  input_format: "pulse"
  input_device: "default"

summarization:
  provider: "gemini"
  api_keys: ["k1", "k2"]
  max_input_chars: 4000

paths:
  inbox: "data/inbox"
  output: "data/output"

logging:
  level: "debug"
  format: "json"
`

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Capture.ChunkDuration != 10*time.Second {
		t.Errorf("ChunkDuration = %v, want %v", cfg.Capture.ChunkDuration, 10*time.Second)
	}
	if cfg.Summarization.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %v, want %v", cfg.Summarization.Model, "gemini-2.5-flash")
	}
	if len(cfg.Summarization.APIKeys) != 2 {
		t.Errorf("APIKeys = %v, want 2 keys", cfg.Summarization.APIKeys)
	}
	if cfg.Summarization.MaxInputChars != 4000 {
		t.Errorf("MaxInputChars = %d, want %d", cfg.Summarization.MaxInputChars, 4000)
	}
	if cfg.Paths.Inbox != "data/inbox" {
		t.Errorf("Inbox = %v, want %v", cfg.Paths.Inbox, "data/inbox")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("GEMINI_API_KEYS", " g1 , ,g2")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "summarization:\n  provider: gemini\npaths:\n  output: out\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Transcription.APIKey != "sk-env" {
		t.Errorf("Transcription.APIKey = %q, want %q", cfg.Transcription.APIKey, "sk-env")
	}
	if len(cfg.Summarization.APIKeys) != 2 || cfg.Summarization.APIKeys[1] != "g2" {
		t.Errorf("Summarization.APIKeys = %v, want [g1 g2]", cfg.Summarization.APIKeys)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadOllamaHosts(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://gpu-1:11434, http://gpu-2:11434")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "summarization:\n  provider: ollama\npaths:\n  output: out\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Summarization.Hosts) != 2 || cfg.Summarization.Hosts[1] != "http://gpu-2:11434" {
		t.Errorf("Hosts = %v, want two hosts from OLLAMA_HOST", cfg.Summarization.Hosts)
	}
	if cfg.Summarization.Model != "llama3:8b" {
		t.Errorf("Model = %q, want %q", cfg.Summarization.Model, "llama3:8b")
	}
}

func TestValidateOllamaDefaultHost(t *testing.T) {
	cfg := Config{
		Summarization: SummarizationConfig{Provider: "ollama"},
		Paths:         PathsConfig{Output: "out"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(cfg.Summarization.Hosts) != 1 || cfg.Summarization.Hosts[0] != "http://localhost:11434" {
		t.Errorf("Hosts = %v, want local default", cfg.Summarization.Hosts)
	}
}

func TestLoadTemperature(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want float64
	}{
		{name: "absent", yaml: "summarization:\n  provider: \"openai\"\n", want: 0.5},
		{name: "zero", yaml: "summarization:\n  temperature: 0\n", want: 0},
		{name: "set", yaml: "summarization:\n  temperature: 0.9\n", want: 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			content := tt.yaml + "paths:\n  output: \"out\"\n"
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Summarization.Temperature == nil || *cfg.Summarization.Temperature != tt.want {
				t.Errorf("Temperature = %v, want %v", cfg.Summarization.Temperature, tt.want)
			}
		})
	}
}
