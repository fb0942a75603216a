package logger

import (
	"context"
	"testing"
)

func TestNewWithFormat(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"console debug", "debug", "console"},
		{"console default level", "", ""},
		{"json info", "info", "json"},
		{"json upper case", "WARN", "JSON"},
		{"unknown level", "verbose", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewWithFormat(tt.level, tt.format)
			if log == nil {
				t.Fatal("NewWithFormat() returned nil")
			}
			// must not panic with or without args
			log.Info(context.Background(), "session %s: %d chunks", "s1", 3)
			log.Debug(context.Background(), "plain message")
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"INFO", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"", "info"},
		{"trace", "info"},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestShouldLog(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    string
		want        bool
	}{
		{"debug enabled at debug", "debug", "debug", true},
		{"info enabled at debug", "debug", "info", true},
		{"debug filtered at info", "info", "debug", false},
		{"warn filtered at error", "error", "warn", false},
		{"error enabled at warn", "warn", "error", true},
		{"unknown config level means info", "bogus", "debug", false},
		{"unknown message level passes", "error", "custom", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.configLevel).(*implLogger)
			if got := log.shouldLog(tt.logLevel); got != tt.want {
				t.Errorf("shouldLog(%q) = %v, want %v", tt.logLevel, got, tt.want)
			}
		})
	}
}

func TestNopDiscardsBelowError(t *testing.T) {
	log := NewNop().(*implLogger)
	if log.shouldLog("warn") {
		t.Error("Nop logger should filter warn")
	}
	log.Error(context.Background(), "discarded: %v", "boom")
}
