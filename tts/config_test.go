package tts

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Rate != DefaultRate {
		t.Errorf("Rate = %d, want %d", cfg.Rate, DefaultRate)
	}
	if cfg.PauseMs != 500 {
		t.Errorf("PauseMs = %d, want 500", cfg.PauseMs)
	}
	if cfg.Provider != "" {
		t.Errorf("Provider = %q, want empty for auto-detect", cfg.Provider)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "empty provider is valid",
			mutate: func(*Config) {},
		},
		{
			name:   "known provider is valid",
			mutate: func(c *Config) { c.Provider = "openai" },
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider = "gcloud" },
			wantErr: "invalid provider",
		},
		{
			name:    "zero rate",
			mutate:  func(c *Config) { c.Rate = 0 },
			wantErr: "rate must be positive",
		},
		{
			name:    "negative pause",
			mutate:  func(c *Config) { c.PauseMs = -1 },
			wantErr: "pause_ms must not be negative",
		},
		{
			name:    "bad sample rate",
			mutate:  func(c *Config) { c.Polly.SampleRate = 44100 },
			wantErr: "invalid polly sample rate",
		},
		{
			name:    "zero requests per minute",
			mutate:  func(c *Config) { c.ElevenLabs.RequestsPerMinute = 0 },
			wantErr: "requests_per_minute must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateNormalizesProviderCase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "Polly"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.Provider != "polly" {
		t.Errorf("Provider = %q, want lowercased", cfg.Provider)
	}
}
