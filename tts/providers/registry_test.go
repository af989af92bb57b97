package providers

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/langlearn/langlearn-tts/tts"
)

func TestNames(t *testing.T) {
	want := []string{"elevenlabs", "openai", "polly"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestGetUnknownProvider(t *testing.T) {
	_, err := Get(context.Background(), "espeak", tts.DefaultConfig())
	if err == nil {
		t.Fatal("Get() should fail for an unknown provider")
	}
	if !strings.Contains(err.Error(), "espeak") {
		t.Errorf("Error() = %q, want the bad name echoed", err.Error())
	}
}

func TestGetOpenAI(t *testing.T) {
	cfg := tts.DefaultConfig()
	cfg.OpenAI.APIKey = "sk-test"

	p, err := Get(context.Background(), "openai", cfg)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Name() = %q", p.Name())
	}
	if p.DefaultVoice() != DefaultVoices["openai"] {
		t.Errorf("DefaultVoice() = %q, want %q", p.DefaultVoice(), DefaultVoices["openai"])
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      map[string]string
		want     string
	}{
		{
			name:     "explicit configuration wins",
			provider: "openai",
			env:      map[string]string{"ELEVENLABS_API_KEY": "xi-test"},
			want:     "openai",
		},
		{
			name: "env override",
			env:  map[string]string{ProviderEnv: "elevenlabs"},
			want: "elevenlabs",
		},
		{
			name: "elevenlabs key implies elevenlabs",
			env:  map[string]string{"ELEVENLABS_API_KEY": "xi-test"},
			want: "elevenlabs",
		},
		{
			name: "polly is the fallback",
			want: "polly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{ProviderEnv, "ELEVENLABS_API_KEY"} {
				t.Setenv(key, "")
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg := tts.DefaultConfig()
			cfg.Provider = tt.provider
			if got := Detect(cfg); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}
