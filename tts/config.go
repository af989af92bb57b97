package tts

import (
	"fmt"
	"strings"
)

// Config holds all synthesis configuration. Values come from the config
// file (viper) with environment-variable overrides applied via the env
// tags; CLI flags override both.
type Config struct {
	// Provider selects the TTS backend ("polly", "openai", "elevenlabs").
	// Empty means auto-detect from the environment.
	Provider string `yaml:"provider" env:"LANGLEARN_TTS_PROVIDER"`

	// Voice overrides the provider's default voice.
	Voice string `yaml:"voice" env:"LANGLEARN_TTS_VOICE"`

	// Rate is the default speech rate percentage (100 = normal).
	Rate int `yaml:"rate" env:"LANGLEARN_TTS_RATE" envDefault:"90"`

	// PauseMs is the default silence between stitched segments.
	PauseMs int `yaml:"pause_ms" env:"LANGLEARN_TTS_PAUSE_MS" envDefault:"500"`

	// OutputDir overrides the default output directory.
	OutputDir string `yaml:"output_dir" env:"LANGLEARN_TTS_OUTPUT_DIR"`

	OpenAI     OpenAIConfig     `yaml:"openai"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	Polly      PollyConfig      `yaml:"polly"`
}

// OpenAIConfig contains OpenAI provider settings. Credentials follow the
// standard OPENAI_API_KEY convention.
type OpenAIConfig struct {
	APIKey string `yaml:"-" env:"OPENAI_API_KEY"`
	Model  string `yaml:"model" env:"OPENAI_TTS_MODEL" envDefault:"tts-1"`
}

// ElevenLabsConfig contains ElevenLabs provider settings.
type ElevenLabsConfig struct {
	APIKey string `yaml:"-" env:"ELEVENLABS_API_KEY"`
	Model  string `yaml:"model" env:"ELEVENLABS_MODEL_ID" envDefault:"eleven_multilingual_v2"`

	// RequestsPerMinute throttles API calls; ElevenLabs enforces
	// per-plan concurrency limits.
	RequestsPerMinute int `yaml:"requests_per_minute" env:"ELEVENLABS_REQUESTS_PER_MINUTE" envDefault:"60"`
}

// PollyConfig contains AWS Polly provider settings. Credentials and region
// come from the standard AWS SDK default chain.
type PollyConfig struct {
	// SampleRate for synthesized MP3 output, in Hz.
	SampleRate int `yaml:"sample_rate" env:"LANGLEARN_TTS_POLLY_SAMPLE_RATE" envDefault:"22050"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Rate:    DefaultRate,
		PauseMs: 500,
		OpenAI: OpenAIConfig{
			Model: "tts-1",
		},
		ElevenLabs: ElevenLabsConfig{
			Model:             "eleven_multilingual_v2",
			RequestsPerMinute: 60,
		},
		Polly: PollyConfig{
			SampleRate: 22050,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider != "" {
		valid := []string{"polly", "openai", "elevenlabs"}
		ok := false
		for _, p := range valid {
			if strings.EqualFold(c.Provider, p) {
				c.Provider = strings.ToLower(c.Provider)
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("invalid provider %q: must be one of %v", c.Provider, valid)
		}
	}

	if c.Rate < 1 {
		return fmt.Errorf("rate must be positive, got %d", c.Rate)
	}

	if c.PauseMs < 0 {
		return fmt.Errorf("pause_ms must not be negative, got %d", c.PauseMs)
	}

	validSampleRates := []int{8000, 16000, 22050, 24000}
	ok := false
	for _, sr := range validSampleRates {
		if c.Polly.SampleRate == sr {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid polly sample rate %d: must be one of %v", c.Polly.SampleRate, validSampleRates)
	}

	if c.ElevenLabs.RequestsPerMinute < 1 {
		return fmt.Errorf("elevenlabs requests_per_minute must be positive, got %d", c.ElevenLabs.RequestsPerMinute)
	}

	return nil
}
