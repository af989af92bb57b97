package tts

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// LoadConfig builds the effective configuration: defaults, overridden by
// the viper config file, overridden by environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	applyViper(&cfg)

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyViper(cfg *Config) {
	if viper.IsSet("provider") {
		cfg.Provider = viper.GetString("provider")
	}
	if viper.IsSet("voice") {
		cfg.Voice = viper.GetString("voice")
	}
	if viper.IsSet("rate") {
		cfg.Rate = viper.GetInt("rate")
	}
	if viper.IsSet("pause_ms") {
		cfg.PauseMs = viper.GetInt("pause_ms")
	}
	if viper.IsSet("output_dir") {
		cfg.OutputDir = viper.GetString("output_dir")
	}

	if viper.IsSet("openai.model") {
		cfg.OpenAI.Model = viper.GetString("openai.model")
	}
	if viper.IsSet("elevenlabs.model") {
		cfg.ElevenLabs.Model = viper.GetString("elevenlabs.model")
	}
	if viper.IsSet("elevenlabs.requests_per_minute") {
		cfg.ElevenLabs.RequestsPerMinute = viper.GetInt("elevenlabs.requests_per_minute")
	}
	if viper.IsSet("polly.sample_rate") {
		cfg.Polly.SampleRate = viper.GetInt("polly.sample_rate")
	}
}
