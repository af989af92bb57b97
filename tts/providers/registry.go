// Package providers wires named provider adapters to their constructors.
package providers

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/langlearn/langlearn-tts/tts"
	"github.com/langlearn/langlearn-tts/tts/providers/elevenlabs"
	"github.com/langlearn/langlearn-tts/tts/providers/openai"
	"github.com/langlearn/langlearn-tts/tts/providers/polly"
)

// ProviderEnv overrides provider auto-detection when set.
const ProviderEnv = "LANGLEARN_TTS_PROVIDER"

// Factory builds a provider from the loaded configuration.
type Factory func(ctx context.Context, cfg tts.Config) (tts.Provider, error)

var factories = map[string]Factory{
	"polly": func(ctx context.Context, cfg tts.Config) (tts.Provider, error) {
		return polly.New(ctx, cfg.Polly)
	},
	"openai": func(_ context.Context, cfg tts.Config) (tts.Provider, error) {
		return openai.New(cfg.OpenAI), nil
	},
	"elevenlabs": func(_ context.Context, cfg tts.Config) (tts.Provider, error) {
		return elevenlabs.New(cfg.ElevenLabs), nil
	},
}

// DefaultVoices maps each provider to the voice used when none is
// configured.
var DefaultVoices = map[string]string{
	"polly":      "joanna",
	"openai":     "nova",
	"elevenlabs": "rachel",
}

// Get builds the named provider.
func Get(ctx context.Context, name string, cfg tts.Config) (tts.Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q. Available: %s", name, tts.FormatVoiceHint(Names(), len(factories)))
	}
	return factory(ctx, cfg)
}

// Names returns the registered provider names, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect picks the provider to use. Order: explicit configuration, the
// LANGLEARN_TTS_PROVIDER environment variable, then key-based guessing
// with Polly as the fallback.
func Detect(cfg tts.Config) string {
	if cfg.Provider != "" {
		return cfg.Provider
	}
	if name := os.Getenv(ProviderEnv); name != "" {
		return name
	}
	if os.Getenv("ELEVENLABS_API_KEY") != "" {
		return "elevenlabs"
	}
	return "polly"
}
