package tts

import "context"

// Provider is the uniform boundary over a vendor TTS backend. Adapters
// translate generic requests into vendor calls, normalize vendor errors
// into ProviderError, and chunk oversized text internally against their own
// character ceiling.
type Provider interface {
	// Name returns a short provider identifier (e.g. "polly").
	Name() string

	// DefaultVoice returns the canonical default voice name.
	DefaultVoice() string

	// Synthesize writes a single playable audio file to outputPath,
	// creating parent directories as needed, and returns metadata.
	Synthesize(ctx context.Context, req SynthesisRequest, outputPath string) (SynthesisResult, error)

	// ResolveVoice resolves name case-insensitively against the cached
	// voice catalog, lazily fetching the full catalog on miss. A non-empty
	// language that the resolved voice does not support is a
	// LanguageMismatchError; an unresolvable name is an UnknownVoiceError.
	ResolveVoice(ctx context.Context, name, language string) (string, error)

	// CheckHealth reports diagnostic checks for external tooling. It is
	// never consulted by the orchestrator.
	CheckHealth(ctx context.Context) []HealthCheck
}

// VoiceLister is implemented by providers whose voice catalog can be
// enumerated. A non-empty language filters to voices supporting it.
type VoiceLister interface {
	ListVoices(ctx context.Context, language string) ([]VoiceInfo, error)
}

// Stitcher concatenates ordered audio segments into one output file, with
// pauseMs milliseconds of silence between adjacent segments (not before the
// first or after the last).
type Stitcher interface {
	Stitch(ctx context.Context, segments []string, outputPath string, pauseMs int) error
}
