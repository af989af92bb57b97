// Package tts provides provider-agnostic text-to-speech orchestration for
// language-learning audio: text segmentation, batching, pair stitching, and
// deterministic output naming. Actual synthesis is delegated to a Provider.
package tts

import (
	"fmt"
	"strings"
)

// DefaultRate is the default speech rate as a percentage of normal speed.
// Language learners generally want slightly slower than natural delivery.
const DefaultRate = 90

// SynthesisRequest describes one utterance to synthesize. Construct with
// NewRequest to pick up the default rate; a zero Rate is treated as
// DefaultRate by providers.
type SynthesisRequest struct {
	// Text is the source text. Providers may reject empty text.
	Text string

	// Voice is a provider-specific voice name or raw vendor ID.
	Voice string

	// Language is an optional ISO 639-1 hint (two ASCII letters).
	Language string

	// Rate is a percentage speech-rate multiplier (100 = normal speed).
	Rate int

	// Expressive delivery parameters, meaningful only to capability-rich
	// providers. Nil means "use provider default". Providers that cannot
	// honor them must ignore them without error.
	Stability    *float64
	Similarity   *float64
	Style        *float64
	SpeakerBoost *bool
}

// NewRequest returns a SynthesisRequest for text and voice with the
// default speech rate.
func NewRequest(text, voice string) SynthesisRequest {
	return SynthesisRequest{
		Text:  text,
		Voice: voice,
		Rate:  DefaultRate,
	}
}

// SynthesisResult describes one produced audio file.
type SynthesisResult struct {
	// Path is the location of the audio file.
	Path string

	// Text is the logical text represented. For a pair both texts are
	// joined with " | ".
	Text string

	// VoiceName is the canonical resolved voice actually used, a
	// "voice1+voice2" composite for pairs, or "mixed" for merged pair
	// batches.
	VoiceName string

	// Language is the echoed or inferred language, if known.
	Language string
}

// Pair is an ordered pair of synthesis requests, stitched first-then-second.
type Pair struct {
	First  SynthesisRequest
	Second SynthesisRequest
}

// MergeStrategy selects how batch operations combine their outputs.
type MergeStrategy int

const (
	// SeparateFiles produces one output file per logical input.
	SeparateFiles MergeStrategy = iota

	// SingleMergedFile concatenates all inputs into one output file with
	// silence between segments.
	SingleMergedFile
)

// String implements fmt.Stringer.
func (s MergeStrategy) String() string {
	switch s {
	case SeparateFiles:
		return "separate"
	case SingleMergedFile:
		return "single"
	default:
		return fmt.Sprintf("MergeStrategy(%d)", int(s))
	}
}

// ParseMergeStrategy parses "separate" or "single".
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch strings.ToLower(s) {
	case "separate":
		return SeparateFiles, nil
	case "single":
		return SingleMergedFile, nil
	default:
		return SeparateFiles, fmt.Errorf("invalid merge strategy %q: must be \"separate\" or \"single\"", s)
	}
}

// HealthCheck is one diagnostic result reported by a provider.
type HealthCheck struct {
	Passed   bool
	Message  string
	Required bool
}

// VoiceInfo describes one entry of a provider's voice catalog.
type VoiceInfo struct {
	// Name is the canonical voice name.
	Name string

	// Language is the voice's language code (e.g. "en-US"), empty when
	// the provider has no per-voice language metadata.
	Language string
}
