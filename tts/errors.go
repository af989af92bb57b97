package tts

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports a malformed request, detected before any vendor
// call is issued. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnknownVoiceError reports a voice name that could not be resolved even
// after fetching the provider's full catalog.
type UnknownVoiceError struct {
	Voice string
	// Known holds the catalog's voice names; the message shows a
	// truncated hint, not the full list.
	Known []string
}

// Error implements the error interface.
func (e *UnknownVoiceError) Error() string {
	return fmt.Sprintf("unknown voice %q. Available: %s", e.Voice, FormatVoiceHint(e.Known, 10))
}

// LanguageMismatchError reports an explicit language hint that is
// incompatible with the resolved voice.
type LanguageMismatchError struct {
	Voice     string
	Requested string
	Supported string
}

// Error implements the error interface.
func (e *LanguageMismatchError) Error() string {
	return fmt.Sprintf("voice %q does not support language %q (supports %q)",
		e.Voice, e.Requested, e.Supported)
}

// ProviderError wraps a vendor API failure (authentication, quota, network,
// malformed response). Adapters normalize all vendor SDK errors into this
// type before they reach the orchestrator; the core never retries.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying vendor error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// FormatVoiceHint formats a bounded, sorted sample of voice names for error
// messages.
func FormatVoiceHint(names []string, limit int) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	sample := sorted
	if len(sorted) > limit {
		sample = sorted[:limit]
	}
	hint := strings.Join(sample, ", ")
	if len(sorted) > limit {
		hint += fmt.Sprintf(" ... (%d total)", len(sorted))
	}
	return hint
}
