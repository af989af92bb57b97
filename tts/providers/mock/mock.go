// Package mock provides an in-memory provider for tests.
package mock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/langlearn/langlearn-tts/tts"
)

// AudioBytes is the placeholder payload written for every synthesized file.
var AudioBytes = []byte("mock mp3 data")

// Provider records synthesis calls and writes placeholder audio. Safe for
// concurrent use.
type Provider struct {
	Voice    string
	FailWith error

	mu       sync.Mutex
	calls    []tts.SynthesisRequest
	resolves int
}

// New creates a mock provider with the given default voice.
func New(voice string) *Provider {
	if voice == "" {
		voice = "testvoice"
	}
	return &Provider{Voice: voice}
}

// Name implements tts.Provider.
func (p *Provider) Name() string { return "mock" }

// DefaultVoice implements tts.Provider.
func (p *Provider) DefaultVoice() string { return p.Voice }

// Synthesize implements tts.Provider.
func (p *Provider) Synthesize(_ context.Context, req tts.SynthesisRequest, outputPath string) (tts.SynthesisResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	fail := p.FailWith
	p.mu.Unlock()

	if fail != nil {
		return tts.SynthesisResult{}, fail
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return tts.SynthesisResult{}, err
		}
	}
	if err := os.WriteFile(outputPath, AudioBytes, 0o644); err != nil {
		return tts.SynthesisResult{}, err
	}

	voice := req.Voice
	if voice == "" {
		voice = p.Voice
	}
	return tts.SynthesisResult{
		Path:      outputPath,
		Text:      req.Text,
		VoiceName: strings.ToLower(voice),
		Language:  req.Language,
	}, nil
}

// ResolveVoice implements tts.Provider.
func (p *Provider) ResolveVoice(_ context.Context, name, _ string) (string, error) {
	p.mu.Lock()
	p.resolves++
	p.mu.Unlock()
	if name == "" {
		return p.Voice, nil
	}
	return strings.ToLower(name), nil
}

// CheckHealth implements tts.Provider.
func (p *Provider) CheckHealth(context.Context) []tts.HealthCheck {
	return []tts.HealthCheck{{Passed: true, Message: "mock provider ready", Required: true}}
}

// Calls returns a copy of every synthesis request received so far.
func (p *Provider) Calls() []tts.SynthesisRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]tts.SynthesisRequest, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallCount returns the number of synthesis requests received.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// Reset clears recorded calls.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
	p.resolves = 0
}

// Stitcher is a fake tts.Stitcher that concatenates segment bytes and
// records each call.
type Stitcher struct {
	FailWith error

	mu    sync.Mutex
	calls []StitchCall
}

// StitchCall records the arguments of one Stitch invocation.
type StitchCall struct {
	Segments []string
	Output   string
	PauseMs  int
}

// Stitch implements tts.Stitcher.
func (s *Stitcher) Stitch(_ context.Context, segments []string, outputPath string, pauseMs int) error {
	s.mu.Lock()
	s.calls = append(s.calls, StitchCall{
		Segments: append([]string(nil), segments...),
		Output:   outputPath,
		PauseMs:  pauseMs,
	})
	fail := s.FailWith
	s.mu.Unlock()

	if fail != nil {
		return fail
	}
	if len(segments) == 0 {
		return fmt.Errorf("no segments")
	}

	var joined []byte
	for _, seg := range segments {
		data, err := os.ReadFile(seg)
		if err != nil {
			return err
		}
		joined = append(joined, data...)
	}
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(outputPath, joined, 0o644)
}

// Calls returns a copy of every stitch call received so far.
func (s *Stitcher) Calls() []StitchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StitchCall, len(s.calls))
	copy(out, s.calls)
	return out
}

var _ tts.Provider = (*Provider)(nil)
var _ tts.Stitcher = (*Stitcher)(nil)
