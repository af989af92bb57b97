// Package openai implements the OpenAI speech provider adapter.
package openai

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/langlearn/langlearn-tts/tts"
	"github.com/langlearn/langlearn-tts/tts/audio"
)

const (
	providerName = "openai"
	defaultVoice = "nova"

	// maxChars is the OpenAI speech endpoint's input ceiling.
	maxChars = 4096
)

// voices is the fixed catalog of the speech endpoint. OpenAI voices are
// multilingual, so no per-voice language is tracked.
var voices = map[string]goopenai.SpeechVoice{
	"alloy":   goopenai.VoiceAlloy,
	"ash":     goopenai.VoiceAsh,
	"coral":   goopenai.VoiceCoral,
	"echo":    goopenai.VoiceEcho,
	"fable":   goopenai.VoiceFable,
	"nova":    goopenai.VoiceNova,
	"onyx":    goopenai.VoiceOnyx,
	"sage":    goopenai.SpeechVoice("sage"),
	"shimmer": goopenai.VoiceShimmer,
}

// speechAPI is the slice of the OpenAI client the adapter calls, narrowed
// for test doubles.
type speechAPI interface {
	CreateSpeech(ctx context.Context, req goopenai.CreateSpeechRequest) (goopenai.RawResponse, error)
	ListModels(ctx context.Context) (goopenai.ModelsList, error)
}

// Provider is the OpenAI adapter.
type Provider struct {
	client   speechAPI
	stitcher tts.Stitcher
	model    string
	hasKey   bool
}

// New creates a Provider from the given configuration.
func New(cfg tts.OpenAIConfig) *Provider {
	var client speechAPI
	if cfg.APIKey != "" {
		client = goopenai.NewClient(cfg.APIKey)
	}
	return &Provider{
		client:   client,
		stitcher: audio.New(),
		model:    cfg.Model,
		hasKey:   cfg.APIKey != "",
	}
}

// NewWithClient creates a Provider with an injected client, for tests.
func NewWithClient(client speechAPI, stitcher tts.Stitcher, model string) *Provider {
	return &Provider{client: client, stitcher: stitcher, model: model, hasKey: true}
}

// Name implements tts.Provider.
func (p *Provider) Name() string { return providerName }

// DefaultVoice implements tts.Provider.
func (p *Provider) DefaultVoice() string { return defaultVoice }

// Synthesize implements tts.Provider. The expressive voice settings in the
// request have no OpenAI equivalent and are ignored.
func (p *Provider) Synthesize(ctx context.Context, req tts.SynthesisRequest, outputPath string) (tts.SynthesisResult, error) {
	if !p.hasKey {
		return tts.SynthesisResult{}, &tts.ProviderError{
			Provider: providerName,
			Op:       "synthesize speech",
			Err:      fmt.Errorf("OPENAI_API_KEY is not set"),
		}
	}

	voice, ok := voices[strings.ToLower(req.Voice)]
	if !ok {
		return tts.SynthesisResult{}, &tts.UnknownVoiceError{Voice: req.Voice, Known: voiceNames()}
	}

	if req.Stability != nil || req.Similarity != nil || req.Style != nil || req.SpeakerBoost != nil {
		log.Debug("expressive voice settings are not supported, ignoring", "provider", providerName)
	}

	rate := req.Rate
	if rate == 0 {
		rate = tts.DefaultRate
	}

	chunks := tts.SplitText(req.Text, maxChars)
	if len(chunks) == 1 {
		if err := p.synthesizeChunk(ctx, chunks[0], rate, voice, outputPath); err != nil {
			return tts.SynthesisResult{}, err
		}
	} else {
		log.Debug("chunking oversized text", "provider", providerName, "chunks", len(chunks))
		if err := p.synthesizeChunked(ctx, chunks, rate, voice, outputPath); err != nil {
			return tts.SynthesisResult{}, err
		}
	}

	return tts.SynthesisResult{
		Path:      outputPath,
		Text:      req.Text,
		VoiceName: string(voice),
		Language:  req.Language,
	}, nil
}

func (p *Provider) synthesizeChunked(ctx context.Context, chunks []string, rate int, voice goopenai.SpeechVoice, outputPath string) error {
	scratch, err := os.MkdirTemp("", "openai-chunks-")
	if err != nil {
		return fmt.Errorf("unable to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	paths := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		path := filepath.Join(scratch, fmt.Sprintf("chunk_%04d%s", i, tts.AudioExt))
		if err := p.synthesizeChunk(ctx, chunk, rate, voice, path); err != nil {
			return err
		}
		paths = append(paths, path)
	}
	return p.stitcher.Stitch(ctx, paths, outputPath, 0)
}

func (p *Provider) synthesizeChunk(ctx context.Context, text string, rate int, voice goopenai.SpeechVoice, outputPath string) error {
	log.Debug("synthesizing", "provider", providerName, "voice", voice, "chars", len(text))

	resp, err := p.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(p.model),
		Input:          text,
		Voice:          voice,
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
		Speed:          speed(rate),
	})
	if err != nil {
		return &tts.ProviderError{Provider: providerName, Op: "synthesize speech", Err: err}
	}
	defer resp.Close()

	return writeStream(resp, outputPath)
}

// ResolveVoice implements tts.Provider.
func (p *Provider) ResolveVoice(_ context.Context, name, _ string) (string, error) {
	voice, ok := voices[strings.ToLower(name)]
	if !ok {
		return "", &tts.UnknownVoiceError{Voice: name, Known: voiceNames()}
	}
	return string(voice), nil
}

// ListVoices implements tts.VoiceLister. The language filter is ignored:
// every OpenAI voice speaks every supported language.
func (p *Provider) ListVoices(_ context.Context, _ string) ([]tts.VoiceInfo, error) {
	infos := make([]tts.VoiceInfo, 0, len(voices))
	for name := range voices {
		infos = append(infos, tts.VoiceInfo{Name: name})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// CheckHealth implements tts.Provider.
func (p *Provider) CheckHealth(ctx context.Context) []tts.HealthCheck {
	if !p.hasKey {
		return []tts.HealthCheck{{
			Passed:   false,
			Message:  "OPENAI_API_KEY is not set",
			Required: true,
		}}
	}

	checks := []tts.HealthCheck{{Passed: true, Message: "OPENAI_API_KEY is set", Required: true}}
	if _, err := p.client.ListModels(ctx); err != nil {
		checks = append(checks, tts.HealthCheck{
			Passed:   false,
			Message:  fmt.Sprintf("OpenAI API access: %v", err),
			Required: true,
		})
	} else {
		checks = append(checks, tts.HealthCheck{Passed: true, Message: "OpenAI API access", Required: true})
	}
	return checks
}

// speed converts a percentage speech rate to OpenAI's multiplier, clamped
// to the endpoint's accepted range.
func speed(rate int) float64 {
	s := float64(rate) / 100
	if s < 0.25 {
		return 0.25
	}
	if s > 4.0 {
		return 4.0
	}
	return s
}

func voiceNames() []string {
	names := make([]string, 0, len(voices))
	for name := range voices {
		names = append(names, name)
	}
	return names
}

func writeStream(r io.Reader, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("unable to write audio: %w", err)
	}
	return nil
}

var _ tts.Provider = (*Provider)(nil)
var _ tts.VoiceLister = (*Provider)(nil)
