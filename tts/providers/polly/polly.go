// Package polly implements the AWS Polly provider adapter.
package polly

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awspolly "github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/charmbracelet/log"

	"github.com/langlearn/langlearn-tts/tts"
	"github.com/langlearn/langlearn-tts/tts/audio"
)

const (
	providerName = "polly"
	defaultVoice = "joanna"

	// maxChars is Polly's per-request ceiling on billed SSML characters.
	maxChars = 3000
)

// enginePreference orders Polly synthesis engines from best to worst
// perceived quality. A voice gets the best engine it supports.
var enginePreference = []pollytypes.Engine{
	pollytypes.EngineNeural,
	pollytypes.EngineGenerative,
	pollytypes.EngineLongForm,
	pollytypes.EngineStandard,
}

// api is the subset of the Polly client used by the adapter, narrowed for
// test doubles.
type api interface {
	SynthesizeSpeech(ctx context.Context, in *awspolly.SynthesizeSpeechInput, opts ...func(*awspolly.Options)) (*awspolly.SynthesizeSpeechOutput, error)
	DescribeVoices(ctx context.Context, in *awspolly.DescribeVoicesInput, opts ...func(*awspolly.Options)) (*awspolly.DescribeVoicesOutput, error)
}

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, opts ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// voiceConfig bundles a Polly voice ID with the parameters required to
// issue a synthesis call for it.
type voiceConfig struct {
	voiceID      pollytypes.VoiceId
	languageCode pollytypes.LanguageCode
	engine       pollytypes.Engine
}

// Provider is the AWS Polly adapter. The voice catalog is fetched lazily,
// at most once per instance, and entries are never overwritten after first
// registration.
type Provider struct {
	client     api
	stsClient  stsAPI
	stitcher   tts.Stitcher
	sampleRate int

	mu           sync.Mutex
	voices       map[string]voiceConfig
	voicesLoaded bool
}

// New creates a Provider using the AWS SDK default credential chain.
func New(ctx context.Context, cfg tts.PollyConfig) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, &tts.ProviderError{Provider: providerName, Op: "load aws config", Err: err}
	}
	return &Provider{
		client:     awspolly.NewFromConfig(awsCfg),
		stsClient:  sts.NewFromConfig(awsCfg),
		stitcher:   audio.New(),
		sampleRate: cfg.SampleRate,
		voices:     make(map[string]voiceConfig),
	}, nil
}

// NewWithClients creates a Provider with injected clients, for tests.
func NewWithClients(client api, stsClient stsAPI, stitcher tts.Stitcher) *Provider {
	return &Provider{
		client:     client,
		stsClient:  stsClient,
		stitcher:   stitcher,
		sampleRate: 22050,
		voices:     make(map[string]voiceConfig),
	}
}

// Name implements tts.Provider.
func (p *Provider) Name() string { return providerName }

// DefaultVoice implements tts.Provider.
func (p *Provider) DefaultVoice() string { return defaultVoice }

// Synthesize implements tts.Provider. Text beyond the Polly character
// ceiling is chunked at sentence boundaries, synthesized per chunk, and
// stitched back together with zero pause (one continuous utterance).
func (p *Provider) Synthesize(ctx context.Context, req tts.SynthesisRequest, outputPath string) (tts.SynthesisResult, error) {
	vc, err := p.resolveConfig(ctx, req.Voice, req.Language)
	if err != nil {
		return tts.SynthesisResult{}, err
	}

	rate := req.Rate
	if rate == 0 {
		rate = tts.DefaultRate
	}

	chunks := tts.SplitText(req.Text, maxChars)
	if len(chunks) == 1 {
		if err := p.synthesizeChunk(ctx, chunks[0], rate, vc, outputPath); err != nil {
			return tts.SynthesisResult{}, err
		}
	} else {
		log.Debug("chunking oversized text", "provider", providerName, "chunks", len(chunks))
		if err := p.synthesizeChunked(ctx, chunks, rate, vc, outputPath); err != nil {
			return tts.SynthesisResult{}, err
		}
	}

	language := req.Language
	if language == "" {
		language = isoPrefix(vc.languageCode)
	}
	return tts.SynthesisResult{
		Path:      outputPath,
		Text:      req.Text,
		VoiceName: string(vc.voiceID),
		Language:  language,
	}, nil
}

func (p *Provider) synthesizeChunked(ctx context.Context, chunks []string, rate int, vc voiceConfig, outputPath string) error {
	scratch, err := os.MkdirTemp("", "polly-chunks-")
	if err != nil {
		return fmt.Errorf("unable to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	paths := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		path := filepath.Join(scratch, fmt.Sprintf("chunk_%04d%s", i, tts.AudioExt))
		if err := p.synthesizeChunk(ctx, chunk, rate, vc, path); err != nil {
			return err
		}
		paths = append(paths, path)
	}
	return p.stitcher.Stitch(ctx, paths, outputPath, 0)
}

func (p *Provider) synthesizeChunk(ctx context.Context, text string, rate int, vc voiceConfig, outputPath string) error {
	ssml := fmt.Sprintf(`<speak><prosody rate="%d%%">%s</prosody></speak>`, rate, escapeText(text))
	log.Debug("synthesizing", "provider", providerName, "voice", vc.voiceID, "chars", len(text))

	out, err := p.client.SynthesizeSpeech(ctx, &awspolly.SynthesizeSpeechInput{
		Text:         aws.String(ssml),
		TextType:     pollytypes.TextTypeSsml,
		VoiceId:      vc.voiceID,
		LanguageCode: vc.languageCode,
		OutputFormat: pollytypes.OutputFormatMp3,
		Engine:       vc.engine,
		SampleRate:   aws.String(fmt.Sprintf("%d", p.sampleRate)),
	})
	if err != nil {
		return &tts.ProviderError{Provider: providerName, Op: "synthesize speech", Err: err}
	}
	defer out.AudioStream.Close()

	return writeStream(out.AudioStream, outputPath)
}

// ResolveVoice implements tts.Provider.
func (p *Provider) ResolveVoice(ctx context.Context, name, language string) (string, error) {
	vc, err := p.resolveConfig(ctx, name, language)
	if err != nil {
		return "", err
	}
	return string(vc.voiceID), nil
}

// resolveConfig resolves a voice name to its full configuration, fetching
// the catalog from the API on a cache miss.
func (p *Provider) resolveConfig(ctx context.Context, name, language string) (voiceConfig, error) {
	key := strings.ToLower(name)

	p.mu.Lock()
	defer p.mu.Unlock()

	vc, ok := p.voices[key]
	if !ok {
		if err := p.loadVoicesLocked(ctx); err != nil {
			return voiceConfig{}, err
		}
		vc, ok = p.voices[key]
	}
	if !ok {
		return voiceConfig{}, &tts.UnknownVoiceError{Voice: name, Known: p.voiceNamesLocked()}
	}

	if language != "" && !strings.HasPrefix(strings.ToLower(string(vc.languageCode)), strings.ToLower(language)) {
		return voiceConfig{}, &tts.LanguageMismatchError{
			Voice:     name,
			Requested: language,
			Supported: string(vc.languageCode),
		}
	}
	return vc, nil
}

// loadVoicesLocked fetches the full voice catalog, paginating through all
// DescribeVoices pages. Idempotent: at most one fetch per Provider
// instance. Caller holds p.mu.
func (p *Provider) loadVoicesLocked(ctx context.Context) error {
	if p.voicesLoaded {
		return nil
	}

	var next *string
	for {
		out, err := p.client.DescribeVoices(ctx, &awspolly.DescribeVoicesInput{NextToken: next})
		if err != nil {
			return &tts.ProviderError{Provider: providerName, Op: "describe voices", Err: err}
		}
		for _, v := range out.Voices {
			key := strings.ToLower(string(v.Id))
			// First registration wins; pre-seeded aliases are never
			// overwritten by the catalog.
			if _, ok := p.voices[key]; !ok {
				p.voices[key] = voiceConfig{
					voiceID:      v.Id,
					languageCode: v.LanguageCode,
					engine:       bestEngine(v.SupportedEngines),
				}
			}
		}
		next = out.NextToken
		if next == nil {
			break
		}
	}

	p.voicesLoaded = true
	log.Debug("loaded voice catalog", "provider", providerName, "voices", len(p.voices))
	return nil
}

func (p *Provider) voiceNamesLocked() []string {
	names := make([]string, 0, len(p.voices))
	for name := range p.voices {
		names = append(names, name)
	}
	return names
}

// ListVoices implements tts.VoiceLister. A non-empty language filters to
// voices whose language code starts with it.
func (p *Provider) ListVoices(ctx context.Context, language string) ([]tts.VoiceInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadVoicesLocked(ctx); err != nil {
		return nil, err
	}

	infos := make([]tts.VoiceInfo, 0, len(p.voices))
	for name, vc := range p.voices {
		if language != "" && !strings.HasPrefix(strings.ToLower(string(vc.languageCode)), strings.ToLower(language)) {
			continue
		}
		infos = append(infos, tts.VoiceInfo{Name: name, Language: string(vc.languageCode)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// InferLanguageFromVoice returns the ISO 639-1 prefix of the voice's
// catalog language code (e.g. "joanna" -> "en").
func (p *Provider) InferLanguageFromVoice(ctx context.Context, name string) (string, error) {
	vc, err := p.resolveConfig(ctx, name, "")
	if err != nil {
		return "", err
	}
	return isoPrefix(vc.languageCode), nil
}

// CheckHealth implements tts.Provider.
func (p *Provider) CheckHealth(ctx context.Context) []tts.HealthCheck {
	var checks []tts.HealthCheck

	identity, err := p.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		checks = append(checks, tts.HealthCheck{
			Passed:   false,
			Message:  fmt.Sprintf("AWS credentials: %v", err),
			Required: true,
		})
	} else {
		checks = append(checks, tts.HealthCheck{
			Passed:   true,
			Message:  fmt.Sprintf("AWS credentials (account: %s)", aws.ToString(identity.Account)),
			Required: true,
		})
	}

	if _, err := p.client.DescribeVoices(ctx, &awspolly.DescribeVoicesInput{}); err != nil {
		checks = append(checks, tts.HealthCheck{
			Passed:   false,
			Message:  fmt.Sprintf("AWS Polly access: %v", err),
			Required: true,
		})
	} else {
		checks = append(checks, tts.HealthCheck{Passed: true, Message: "AWS Polly access", Required: true})
	}

	return checks
}

// bestEngine picks the highest-preference engine the voice supports,
// falling back to the first advertised engine for anything off the list.
func bestEngine(supported []pollytypes.Engine) pollytypes.Engine {
	for _, pref := range enginePreference {
		for _, engine := range supported {
			if engine == pref {
				return engine
			}
		}
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return pollytypes.EngineStandard
}

func isoPrefix(code pollytypes.LanguageCode) string {
	s := string(code)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return strings.ToLower(s[:i])
	}
	return strings.ToLower(s)
}

func escapeText(text string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(text))
	return b.String()
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
