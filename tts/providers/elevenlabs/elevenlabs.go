// Package elevenlabs implements the ElevenLabs provider adapter over the
// plain HTTP API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/langlearn/langlearn-tts/tts"
	"github.com/langlearn/langlearn-tts/tts/audio"
)

const (
	providerName = "elevenlabs"
	defaultVoice = "rachel"

	defaultBaseURL = "https://api.elevenlabs.io"

	// maxChars stays under the multilingual model's 10k request ceiling
	// with headroom for expansion during normalization.
	maxChars = 9500

	voiceIDLength = 20
)

// premadeVoices maps the stock voice names to their stable voice IDs so
// the common case needs no catalog round trip.
var premadeVoices = map[string]string{
	"rachel": "21m00Tcm4TlvDq8ikWAM",
	"domi":   "AZnzlk1XvdvUeBnXmlld",
	"bella":  "EXAVITQu4vr4xnSDxMaL",
	"antoni": "ErXwobaYiN019PkySvjV",
	"elli":   "MF3mGyEYCl7XYWbV9V6O",
	"josh":   "TxGEqnHWrfWFTfGW9XjX",
	"arnold": "VR6AewLTigWG4xSOukaG",
	"adam":   "pNInz6obpgDQGcFmaJgB",
	"sam":    "yoZ06aMxZJJ28mfd3POQ",
}

type voiceSettings struct {
	Stability       *float64 `json:"stability,omitempty"`
	SimilarityBoost *float64 `json:"similarity_boost,omitempty"`
	Style           *float64 `json:"style,omitempty"`
	UseSpeakerBoost *bool    `json:"use_speaker_boost,omitempty"`
}

type synthesisPayload struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings *voiceSettings `json:"voice_settings,omitempty"`
}

type catalogVoice struct {
	VoiceID string `json:"voice_id"`
	Name    string `json:"name"`
	Labels  struct {
		Language string `json:"language"`
	} `json:"labels"`
}

type catalogResponse struct {
	Voices []catalogVoice `json:"voices"`
}

type apiError struct {
	Detail struct {
		Message string `json:"message"`
	} `json:"detail"`
}

// Provider is the ElevenLabs adapter. Requests are paced by a client-side
// limiter sized to the account's requests-per-minute allowance.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	stitcher   tts.Stitcher
	limiter    *rate.Limiter

	mu           sync.Mutex
	voices       map[string]string
	voicesLoaded bool
}

// New creates a Provider from the given configuration.
func New(cfg tts.ElevenLabsConfig) *Provider {
	rpm := cfg.RequestsPerMinute
	if rpm < 1 {
		rpm = 60
	}
	return &Provider{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    defaultBaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		stitcher:   audio.New(),
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60), 1),
		voices:     make(map[string]string),
	}
}

// NewWithBaseURL creates a Provider pointed at a custom API endpoint, for
// tests.
func NewWithBaseURL(baseURL, apiKey, model string, stitcher tts.Stitcher) *Provider {
	return &Provider{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		stitcher:   stitcher,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		voices:     make(map[string]string),
	}
}

// Name implements tts.Provider.
func (p *Provider) Name() string { return providerName }

// DefaultVoice implements tts.Provider.
func (p *Provider) DefaultVoice() string { return defaultVoice }

// Synthesize implements tts.Provider. ElevenLabs has no rate parameter, so
// the requested speech rate is ignored.
func (p *Provider) Synthesize(ctx context.Context, req tts.SynthesisRequest, outputPath string) (tts.SynthesisResult, error) {
	if p.apiKey == "" {
		return tts.SynthesisResult{}, &tts.ProviderError{
			Provider: providerName,
			Op:       "synthesize speech",
			Err:      fmt.Errorf("ELEVENLABS_API_KEY is not set"),
		}
	}

	voiceID, canonical, err := p.resolveID(ctx, req.Voice)
	if err != nil {
		return tts.SynthesisResult{}, err
	}

	if req.Rate != 0 && req.Rate != tts.DefaultRate {
		log.Debug("speech rate is not supported, ignoring", "provider", providerName, "rate", req.Rate)
	}

	settings := settingsFromRequest(req)

	chunks := tts.SplitText(req.Text, maxChars)
	if len(chunks) == 1 {
		if err := p.synthesizeChunk(ctx, chunks[0], voiceID, settings, outputPath); err != nil {
			return tts.SynthesisResult{}, err
		}
	} else {
		log.Debug("chunking oversized text", "provider", providerName, "chunks", len(chunks))
		if err := p.synthesizeChunked(ctx, chunks, voiceID, settings, outputPath); err != nil {
			return tts.SynthesisResult{}, err
		}
	}

	return tts.SynthesisResult{
		Path:      outputPath,
		Text:      req.Text,
		VoiceName: canonical,
		Language:  req.Language,
	}, nil
}

func settingsFromRequest(req tts.SynthesisRequest) *voiceSettings {
	if req.Stability == nil && req.Similarity == nil && req.Style == nil && req.SpeakerBoost == nil {
		return nil
	}
	return &voiceSettings{
		Stability:       req.Stability,
		SimilarityBoost: req.Similarity,
		Style:           req.Style,
		UseSpeakerBoost: req.SpeakerBoost,
	}
}

func (p *Provider) synthesizeChunked(ctx context.Context, chunks []string, voiceID string, settings *voiceSettings, outputPath string) error {
	scratch, err := os.MkdirTemp("", "elevenlabs-chunks-")
	if err != nil {
		return fmt.Errorf("unable to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	paths := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		path := filepath.Join(scratch, fmt.Sprintf("chunk_%04d%s", i, tts.AudioExt))
		if err := p.synthesizeChunk(ctx, chunk, voiceID, settings, path); err != nil {
			return err
		}
		paths = append(paths, path)
	}
	return p.stitcher.Stitch(ctx, paths, outputPath, 0)
}

func (p *Provider) synthesizeChunk(ctx context.Context, text, voiceID string, settings *voiceSettings, outputPath string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(synthesisPayload{
		Text:          text,
		ModelID:       p.model,
		VoiceSettings: settings,
	})
	if err != nil {
		return fmt.Errorf("unable to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", p.baseURL, voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("unable to build request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	log.Debug("synthesizing", "provider", providerName, "voice", voiceID, "chars", len(text))

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return &tts.ProviderError{Provider: providerName, Op: "synthesize speech", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &tts.ProviderError{
			Provider: providerName,
			Op:       "synthesize speech",
			Err:      errorFromResponse(resp),
		}
	}

	return writeStream(resp.Body, outputPath)
}

// resolveID maps a voice name to (voiceID, canonical name). A bare voice
// ID passes straight through.
func (p *Provider) resolveID(ctx context.Context, name string) (string, string, error) {
	key := strings.ToLower(name)
	if id, ok := premadeVoices[key]; ok {
		return id, key, nil
	}
	if looksLikeVoiceID(name) {
		return name, name, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.voices[key]
	if !ok {
		if err := p.loadVoicesLocked(ctx); err != nil {
			return "", "", err
		}
		id, ok = p.voices[key]
	}
	if !ok {
		return "", "", &tts.UnknownVoiceError{Voice: name, Known: p.voiceNamesLocked()}
	}
	return id, key, nil
}

// ResolveVoice implements tts.Provider.
func (p *Provider) ResolveVoice(ctx context.Context, name, _ string) (string, error) {
	id, _, err := p.resolveID(ctx, name)
	if err != nil {
		return "", err
	}
	return id, nil
}

// loadVoicesLocked fetches the account voice catalog. Caller holds p.mu.
func (p *Provider) loadVoicesLocked(ctx context.Context) error {
	if p.voicesLoaded {
		return nil
	}

	url := p.baseURL + "/v1/voices"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("unable to build request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return &tts.ProviderError{Provider: providerName, Op: "list voices", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &tts.ProviderError{Provider: providerName, Op: "list voices", Err: errorFromResponse(resp)}
	}

	var catalog catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return &tts.ProviderError{Provider: providerName, Op: "list voices", Err: err}
	}

	for _, v := range catalog.Voices {
		key := strings.ToLower(v.Name)
		if _, ok := p.voices[key]; !ok {
			p.voices[key] = v.VoiceID
		}
	}

	p.voicesLoaded = true
	log.Debug("loaded voice catalog", "provider", providerName, "voices", len(p.voices))
	return nil
}

func (p *Provider) voiceNamesLocked() []string {
	names := make([]string, 0, len(premadeVoices)+len(p.voices))
	for name := range premadeVoices {
		names = append(names, name)
	}
	for name := range p.voices {
		if _, ok := premadeVoices[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

// ListVoices implements tts.VoiceLister. Stock voices are merged with the
// account catalog when the API is reachable.
func (p *Provider) ListVoices(ctx context.Context, language string) ([]tts.VoiceInfo, error) {
	byName := make(map[string]tts.VoiceInfo)
	for name := range premadeVoices {
		byName[name] = tts.VoiceInfo{Name: name}
	}

	p.mu.Lock()
	if p.apiKey != "" {
		if err := p.loadVoicesLocked(ctx); err != nil {
			log.Debug("voice catalog unavailable", "provider", providerName, "err", err)
		}
	}
	for name := range p.voices {
		if _, ok := byName[name]; !ok {
			byName[name] = tts.VoiceInfo{Name: name}
		}
	}
	p.mu.Unlock()

	infos := make([]tts.VoiceInfo, 0, len(byName))
	for _, info := range byName {
		if language != "" && info.Language != "" && !strings.EqualFold(info.Language, language) {
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// CheckHealth implements tts.Provider.
func (p *Provider) CheckHealth(ctx context.Context) []tts.HealthCheck {
	if p.apiKey == "" {
		return []tts.HealthCheck{{
			Passed:   false,
			Message:  "ELEVENLABS_API_KEY is not set",
			Required: true,
		}}
	}

	checks := []tts.HealthCheck{{Passed: true, Message: "ELEVENLABS_API_KEY is set", Required: true}}

	p.mu.Lock()
	err := p.loadVoicesLocked(ctx)
	p.mu.Unlock()
	if err != nil {
		checks = append(checks, tts.HealthCheck{
			Passed:   false,
			Message:  fmt.Sprintf("ElevenLabs API access: %v", err),
			Required: true,
		})
	} else {
		checks = append(checks, tts.HealthCheck{Passed: true, Message: "ElevenLabs API access", Required: true})
	}
	return checks
}

// looksLikeVoiceID reports whether s has the shape of an ElevenLabs voice
// ID: exactly 20 alphanumeric characters.
func looksLikeVoiceID(s string) bool {
	if len(s) != voiceIDLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

func errorFromResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Detail.Message != "" {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiErr.Detail.Message)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
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
