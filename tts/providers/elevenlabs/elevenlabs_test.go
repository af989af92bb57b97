package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/langlearn/langlearn-tts/tts"
)

type noopStitcher struct{ calls int }

func (s *noopStitcher) Stitch(_ context.Context, _ []string, outputPath string, _ int) error {
	s.calls++
	return os.WriteFile(outputPath, []byte("stitched"), 0o644)
}

type recordedRequest struct {
	path    string
	apiKey  string
	payload synthesisPayload
}

func newTestServer(t *testing.T) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/text-to-speech/", func(w http.ResponseWriter, r *http.Request) {
		var payload synthesisPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		requests = append(requests, recordedRequest{
			path:    r.URL.Path,
			apiKey:  r.Header.Get("xi-api-key"),
			payload: payload,
		})
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3"))
	})
	mux.HandleFunc("GET /v1/voices", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(catalogResponse{
			Voices: []catalogVoice{
				{VoiceID: "CustomVoiceId12345678", Name: "Grandpa"},
				{VoiceID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel"},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestProvider(t *testing.T) (*Provider, *[]recordedRequest, *noopStitcher) {
	srv, requests := newTestServer(t)
	stitcher := &noopStitcher{}
	return NewWithBaseURL(srv.URL, "test-key", "eleven_multilingual_v2", stitcher), requests, stitcher
}

func TestSynthesize(t *testing.T) {
	p, requests, _ := newTestProvider(t)
	out := filepath.Join(t.TempDir(), "out.mp3")

	result, err := p.Synthesize(context.Background(), tts.NewRequest("hola", "Rachel"), out)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if result.VoiceName != "rachel" {
		t.Errorf("VoiceName = %q, want canonical %q", result.VoiceName, "rachel")
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output file missing: %v", err)
	}

	reqs := *requests
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if !strings.HasSuffix(reqs[0].path, "/21m00Tcm4TlvDq8ikWAM") {
		t.Errorf("path = %q, want the premade rachel voice ID", reqs[0].path)
	}
	if reqs[0].apiKey != "test-key" {
		t.Errorf("xi-api-key = %q", reqs[0].apiKey)
	}
	if reqs[0].payload.ModelID != "eleven_multilingual_v2" {
		t.Errorf("model_id = %q", reqs[0].payload.ModelID)
	}
	if reqs[0].payload.VoiceSettings != nil {
		t.Error("voice_settings should be omitted when no expressive options are set")
	}
}

func TestSynthesizeSendsVoiceSettings(t *testing.T) {
	p, requests, _ := newTestProvider(t)

	stability := 0.7
	boost := true
	req := tts.NewRequest("hola", "rachel")
	req.Stability = &stability
	req.SpeakerBoost = &boost

	if _, err := p.Synthesize(context.Background(), req, filepath.Join(t.TempDir(), "x.mp3")); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	settings := (*requests)[0].payload.VoiceSettings
	if settings == nil {
		t.Fatal("voice_settings missing")
	}
	if settings.Stability == nil || *settings.Stability != 0.7 {
		t.Errorf("stability = %v, want 0.7", settings.Stability)
	}
	if settings.UseSpeakerBoost == nil || !*settings.UseSpeakerBoost {
		t.Error("use_speaker_boost should be true")
	}
	if settings.Style != nil {
		t.Error("unset style should be omitted")
	}
}

func TestSynthesizeVoiceIDPassthrough(t *testing.T) {
	p, requests, _ := newTestProvider(t)

	id := "AbCdEfGh012345678901"
	result, err := p.Synthesize(context.Background(), tts.NewRequest("hola", id), filepath.Join(t.TempDir(), "x.mp3"))
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if result.VoiceName != id {
		t.Errorf("VoiceName = %q, want the ID echoed", result.VoiceName)
	}
	if !strings.HasSuffix((*requests)[0].path, "/"+id) {
		t.Errorf("path = %q, want the raw voice ID", (*requests)[0].path)
	}
}

func TestSynthesizeResolvesCatalogVoice(t *testing.T) {
	p, requests, _ := newTestProvider(t)

	result, err := p.Synthesize(context.Background(), tts.NewRequest("hola", "grandpa"), filepath.Join(t.TempDir(), "x.mp3"))
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if result.VoiceName != "grandpa" {
		t.Errorf("VoiceName = %q", result.VoiceName)
	}
	if !strings.HasSuffix((*requests)[0].path, "/CustomVoiceId12345678") {
		t.Errorf("path = %q, want the catalog voice ID", (*requests)[0].path)
	}
}

func TestSynthesizeUnknownVoice(t *testing.T) {
	p, _, _ := newTestProvider(t)

	_, err := p.Synthesize(context.Background(), tts.NewRequest("hola", "nobody"), filepath.Join(t.TempDir(), "x.mp3"))

	var uerr *tts.UnknownVoiceError
	if !errors.As(err, &uerr) {
		t.Fatalf("Synthesize() = %v, want *UnknownVoiceError", err)
	}
}

func TestSynthesizeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"detail": map[string]any{"message": "invalid api key"},
		})
	}))
	t.Cleanup(srv.Close)

	p := NewWithBaseURL(srv.URL, "bad-key", "eleven_multilingual_v2", &noopStitcher{})
	_, err := p.Synthesize(context.Background(), tts.NewRequest("hola", "rachel"), filepath.Join(t.TempDir(), "x.mp3"))

	var perr *tts.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("Synthesize() = %v, want *ProviderError", err)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("Error() = %q, want the API detail message", err.Error())
	}
}

func TestSynthesizeWithoutKey(t *testing.T) {
	p := New(tts.ElevenLabsConfig{Model: "eleven_multilingual_v2", RequestsPerMinute: 60})

	_, err := p.Synthesize(context.Background(), tts.NewRequest("hola", "rachel"), filepath.Join(t.TempDir(), "x.mp3"))
	if err == nil || !strings.Contains(err.Error(), "ELEVENLABS_API_KEY") {
		t.Errorf("Synthesize() = %v, want missing-key error", err)
	}
}

func TestLooksLikeVoiceID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"21m00Tcm4TlvDq8ikWAM", true},
		{"rachel", false},
		{"short", false},
		{"has-dash-char-123456", false},
		{"21m00Tcm4TlvDq8ikWAMx", false},
	}
	for _, tt := range tests {
		if got := looksLikeVoiceID(tt.in); got != tt.want {
			t.Errorf("looksLikeVoiceID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestListVoicesMergesCatalog(t *testing.T) {
	p, _, _ := newTestProvider(t)

	infos, err := p.ListVoices(context.Background(), "")
	if err != nil {
		t.Fatalf("ListVoices() error = %v", err)
	}

	names := make(map[string]bool, len(infos))
	for _, info := range infos {
		names[info.Name] = true
	}
	for _, want := range []string{"rachel", "adam", "grandpa"} {
		if !names[want] {
			t.Errorf("voice %q missing from %v", want, infos)
		}
	}
}
