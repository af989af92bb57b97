package tts

import (
	"errors"
	"strings"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       SynthesisRequest
		wantField string
	}{
		{
			name: "minimal request passes",
			req:  NewRequest("hola", "lupe"),
		},
		{
			name: "valid language passes",
			req:  SynthesisRequest{Text: "hola", Voice: "lupe", Language: "es", Rate: DefaultRate},
		},
		{
			name:      "three letter language fails",
			req:       SynthesisRequest{Text: "x", Voice: "v", Language: "spa"},
			wantField: "language",
		},
		{
			name:      "numeric language fails",
			req:       SynthesisRequest{Text: "x", Voice: "v", Language: "e1"},
			wantField: "language",
		},
		{
			name: "expressive settings in range pass",
			req: SynthesisRequest{
				Text: "x", Voice: "v",
				Stability:  floatPtr(0.0),
				Similarity: floatPtr(1.0),
				Style:      floatPtr(0.5),
			},
		},
		{
			name:      "stability above one fails",
			req:       SynthesisRequest{Text: "x", Voice: "v", Stability: floatPtr(1.1)},
			wantField: "stability",
		},
		{
			name:      "negative similarity fails",
			req:       SynthesisRequest{Text: "x", Voice: "v", Similarity: floatPtr(-0.1)},
			wantField: "similarity",
		},
		{
			name:      "style out of range fails",
			req:       SynthesisRequest{Text: "x", Voice: "v", Style: floatPtr(2.0)},
			wantField: "style",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateRequest() = %v, want nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateRequest() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
			if !strings.HasPrefix(verr.Error(), "invalid "+tt.wantField) {
				t.Errorf("Error() = %q, want %q prefix", verr.Error(), "invalid "+tt.wantField)
			}
		})
	}
}
