package tts

import "testing"

func TestParseMergeStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    MergeStrategy
		wantErr bool
	}{
		{"separate", SeparateFiles, false},
		{"single", SingleMergedFile, false},
		{"SINGLE", SingleMergedFile, false},
		{"Separate", SeparateFiles, false},
		{"merged", SeparateFiles, true},
		{"", SeparateFiles, true},
	}

	for _, tt := range tests {
		got, err := ParseMergeStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMergeStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMergeStrategy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMergeStrategyString(t *testing.T) {
	if got := SeparateFiles.String(); got != "separate" {
		t.Errorf("SeparateFiles.String() = %q", got)
	}
	if got := SingleMergedFile.String(); got != "single" {
		t.Errorf("SingleMergedFile.String() = %q", got)
	}
}

func TestNewRequest(t *testing.T) {
	req := NewRequest("hola", "lupe")
	if req.Text != "hola" || req.Voice != "lupe" {
		t.Errorf("NewRequest populated %+v", req)
	}
	if req.Rate != DefaultRate {
		t.Errorf("Rate = %d, want %d", req.Rate, DefaultRate)
	}
	if req.Stability != nil || req.Similarity != nil || req.Style != nil || req.SpeakerBoost != nil {
		t.Error("expressive settings should default to nil")
	}
}
