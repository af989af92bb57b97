package output

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultDirEnvOverride(t *testing.T) {
	t.Setenv(DirEnv, "/tmp/custom-audio")
	if got := DefaultDir(); got != "/tmp/custom-audio" {
		t.Errorf("DefaultDir() = %q, want the env override", got)
	}
}

func TestDefaultDirUnderHome(t *testing.T) {
	t.Setenv(DirEnv, "")
	got := DefaultDir()
	if filepath.Base(got) != defaultDirName {
		t.Errorf("DefaultDir() = %q, want a %q directory", got, defaultDirName)
	}
}

func TestResolve(t *testing.T) {
	t.Setenv(DirEnv, "")

	tests := []struct {
		name       string
		flagValue  string
		configured string
		want       string
	}{
		{
			name:       "flag wins",
			flagValue:  "/a",
			configured: "/b",
			want:       "/a",
		},
		{
			name:       "config when no flag",
			configured: "/b",
			want:       "/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.flagValue, tt.configured); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveExpandsTilde(t *testing.T) {
	got := Resolve("~/audio", "")
	if strings.HasPrefix(got, "~") {
		t.Errorf("Resolve() = %q, tilde should be expanded", got)
	}
	if filepath.Base(got) != "audio" {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	t.Setenv(DirEnv, "/tmp/env-audio")
	if got := Resolve("", ""); got != "/tmp/env-audio" {
		t.Errorf("Resolve() = %q, want the default chain", got)
	}
}
