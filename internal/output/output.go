// Package output resolves where synthesized audio files land.
package output

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

// DirEnv overrides the default output directory when set.
const DirEnv = "LANGLEARN_TTS_OUTPUT_DIR"

const defaultDirName = "langlearn-audio"

// DefaultDir returns the directory used when none is configured. Falls
// back to the current directory when the home directory cannot be found.
func DefaultDir() string {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir
	}
	home, err := homedir.Dir()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}

// Resolve picks the output directory: the explicit flag value, then the
// configured directory, then the default.
func Resolve(flagValue, configured string) string {
	if flagValue != "" {
		return expand(flagValue)
	}
	if configured != "" {
		return expand(configured)
	}
	return DefaultDir()
}

func expand(dir string) string {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return dir
	}
	return expanded
}
