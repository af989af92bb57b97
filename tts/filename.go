package tts

import (
	"crypto/sha256"
	"encoding/hex"
)

// AudioExt is the file extension for all produced audio files.
const AudioExt = ".mp3"

// Filename derives a deterministic, content-addressed filename from text:
// identical text always maps to the same name, so regenerated requests
// overwrite their previous output instead of piling up copies.
func Filename(text string) string {
	return FilenameWithPrefix(text, "")
}

// FilenameWithPrefix is Filename with a verbatim prefix, used to
// distinguish call sites ("pair_", "batch_", "pairs_").
func FilenameWithPrefix(text, prefix string) string {
	sum := sha256.Sum256([]byte(text))
	return prefix + hex.EncodeToString(sum[:16]) + AudioExt
}
