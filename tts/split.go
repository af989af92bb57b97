package tts

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitText splits text into chunks of at most maxChars characters,
// preferring sentence boundaries, then word boundaries, then fixed-size
// slices for degenerate oversized words. Chunk lengths are measured in
// runes, matching how vendors bill characters.
//
// Whitespace between sentences or words that land in the same chunk is
// normalized to a single space; TTS engines treat all whitespace
// identically, so nothing audible is lost. Empty input returns a single
// empty chunk.
func SplitText(text string, maxChars int) []string {
	if utf8.RuneCountInString(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	current := ""

	for _, sentence := range splitSentences(text) {
		if sentence == "" {
			continue
		}

		// A single oversized sentence falls back to word-level splitting.
		if utf8.RuneCountInString(sentence) > maxChars {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			chunks = append(chunks, splitAtWords(sentence, maxChars)...)
			continue
		}

		candidate := sentence
		if current != "" {
			candidate = current + " " + sentence
		}
		if utf8.RuneCountInString(candidate) <= maxChars {
			current = candidate
		} else {
			chunks = append(chunks, current)
			current = sentence
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// splitSentences splits at sentence-ending punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				out = append(out, string(runes[start:i+1]))
				j := i + 1
				for j < len(runes) && unicode.IsSpace(runes[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}

	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// splitAtWords greedily packs whitespace-delimited words into chunks of at
// most maxChars runes. A single word longer than maxChars is sliced into
// fixed-size pieces so the length bound always holds.
func splitAtWords(text string, maxChars int) []string {
	var chunks []string
	current := ""

	for _, word := range strings.Fields(text) {
		if utf8.RuneCountInString(word) > maxChars {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			runes := []rune(word)
			for i := 0; i < len(runes); i += maxChars {
				end := i + maxChars
				if end > len(runes) {
					end = len(runes)
				}
				chunks = append(chunks, string(runes[i:end]))
			}
			continue
		}

		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if utf8.RuneCountInString(candidate) <= maxChars {
			current = candidate
		} else {
			if current != "" {
				chunks = append(chunks, current)
			}
			current = word
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
