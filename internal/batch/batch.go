// Package batch loads JSON batch input files.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// TextPair is one [first, second] entry of a pairs file.
type TextPair struct {
	First  string
	Second string
}

// LoadTexts reads a JSON array of non-empty strings.
func LoadTexts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read batch file: %w", err)
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s is not a JSON array: %w", path, err)
	}

	texts := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d: expected a string, got %T", i, item)
		}
		if s == "" {
			return nil, fmt.Errorf("element %d: empty string", i)
		}
		texts = append(texts, s)
	}
	return texts, nil
}

// LoadPairs reads a JSON array of [first, second] string pairs.
func LoadPairs(path string) ([]TextPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read pairs file: %w", err)
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s is not a JSON array: %w", path, err)
	}

	pairs := make([]TextPair, 0, len(raw))
	for i, item := range raw {
		elems, ok := item.([]any)
		if !ok {
			return nil, fmt.Errorf("element %d: expected a [first, second] pair, got %T", i, item)
		}
		if len(elems) != 2 {
			return nil, fmt.Errorf("element %d: expected 2 entries, got %d", i, len(elems))
		}
		first, ok := elems[0].(string)
		if !ok {
			return nil, fmt.Errorf("element %d: first entry is not a string", i)
		}
		second, ok := elems[1].(string)
		if !ok {
			return nil, fmt.Errorf("element %d: second entry is not a string", i)
		}
		if first == "" || second == "" {
			return nil, fmt.Errorf("element %d: empty string in pair", i)
		}
		pairs = append(pairs, TextPair{First: first, Second: second})
	}
	return pairs, nil
}
