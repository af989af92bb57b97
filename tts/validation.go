package tts

import "fmt"

// ValidateRequest checks a request for malformed fields before any vendor
// call is issued. Providers may apply additional vendor-specific checks.
func ValidateRequest(req SynthesisRequest) error {
	if req.Language != "" && !isLanguageCode(req.Language) {
		return &ValidationError{
			Field:  "language",
			Reason: fmt.Sprintf("%q is not a two-letter ISO 639-1 code", req.Language),
		}
	}

	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"stability", req.Stability},
		{"similarity", req.Similarity},
		{"style", req.Style},
	} {
		if f.value != nil && (*f.value < 0.0 || *f.value > 1.0) {
			return &ValidationError{
				Field:  f.name,
				Reason: fmt.Sprintf("must be between 0.0 and 1.0, got %v", *f.value),
			}
		}
	}

	return nil
}

// isLanguageCode reports whether s is exactly two ASCII letters. No
// whitelist: providers decide which languages they actually support.
func isLanguageCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
