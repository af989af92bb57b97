package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// setupLog directs structured logging to stderr, or to the file named by
// LANGLEARN_TTS_LOGFILE. The returned closer flushes the log file.
func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	log.SetReportTimestamp(false)

	if path := os.Getenv("LANGLEARN_TTS_LOGFILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
		log.SetReportTimestamp(true)
		return f.Close, nil
	}
	return func() error { return nil }, nil
}
