package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/langlearn/langlearn-tts/tts"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Check that synthesis prerequisites are in place",
	Long:    paragraph("\nRun environment diagnostics: ffmpeg availability, output directory writability, and the configured provider's credentials and connectivity."),
	Example: paragraph("langlearn-tts doctor\nlanglearn-tts doctor --provider elevenlabs"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		failed := false

		report := func(check tts.HealthCheck) {
			mark := passMark
			if !check.Passed {
				if check.Required {
					mark = failMark
					failed = true
				} else {
					mark = skipMark
				}
			}
			fmt.Printf("%s %s\n", mark, check.Message)
		}

		if path, err := exec.LookPath("ffmpeg"); err != nil {
			report(tts.HealthCheck{
				Passed:   false,
				Message:  "ffmpeg not found on PATH (required for pauses and merged files)",
				Required: true,
			})
		} else {
			report(tts.HealthCheck{Passed: true, Message: "ffmpeg found: " + path, Required: true})
		}

		cfg, err := tts.LoadConfig()
		if err != nil {
			report(tts.HealthCheck{Passed: false, Message: fmt.Sprintf("configuration: %v", err), Required: true})
			cfg = tts.DefaultConfig()
		} else {
			report(tts.HealthCheck{Passed: true, Message: "configuration loaded", Required: true})
		}
		if providerFlag != "" {
			cfg.Provider = providerFlag
		}

		dir := resolveOutputDir("", cfg)
		report(checkWritable(dir))

		provider, _, _, err := loadProvider(cmd)
		if err != nil {
			report(tts.HealthCheck{Passed: false, Message: fmt.Sprintf("provider: %v", err), Required: true})
		} else {
			fmt.Printf("Provider: %s\n", provider.Name())
			for _, check := range provider.CheckHealth(cmd.Context()) {
				report(check)
			}
		}

		if failed {
			return fmt.Errorf("some required checks failed")
		}
		fmt.Println("All checks passed.")
		return nil
	},
}

// checkWritable verifies the output directory can be created and written.
func checkWritable(dir string) tts.HealthCheck {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return tts.HealthCheck{
			Passed:   false,
			Message:  fmt.Sprintf("output directory %s: %v", dir, err),
			Required: true,
		}
	}

	probe := filepath.Join(dir, ".langlearn-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return tts.HealthCheck{
			Passed:   false,
			Message:  fmt.Sprintf("output directory %s is not writable: %v", dir, err),
			Required: true,
		}
	}
	_ = os.Remove(probe)

	return tts.HealthCheck{Passed: true, Message: "output directory writable: " + dir, Required: true}
}
