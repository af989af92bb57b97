package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/langlearn/langlearn-tts/tts"
)

// requestFlags holds the per-request options shared by the synthesis
// commands.
type requestFlags struct {
	voice        string
	language     string
	rate         int
	outputDir    string
	stability    float64
	similarity   float64
	styleAmount  float64
	speakerBoost bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.voice, "voice", "", "voice name (provider default if unset)")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "ISO 639-1 language code (e.g. en, es)")
	cmd.Flags().IntVarP(&f.rate, "rate", "r", 0, fmt.Sprintf("speech rate in percent (default %d)", tts.DefaultRate))
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "directory for generated audio")
	cmd.Flags().Float64Var(&f.stability, "stability", 0, "voice stability, 0.0-1.0 (elevenlabs only)")
	cmd.Flags().Float64Var(&f.similarity, "similarity", 0, "voice similarity boost, 0.0-1.0 (elevenlabs only)")
	cmd.Flags().Float64Var(&f.styleAmount, "style", 0, "style exaggeration, 0.0-1.0 (elevenlabs only)")
	cmd.Flags().BoolVar(&f.speakerBoost, "speaker-boost", false, "enable speaker boost (elevenlabs only)")
}

// build assembles a synthesis request, filling unset options from the
// loaded configuration and the provider default voice.
func (f *requestFlags) build(cmd *cobra.Command, text string, cfg tts.Config, provider tts.Provider) tts.SynthesisRequest {
	voice := f.voice
	if voice == "" {
		voice = cfg.Voice
	}
	if voice == "" {
		voice = provider.DefaultVoice()
	}

	rate := f.rate
	if rate == 0 {
		rate = cfg.Rate
	}

	req := tts.NewRequest(text, voice)
	req.Language = f.language
	req.Rate = rate

	if cmd.Flags().Changed("stability") {
		req.Stability = &f.stability
	}
	if cmd.Flags().Changed("similarity") {
		req.Similarity = &f.similarity
	}
	if cmd.Flags().Changed("style") {
		req.Style = &f.styleAmount
	}
	if cmd.Flags().Changed("speaker-boost") {
		req.SpeakerBoost = &f.speakerBoost
	}
	return req
}

func printResult(result tts.SynthesisResult) {
	size := ""
	if st, err := os.Stat(result.Path); err == nil {
		size = " (" + humanize.Bytes(uint64(st.Size())) + ")"
	}
	fmt.Printf("%s %s%s\n", passMark, result.Path, size)
}

var (
	synthesizeFlags  requestFlags
	synthesizeOutput string
)

var synthesizeCmd = &cobra.Command{
	Use:     "synthesize <text>",
	Aliases: []string{"say"},
	Short:   "Synthesize a single phrase to an MP3 file",
	Example: paragraph("langlearn-tts synthesize \"Hola mundo\" --voice lupe --language es"),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, client, cfg, err := loadProvider(cmd)
		if err != nil {
			return err
		}

		req := synthesizeFlags.build(cmd, args[0], cfg, provider)

		outputPath := synthesizeOutput
		if outputPath == "" {
			dir := resolveOutputDir(synthesizeFlags.outputDir, cfg)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("unable to create output directory: %w", err)
			}
			outputPath = filepath.Join(dir, tts.Filename(req.Text))
		}

		result, err := client.Synthesize(cmd.Context(), req, outputPath)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

func init() {
	synthesizeFlags.register(synthesizeCmd)
	synthesizeCmd.Flags().StringVar(&synthesizeOutput, "output", "", "explicit output file path (overrides --output-dir)")
}
