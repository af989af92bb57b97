package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/langlearn/langlearn-tts/internal/batch"
	"github.com/langlearn/langlearn-tts/tts"
)

// secondVoiceFlags selects the voice and language of the second half of a
// pair. Unset values fall back to the first half's settings.
type secondVoiceFlags struct {
	voice    string
	language string
}

func (f *secondVoiceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.voice, "voice2", "", "voice for the second phrase (defaults to --voice)")
	cmd.Flags().StringVar(&f.language, "language2", "", "language for the second phrase (defaults to --language)")
}

func (f *secondVoiceFlags) build(cmd *cobra.Command, text string, first tts.SynthesisRequest) tts.SynthesisRequest {
	req := first
	req.Text = text
	if f.voice != "" {
		req.Voice = f.voice
	}
	if f.language != "" {
		req.Language = f.language
	}
	return req
}

var (
	pairFlags       requestFlags
	pairSecond      secondVoiceFlags
	pairPauseMs     int
	pairBatchFlags  requestFlags
	pairBatchSecond secondVoiceFlags
	pairBatchMerge  string
	pairBatchPause  int

	pairCmd = &cobra.Command{
		Use:     "pair <first> <second>",
		Aliases: []string{"synthesize-pair"},
		Short:   "Synthesize two phrases into one file with a pause between",
		Long:    paragraph("\nSynthesize two phrases, each with its own voice and language, and stitch them into a single file separated by silence. Useful for prompt-answer flashcard audio."),
		Example: paragraph("langlearn-tts pair \"the dog\" \"el perro\" --voice joanna --voice2 lupe --language2 es"),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, client, cfg, err := loadProvider(cmd)
			if err != nil {
				return err
			}

			pause := pairPauseMs
			if !cmd.Flags().Changed("pause-ms") {
				pause = cfg.PauseMs
			}

			req1 := pairFlags.build(cmd, args[0], cfg, provider)
			req2 := pairSecond.build(cmd, args[1], req1)

			dir := resolveOutputDir(pairFlags.outputDir, cfg)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("unable to create output directory: %w", err)
			}
			outputPath := filepath.Join(dir, tts.FilenameWithPrefix(args[0]+"_"+args[1], "pair_"))

			result, err := client.SynthesizePair(cmd.Context(), args[0], req1, args[1], req2, outputPath, pause)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}

	pairBatchCmd = &cobra.Command{
		Use:     "pair-batch <file.json>",
		Aliases: []string{"synthesize-pair-batch"},
		Short:   "Synthesize every [first, second] pair in a JSON file",
		Long:    paragraph("\nRead a JSON array of [first, second] pairs and synthesize each into a stitched file. With --merge single, all pairs land in one file, with the same pause separating phrases and pairs."),
		Example: paragraph("langlearn-tts pair-batch cards.json --voice joanna --voice2 lupe --language2 es"),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			textPairs, err := batch.LoadPairs(args[0])
			if err != nil {
				return err
			}

			strategy, err := tts.ParseMergeStrategy(pairBatchMerge)
			if err != nil {
				return err
			}

			provider, client, cfg, err := loadProvider(cmd)
			if err != nil {
				return err
			}

			pause := pairBatchPause
			if !cmd.Flags().Changed("pause-ms") {
				pause = cfg.PauseMs
			}

			pairs := make([]tts.Pair, 0, len(textPairs))
			for _, tp := range textPairs {
				first := pairBatchFlags.build(cmd, tp.First, cfg, provider)
				pairs = append(pairs, tts.Pair{
					First:  first,
					Second: pairBatchSecond.build(cmd, tp.Second, first),
				})
			}

			dir := resolveOutputDir(pairBatchFlags.outputDir, cfg)
			results, err := client.SynthesizePairBatch(cmd.Context(), pairs, dir, strategy, pause)
			if err != nil {
				return err
			}

			for _, result := range results {
				printResult(result)
			}
			fmt.Printf("%d pair(s), %d file(s)\n", len(pairs), len(results))
			return nil
		},
	}
)

func init() {
	pairFlags.register(pairCmd)
	pairSecond.register(pairCmd)
	pairCmd.Flags().IntVar(&pairPauseMs, "pause-ms", 500, "silence between the two phrases, in milliseconds")

	pairBatchFlags.register(pairBatchCmd)
	pairBatchSecond.register(pairBatchCmd)
	pairBatchCmd.Flags().StringVar(&pairBatchMerge, "merge", "separate", "output mode: separate or single")
	pairBatchCmd.Flags().IntVar(&pairBatchPause, "pause-ms", 500, "silence between phrases, in milliseconds")
}
