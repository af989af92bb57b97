package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/langlearn/langlearn-tts/internal/batch"
	"github.com/langlearn/langlearn-tts/tts"
)

var (
	batchFlags   requestFlags
	batchMerge   string
	batchPauseMs int

	batchCmd = &cobra.Command{
		Use:     "batch <file.json>",
		Aliases: []string{"synthesize-batch"},
		Short:   "Synthesize every phrase in a JSON array",
		Long:    paragraph("\nRead a JSON array of phrases and synthesize each one. With --merge single, all phrases are stitched into one file with a configurable pause between them."),
		Example: paragraph("langlearn-tts batch phrases.json --voice joanna\nlanglearn-tts batch phrases.json --merge single --pause-ms 750"),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := batch.LoadTexts(args[0])
			if err != nil {
				return err
			}

			strategy, err := tts.ParseMergeStrategy(batchMerge)
			if err != nil {
				return err
			}

			provider, client, cfg, err := loadProvider(cmd)
			if err != nil {
				return err
			}

			pause := batchPauseMs
			if !cmd.Flags().Changed("pause-ms") {
				pause = cfg.PauseMs
			}

			requests := make([]tts.SynthesisRequest, 0, len(texts))
			for _, text := range texts {
				requests = append(requests, batchFlags.build(cmd, text, cfg, provider))
			}

			dir := resolveOutputDir(batchFlags.outputDir, cfg)
			results, err := client.SynthesizeBatch(cmd.Context(), requests, dir, strategy, pause)
			if err != nil {
				return err
			}

			for _, result := range results {
				printResult(result)
			}
			fmt.Printf("%d phrase(s), %d file(s)\n", len(texts), len(results))
			return nil
		},
	}
)

func init() {
	batchFlags.register(batchCmd)
	batchCmd.Flags().StringVar(&batchMerge, "merge", "separate", "output mode: separate or single")
	batchCmd.Flags().IntVar(&batchPauseMs, "pause-ms", 500, "silence between merged segments, in milliseconds")
}
