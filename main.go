// Package main provides the entry point for the langlearn-tts CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/langlearn/langlearn-tts/internal/output"
	"github.com/langlearn/langlearn-tts/tts"
	"github.com/langlearn/langlearn-tts/tts/audio"
	"github.com/langlearn/langlearn-tts/tts/providers"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	providerFlag string
	modelFlag    string
	verbose      bool

	rootCmd = &cobra.Command{
		Use:   "langlearn-tts",
		Short: "Generate speech audio for language learning",
		Long: paragraph(
			fmt.Sprintf("\nGenerate %s for language-learning flashcards and phrase lists, using AWS Polly, OpenAI, or ElevenLabs.", keyword("speech audio")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
)

// loadProvider builds the configured provider and a client around it.
func loadProvider(cmd *cobra.Command) (tts.Provider, *tts.Client, tts.Config, error) {
	cfg, err := tts.LoadConfig()
	if err != nil {
		return nil, nil, tts.Config{}, err
	}
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.OpenAI.Model = modelFlag
		cfg.ElevenLabs.Model = modelFlag
	}

	name := providers.Detect(cfg)
	log.Debug("using provider", "provider", name)

	provider, err := providers.Get(cmd.Context(), name, cfg)
	if err != nil {
		return nil, nil, tts.Config{}, err
	}
	return provider, tts.NewClient(provider, audio.New()), cfg, nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "TTS provider (polly/openai/elevenlabs)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "synthesis model for the selected provider")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))

	rootCmd.AddCommand(
		synthesizeCmd,
		batchCmd,
		pairCmd,
		pairBatchCmd,
		voicesCmd,
		doctorCmd,
		configCmd,
		manCmd,
	)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "langlearn-tts")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "langlearn-tts")}, dirs...)
	}

	if c := os.Getenv("LANGLEARN_TTS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("langlearn-tts")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "langlearn-tts.yml")
	}
}

// resolveOutputDir applies the flag, config, env, default precedence.
func resolveOutputDir(flagValue string, cfg tts.Config) string {
	return output.Resolve(flagValue, cfg.OutputDir)
}
