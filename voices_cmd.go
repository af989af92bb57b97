package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/langlearn/langlearn-tts/tts"
)

var (
	voicesLanguage string

	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List the voices of the configured provider",
		Example: paragraph("langlearn-tts voices\nlanglearn-tts voices --language es --provider polly"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, _, _, err := loadProvider(cmd)
			if err != nil {
				return err
			}

			lister, ok := provider.(tts.VoiceLister)
			if !ok {
				return fmt.Errorf("provider %q does not expose a voice catalog", provider.Name())
			}

			infos, err := lister.ListVoices(cmd.Context(), voicesLanguage)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No voices found.")
				return nil
			}

			for _, info := range infos {
				if info.Language == "" {
					fmt.Println(info.Name)
					continue
				}
				fmt.Printf("%-24s %s (%s)\n", info.Name, languageName(info.Language), info.Language)
			}
			return nil
		},
	}
)

// languageName renders a BCP 47 tag as an English display name, falling
// back to the raw tag.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

func init() {
	voicesCmd.Flags().StringVarP(&voicesLanguage, "language", "l", "", "filter voices by language code")
}
