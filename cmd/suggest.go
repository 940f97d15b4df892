package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [text]",
	Short: "Suggest related search terms with Gemini",
	Long: `Ask Gemini for up to three search terms related to the text, based on
the names of the videos in the folder.

Example:
  drivevids suggest trailer`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := getAPIKey(cfg); err != nil {
		return err
	}
	if _, err := getGeminiKey(cfg); err != nil {
		return err
	}

	a, err := newApp(cfg, newLogger())
	if err != nil {
		return err
	}
	defer a.ctl.Close()

	if err := a.load(cmd.Context()); err != nil {
		return err
	}

	videos := a.ctl.Videos()
	names := make([]string, len(videos))
	for i, v := range videos {
		names[i] = v.Name
	}

	terms := a.assistant.Suggest(cmd.Context(), strings.Join(args, " "), names)
	if len(terms) == 0 {
		fmt.Println("No suggestions")
		return nil
	}
	for _, t := range terms {
		fmt.Printf("  %s\n", t)
	}
	return nil
}
