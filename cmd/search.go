package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takeshy/drivevids/internal/catalog"
	"github.com/takeshy/drivevids/internal/gemini"
	"github.com/takeshy/drivevids/internal/view"
)

var (
	searchAI    bool
	searchOrder string
	searchLong  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search videos by name, or by meaning with --ai",
	Long: `Search the folder's videos.

Without --ai the text is matched as a case-insensitive substring of the name.
With --ai, Gemini picks the videos whose names relate to the text, so
"behind the scenes footage" can match "Making of - Day 3".

Example:
  drivevids search episode
  drivevids search --ai "videos about the product launch"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchAI, "ai", false, "Filter by meaning with Gemini")
	searchCmd.Flags().StringVarP(&searchOrder, "order", "o", "asc", "Sort order: asc or desc")
	searchCmd.Flags().BoolVarP(&searchLong, "long", "l", false, "Show id and download link")
	addWidthFlag(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := getAPIKey(cfg); err != nil {
		return err
	}
	if searchAI {
		if _, err := getGeminiKey(cfg); err != nil {
			return err
		}
	}

	a, err := newApp(cfg, newLogger())
	if err != nil {
		return err
	}
	defer a.ctl.Close()

	if err := a.load(cmd.Context()); err != nil {
		return err
	}

	text := strings.Join(args, " ")
	order := view.ParseSortOrder(searchOrder)

	if !searchAI {
		a.ctl.SetQuery(text)
		a.ctl.SetSort(order)
		printVideos(os.Stdout, fmt.Sprintf("Videos matching '%s':", text), a.ctl.Visible(), searchLong, nameWidth)
		return nil
	}

	videos := a.ctl.Videos()
	refs := make([]gemini.VideoRef, len(videos))
	for i, v := range videos {
		refs[i] = gemini.VideoRef{ID: v.ID, Name: v.Name}
	}

	fmt.Fprintf(os.Stderr, "Asking Gemini about %d videos...\n", len(refs))
	var matches []catalog.Video
	for _, id := range a.assistant.Filter(cmd.Context(), text, refs) {
		if v, ok := a.ctl.Video(id); ok {
			matches = append(matches, v)
		}
	}
	printVideos(os.Stdout, fmt.Sprintf("Videos related to '%s':", text), view.Derive(matches, "", order), searchLong, nameWidth)
	return nil
}
