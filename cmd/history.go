package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/takeshy/drivevids/internal/catalog"
)

var historyForget string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show videos downloaded from the folder",
	Long: `Show the videos downloaded from the configured folder, newest first.
Use --forget to drop an entry so the next download fetches it again.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyForget, "forget", "", "Remove the entry of this video id")
	addWidthFlag(historyCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	history, err := openHistory(cfg)
	if err != nil {
		return err
	}

	if historyForget != "" {
		if !history.Forget(historyForget) {
			return fmt.Errorf("video '%s' is not in the download history", historyForget)
		}
		if err := history.Save(); err != nil {
			return err
		}
		fmt.Printf("Forgot '%s'\n", historyForget)
		return nil
	}

	downloads := history.All()
	fmt.Fprintln(os.Stdout, titleStyle.Render(fmt.Sprintf("Downloads from folder '%s' (%d):", cfg.Drive.FolderID, len(downloads))))
	fmt.Fprintln(os.Stdout)
	if len(downloads) == 0 {
		fmt.Fprintln(os.Stdout, mutedStyle.Render("Nothing downloaded yet"))
		return nil
	}

	rows := make([][]string, len(downloads))
	for i, d := range downloads {
		rows[i] = []string{d.Name, catalog.FormatSize(d.Size), d.SavedAt.Format("2006-01-02 15:04:05"), d.ID, d.Path}
	}
	renderTable(os.Stdout, []string{"NAME", "SIZE", "SAVED", "ID", "PATH"}, rows, nameWidth)
	return nil
}
