package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/takeshy/drivevids/internal/view"
)

var (
	listQuery string
	listOrder string
	listLong  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the videos of the folder",
	Long: `List all videos of the configured Google Drive folder, sorted by name.
Names compare numerically ("Episode 2" before "Episode 10") and ignore case.

Example:
  drivevids list
  drivevids list --query trailer --order desc
  drivevids list -l`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only list videos whose name contains this text")
	listCmd.Flags().StringVarP(&listOrder, "order", "o", "asc", "Sort order: asc or desc")
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "Show id and download link")
	addWidthFlag(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := getAPIKey(cfg); err != nil {
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

	a.ctl.SetQuery(listQuery)
	a.ctl.SetSort(view.ParseSortOrder(listOrder))
	visible := a.ctl.Visible()

	title := fmt.Sprintf("Videos (%d of %d):", len(visible), len(a.ctl.Videos()))
	if listQuery != "" {
		title = fmt.Sprintf("Videos matching '%s' (%d of %d):", listQuery, len(visible), len(a.ctl.Videos()))
	}
	printVideos(os.Stdout, title, visible, listLong, nameWidth)
	return nil
}
