package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takeshy/drivevids/internal/view"
)

var (
	linkCopy     bool
	linkPreview  bool
	linkDownload bool
)

var linkCmd = &cobra.Command{
	Use:   "link <id>",
	Short: "Print or copy the Drive link of a video",
	Long: `Print the viewer link of a video. Use --preview for the embeddable
player URL or --download for the direct download URL, and --copy to put the
viewer link on the clipboard.

Example:
  drivevids link 1AbCdEf
  drivevids link --copy 1AbCdEf`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

func init() {
	linkCmd.Flags().BoolVar(&linkCopy, "copy", false, "Copy the viewer link to the clipboard")
	linkCmd.Flags().BoolVar(&linkPreview, "preview", false, "Print the preview (embed) link")
	linkCmd.Flags().BoolVar(&linkDownload, "download", false, "Print the direct download link")
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, newLogger(), view.WithClipboard(systemClipboard{}))
	if err != nil {
		return err
	}
	defer a.ctl.Close()

	id := args[0]
	switch {
	case linkPreview:
		fmt.Println(a.links.Preview(id))
	case linkDownload:
		fmt.Println(a.links.Download(id))
	default:
		fmt.Println(a.links.Viewer(id))
	}

	if linkCopy {
		if _, err := getAPIKey(cfg); err != nil {
			return err
		}
		if err := a.load(cmd.Context()); err != nil {
			return err
		}
		url, err := a.ctl.CopyLink(id)
		if errors.Is(err, view.ErrNotFound) {
			return fmt.Errorf("video '%s' not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to copy link: %w", err)
		}
		fmt.Printf("Copied %s to the clipboard\n", url)
	}
	return nil
}
