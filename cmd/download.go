package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takeshy/drivevids/internal/transfer"
	"github.com/takeshy/drivevids/internal/view"
)

var (
	downloadDir   string
	downloadAll   bool
	downloadQuery string
	downloadForce bool
)

var downloadCmd = &cobra.Command{
	Use:   "download [id...]",
	Short: "Download videos into a local directory",
	Long: `Download one or more videos by id, or every video matching --query with --all.

A single video larger than the large-file threshold (100 MB by default) is
not transferred; its link is printed so it can be opened in a browser.
Several videos are started one second apart, in folder order.

Finished downloads are recorded in ~/.drivevids-history.json; videos whose
file is still on disk are skipped unless --force is given.

Example:
  drivevids download 1AbCdEf
  drivevids download --dir ~/Videos 1AbCdEf 2GhIjKl
  drivevids download --all --query trailer`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "Target directory (default: downloads.dir from config, or current directory)")
	downloadCmd.Flags().BoolVar(&downloadAll, "all", false, "Download every video matching --query")
	downloadCmd.Flags().StringVarP(&downloadQuery, "query", "q", "", "Name filter used with --all")
	downloadCmd.Flags().BoolVar(&downloadForce, "force", false, "Download again even if already downloaded")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !downloadAll {
		return fmt.Errorf("specify at least one video id, or use --all")
	}
	if len(args) > 0 && downloadAll {
		return fmt.Errorf("--all cannot be combined with video ids")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := getAPIKey(cfg); err != nil {
		return err
	}
	if downloadDir != "" {
		cfg.Downloads.Dir = downloadDir
	}

	history, err := openHistory(cfg)
	if err != nil {
		return err
	}

	logger := newLogger()
	saver := transfer.NewSaver(cfg.Downloads.Dir, nil)
	a, err := newApp(cfg, logger,
		view.WithSaver(recordingSaver{saver: saver, history: history, logger: logger}),
		view.WithOpener(printOpener{}),
	)
	if err != nil {
		return err
	}
	defer a.ctl.Close()

	ctx := cmd.Context()
	if err := a.load(ctx); err != nil {
		return err
	}

	for _, id := range args {
		if _, ok := a.ctl.Video(id); !ok {
			return fmt.Errorf("video '%s' not found", id)
		}
	}

	if len(args) == 1 {
		id := args[0]
		v, _ := a.ctl.Video(id)
		if d, ok := history.Downloaded(id); ok && !downloadForce {
			fmt.Printf("Skipping '%s': already downloaded to %s\n", v.Name, d.Path)
			return nil
		}
		switch mode, _ := a.ctl.Download(id); mode {
		case view.DownloadSkipped:
			return fmt.Errorf("video '%s' has no download link", v.Name)
		case view.DownloadExternal:
			return nil
		}
		fmt.Printf("Downloading '%s' (%s) into %s...\n", v.Name, v.SizeLabel, saver.Dir())
	} else {
		if downloadAll {
			a.ctl.SetQuery(downloadQuery)
			a.ctl.ToggleAll()
		}
		for _, id := range args {
			a.ctl.Toggle(id)
		}
		if !downloadForce {
			for _, v := range a.ctl.Selected() {
				if d, ok := history.Downloaded(v.ID); ok {
					fmt.Printf("Skipping '%s': already downloaded to %s\n", v.Name, d.Path)
					a.ctl.Toggle(v.ID)
				}
			}
		}
		n := a.ctl.BulkDownload()
		if n == 0 {
			fmt.Println("Nothing to download")
			return nil
		}
		fmt.Printf("Downloading %d videos into %s...\n", n, saver.Dir())
	}

	if err := a.ctl.Wait(ctx); err != nil {
		a.ctl.Close()
		if errors.Is(err, ctx.Err()) {
			return fmt.Errorf("download interrupted")
		}
		return err
	}
	if n := a.ctl.Failed(); n > 0 {
		return fmt.Errorf("%d download(s) failed", n)
	}
	fmt.Println("Done")
	return nil
}
