package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/takeshy/drivevids/internal/catalog"
)

// nameWidth is the --width flag shared by the commands that print tables.
var nameWidth int

func addWidthFlag(c *cobra.Command) {
	c.Flags().IntVar(&nameWidth, "width", 60, "Maximum width of the name column (0 for no limit)")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// renderTable prints rows in aligned columns, measuring cells in terminal
// cells so that wide characters line up. Cells in column 0 are truncated to
// maxFirst cells when maxFirst > 0.
func renderTable(w io.Writer, headers []string, rows [][]string, maxFirst int) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		row = append([]string(nil), row...)
		if maxFirst > 0 && len(row) > 0 {
			row[0] = runewidth.Truncate(row[0], maxFirst, "...")
		}
		cells[r] = row
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			if i == len(cells)-1 {
				parts[i] = c
				continue
			}
			parts[i] = runewidth.FillRight(c, widths[i])
		}
		return strings.Join(parts, "  ")
	}

	fmt.Fprintln(w, headerStyle.Render(line(headers)))
	for _, row := range cells {
		fmt.Fprintln(w, line(row))
	}
}

func videoRows(videos []catalog.Video, long bool) ([]string, [][]string) {
	if !long {
		rows := make([][]string, len(videos))
		for i, v := range videos {
			rows[i] = []string{v.Name, v.SizeLabel, v.DateLabel}
		}
		return []string{"NAME", "SIZE", "CREATED"}, rows
	}
	rows := make([][]string, len(videos))
	for i, v := range videos {
		link := v.DownloadLink
		if link == "" {
			link = "-"
		}
		rows[i] = []string{v.Name, v.SizeLabel, v.DateLabel, v.ID, link}
	}
	return []string{"NAME", "SIZE", "CREATED", "ID", "DOWNLOAD"}, rows
}

func printVideos(w io.Writer, title string, videos []catalog.Video, long bool, width int) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w)
	if len(videos) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No videos found"))
		return
	}
	headers, rows := videoRows(videos, long)
	renderTable(w, headers, rows, width)
}
