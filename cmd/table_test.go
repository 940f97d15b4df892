package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/takeshy/drivevids/internal/catalog"
)

func TestRenderTable_AlignsWideCharacters(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{
		{"日本語", "1.0 KB", "x"},
		{"abc", "2.0 KB", "y"},
	}
	renderTable(&buf, []string{"NAME", "SIZE", "ID"}, rows, 0)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[1] != "日本語  1.0 KB  x" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "abc     2.0 KB  y" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestRenderTable_TruncatesFirstColumn(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{{"abcdefgh", "1 B"}}
	renderTable(&buf, []string{"NAME", "SIZE"}, rows, 5)
	if !strings.Contains(buf.String(), "ab...  1 B") {
		t.Errorf("output = %q", buf.String())
	}
	if rows[0][0] != "abcdefgh" {
		t.Errorf("caller's row modified: %q", rows[0][0])
	}
}

func TestWidthFlagOnTableCommands(t *testing.T) {
	for _, c := range []*cobra.Command{listCmd, searchCmd, historyCmd} {
		if c.Flags().Lookup("width") == nil {
			t.Errorf("%s has no --width flag", c.Name())
		}
	}
}

func TestVideoRows(t *testing.T) {
	videos := []catalog.Video{
		{ID: "1", Name: "A", SizeLabel: "1.0 KB", DateLabel: "05/03/2024", DownloadLink: "https://dl/1"},
		{ID: "2", Name: "B", SizeLabel: "N/A", DateLabel: "N/A"},
	}

	headers, rows := videoRows(videos, false)
	if len(headers) != 3 || len(rows) != 2 || rows[0][2] != "05/03/2024" {
		t.Fatalf("short rows = %v %v", headers, rows)
	}

	headers, rows = videoRows(videos, true)
	if len(headers) != 5 || rows[0][4] != "https://dl/1" || rows[1][4] != "-" {
		t.Fatalf("long rows = %v %v", headers, rows)
	}
}
