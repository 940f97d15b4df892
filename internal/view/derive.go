package view

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/takeshy/drivevids/internal/catalog"
)

// SortOrder is the direction applied to the name collation.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder accepts "asc" or "desc"; anything else is ascending.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(strings.ToLower(strings.TrimSpace(s))) == Descending {
		return Descending
	}
	return Ascending
}

// Mode is the layout used to render the list.
type Mode string

const (
	Grid Mode = "grid"
	List Mode = "list"
)

// ParseMode accepts "grid" or "list"; anything else is grid.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == List {
		return List
	}
	return Grid
}

// Derive returns the entries whose name contains query (case-insensitive),
// ordered by a numeric-aware, case- and accent-insensitive collation of the
// name. Ties are broken by raw name then id so that Descending is the exact
// reverse of Ascending. The input slice is not modified.
func Derive(videos []catalog.Video, query string, order SortOrder) []catalog.Video {
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]catalog.Video, 0, len(videos))
	for _, v := range videos {
		if needle == "" || strings.Contains(fold.String(v.Name), needle) {
			out = append(out, v)
		}
	}

	col := collate.New(language.Und, collate.Loose, collate.Numeric)
	slices.SortFunc(out, func(a, b catalog.Video) int {
		c := col.CompareString(a.Name, b.Name)
		if c == 0 {
			c = strings.Compare(a.Name, b.Name)
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if order == Descending {
			return -c
		}
		return c
	})
	return out
}
