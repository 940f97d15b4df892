// Package catalog fetches the video listing of one Drive folder and
// normalizes each entry into a display-ready Video.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/takeshy/drivevids/internal/drive"
	"github.com/takeshy/drivevids/internal/links"
)

// NotAvailable is the label used when a size or date is unknown.
const NotAvailable = "N/A"

// Video is a normalized catalog entry.
type Video struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	SizeLabel       string `json:"size"`
	SizeBytes       int64  `json:"rawSize"`
	DateLabel       string `json:"date"`
	CreatedAtMillis int64  `json:"timestamp"`
	DownloadLink    string `json:"webContentLink,omitempty"`
}

// Downloadable reports whether the entry has a direct download link.
func (v Video) Downloadable() bool {
	return v.DownloadLink != ""
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize reduces bytes by powers of 1024 up to GB.
// Zero or negative sizes yield NotAvailable.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return NotAvailable
	}
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, sizeUnits[i])
}

// ParseSize parses the API's string-encoded byte count. Missing or
// malformed values count as zero.
func ParseSize(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var (
	dateTags = []language.Tag{
		language.BrazilianPortuguese,
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
		language.French,
		language.Spanish,
	}
	dateLayouts = []string{
		"02/01/2006",
		"1/2/2006",
		"02/01/2006",
		"02.01.2006",
		"02/01/2006",
		"2/1/2006",
	}
	dateMatcher = language.NewMatcher(dateTags)
)

const isoDate = "2006-01-02"

// DateFormatter renders creation dates for one locale and time zone.
type DateFormatter struct {
	layout string
	loc    *time.Location
}

// NewDateFormatter picks the date layout best matching the BCP 47 locale.
// Unknown locales fall back to ISO dates; a nil location means local time.
func NewDateFormatter(locale string, loc *time.Location) DateFormatter {
	if loc == nil {
		loc = time.Local
	}
	layout := isoDate
	if tag, err := language.Parse(locale); err == nil {
		if _, idx, conf := dateMatcher.Match(tag); conf != language.No {
			layout = dateLayouts[idx]
		}
	}
	return DateFormatter{layout: layout, loc: loc}
}

// Format returns the label and epoch milliseconds of an RFC 3339 timestamp.
// Missing or unparseable timestamps yield NotAvailable and zero.
func (d DateFormatter) Format(raw string) (string, int64) {
	if raw == "" {
		return NotAvailable, 0
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return NotAvailable, 0
	}
	return t.In(d.loc).Format(d.layout), t.UnixMilli()
}

// Normalize maps a raw listing entry to a Video.
func Normalize(f drive.File, lb *links.Builder, dates DateFormatter) Video {
	size := ParseSize(f.Size)
	label, millis := dates.Format(f.CreatedTime)
	return Video{
		ID:              f.ID,
		Name:            f.Name,
		ThumbnailURL:    lb.Thumbnail(f.ID),
		SizeLabel:       FormatSize(size),
		SizeBytes:       size,
		DateLabel:       label,
		CreatedAtMillis: millis,
		DownloadLink:    f.WebContentLink,
	}
}
