// Package links builds the external URLs derived from a Drive file id.
// Each URL is an RFC 6570 template with a single {id} variable.
package links

import (
	"fmt"

	"github.com/yosida95/uritemplate/v3"
)

// Default templates pointing at Google Drive.
const (
	DefaultThumbnail = "https://drive.google.com/thumbnail?id={id}&sz=w640"
	DefaultPreview   = "https://drive.google.com/file/d/{id}/preview"
	DefaultViewer    = "https://drive.google.com/file/d/{id}/view"
	DefaultDownload  = "https://drive.google.com/uc?export=download&id={id}"
)

// Templates holds the raw template strings, usually read from config.
type Templates struct {
	Thumbnail string `yaml:"thumbnail"`
	Preview   string `yaml:"preview"`
	Viewer    string `yaml:"viewer"`
	Download  string `yaml:"download"`
}

// Builder expands parsed templates.
type Builder struct {
	thumbnail *uritemplate.Template
	preview   *uritemplate.Template
	viewer    *uritemplate.Template
	download  *uritemplate.Template
}

// Defaults returns the Google Drive templates.
func Defaults() Templates {
	return Templates{
		Thumbnail: DefaultThumbnail,
		Preview:   DefaultPreview,
		Viewer:    DefaultViewer,
		Download:  DefaultDownload,
	}
}

// NewBuilder parses the templates. Empty entries fall back to the defaults.
func NewBuilder(t Templates) (*Builder, error) {
	d := Defaults()
	if t.Thumbnail == "" {
		t.Thumbnail = d.Thumbnail
	}
	if t.Preview == "" {
		t.Preview = d.Preview
	}
	if t.Viewer == "" {
		t.Viewer = d.Viewer
	}
	if t.Download == "" {
		t.Download = d.Download
	}

	b := &Builder{}
	for _, p := range []struct {
		name string
		raw  string
		dst  **uritemplate.Template
	}{
		{"thumbnail", t.Thumbnail, &b.thumbnail},
		{"preview", t.Preview, &b.preview},
		{"viewer", t.Viewer, &b.viewer},
		{"download", t.Download, &b.download},
	} {
		tpl, err := uritemplate.New(p.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s template %q: %w", p.name, p.raw, err)
		}
		if !hasIDVar(tpl) {
			return nil, fmt.Errorf("%s template %q has no {id} variable", p.name, p.raw)
		}
		*p.dst = tpl
	}
	return b, nil
}

// MustDefault returns a builder over the default templates.
func MustDefault() *Builder {
	b, err := NewBuilder(Defaults())
	if err != nil {
		panic(err)
	}
	return b
}

func hasIDVar(tpl *uritemplate.Template) bool {
	for _, name := range tpl.Varnames() {
		if name == "id" {
			return true
		}
	}
	return false
}

// Thumbnail returns the thumbnail image URL.
func (b *Builder) Thumbnail(id string) string { return expand(b.thumbnail, id) }

// Preview returns the embeddable player URL.
func (b *Builder) Preview(id string) string { return expand(b.preview, id) }

// Viewer returns the shareable viewer URL.
func (b *Builder) Viewer(id string) string { return expand(b.viewer, id) }

// Download returns the direct download URL.
func (b *Builder) Download(id string) string { return expand(b.download, id) }

func expand(tpl *uritemplate.Template, id string) string {
	vals := uritemplate.Values{}
	vals.Set("id", uritemplate.String(id))
	s, err := tpl.Expand(vals)
	if err != nil {
		// only string values are bound, so expansion cannot fail
		return ""
	}
	return s
}
