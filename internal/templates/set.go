// Package templates loads the html/template set pages are rendered with and
// writes the rendered pages to the output directory.
//
// Every *.html file in the templates directory becomes a named template,
// addressed without its extension ("page", "part", "contents"). Templates may
// call {{ file "Hash Tables" }} to link to another page.
package templates

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
)

const extension = ".html"

// Set is a parsed template directory.
type Set struct {
	dir      string
	tpl      *template.Template
	modified time.Time
}

// Load parses every template in dir. fileName maps a page title to its
// output file name and backs the file template func.
func Load(dir string, fileName func(title string) string) (*Set, error) {
	pattern := filepath.Join(dir, "*"+extension)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.ConfigError("no templates found").WithContext("dir", dir).Build()
	}

	funcs := template.FuncMap{
		"file": func(title string) string { return fileName(title) + extension },
	}
	tpl, err := template.New(filepath.Base(dir)).Funcs(funcs).Option("missingkey=error").ParseFiles(paths...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "parse templates").
			WithContext("dir", dir).
			Fatal().
			Build()
	}

	modified, err := LatestModTime(dir)
	if err != nil {
		return nil, err
	}
	return &Set{dir: dir, tpl: tpl, modified: modified}, nil
}

// Has reports whether a template named name exists.
func (s *Set) Has(name string) bool {
	return s.tpl.Lookup(name+extension) != nil
}

// Modified returns the newest modification time seen when the set was loaded.
func (s *Set) Modified() time.Time {
	return s.modified
}

// Render executes the template called name with data.
func (s *Set) Render(w io.Writer, name string, data any) error {
	if !s.Has(name) {
		return errors.RenderError("missing template").
			WithContext("template", name).
			WithContext("dir", s.dir).
			Build()
	}
	if err := s.tpl.ExecuteTemplate(w, name+extension, data); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "execute template").
			WithContext("template", name).
			Fatal().
			Build()
	}
	return nil
}

// LatestModTime returns the newest modification time of the templates in
// dir, or the zero time when there are none.
func LatestModTime(dir string) (time.Time, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+extension))
	if err != nil {
		return time.Time{}, fmt.Errorf("glob templates: %w", err)
	}
	var latest time.Time
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return time.Time{}, fmt.Errorf("stat template %s: %w", path, err)
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest, nil
}
