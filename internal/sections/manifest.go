package sections

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
)

// Lines decodes either a YAML sequence of strings or a block scalar split on
// newlines. A block scalar keeps blank lines, including leading and trailing
// ones when written with the keep ("|+") indicator.
type Lines []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Lines) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*l = nil
			return nil
		}
		*l = strings.Split(strings.TrimSuffix(node.Value, "\n"), "\n")
		return nil
	case yaml.SequenceNode:
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return err
		}
		*l = lines
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of lines", node.Line)
	}
}

type manifest struct {
	Chapter  string            `yaml:"chapter"`
	Sections []manifestSection `yaml:"sections"`
}

type manifestSection struct {
	Number        int    `yaml:"number"`
	Path          string `yaml:"path"`
	Language      string `yaml:"language,omitempty"`
	Location      string `yaml:"location,omitempty"`
	ContextBefore Lines  `yaml:"context_before,omitempty"`
	ContextAfter  Lines  `yaml:"context_after,omitempty"`
	Removed       Lines  `yaml:"removed,omitempty"`
	Added         Lines  `yaml:"added,omitempty"`
}

// Loader produces a fresh section snapshot.
type Loader interface {
	Load() (Provider, error)
}

// ManifestLoader reads one YAML manifest per chapter from Dir. Each manifest
// names its chapter and lists that chapter's sections.
type ManifestLoader struct {
	Dir string
}

// Load implements Loader. A missing directory yields an empty snapshot.
func (m ManifestLoader) Load() (Provider, error) {
	files, err := m.files()
	if err != nil {
		return nil, err
	}
	snapshot := make(Snapshot)
	for _, file := range files {
		if err := loadManifest(file, snapshot); err != nil {
			return nil, err
		}
	}
	slog.Debug("Loaded code sections", logfields.Path(m.Dir), logfields.Count(len(snapshot)))
	return snapshot, nil
}

// LatestModTime returns the newest modification time among the manifests.
func (m ManifestLoader) LatestModTime() (time.Time, error) {
	files, err := m.files()
	if err != nil {
		return time.Time{}, err
	}
	var latest time.Time
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return time.Time{}, errors.WrapError(err, errors.CategoryFileSystem, "stat manifest").
				WithContext("path", file).Build()
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest, nil
}

func (m ManifestLoader) files() ([]string, error) {
	if m.Dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(m.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read section manifests").
			WithContext("path", m.Dir).Build()
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(m.Dir, entry.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

func loadManifest(path string, into Snapshot) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "read section manifest").
			WithContext("path", path).Build()
	}
	var doc manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "parse section manifest").
			WithContext("path", path).Build()
	}
	if doc.Chapter == "" {
		return errors.ConfigError("section manifest does not name its chapter").
			WithContext("path", path).Build()
	}
	if _, dup := into[doc.Chapter]; dup {
		return errors.ConfigError("chapter has more than one section manifest").
			WithContext("path", path).
			WithContext("chapter", doc.Chapter).Build()
	}

	chapter := make(map[int]*Section, len(doc.Sections))
	for _, s := range doc.Sections {
		if s.Number <= 0 {
			return errors.ConfigError("section numbers must be positive").
				WithContext("path", path).
				WithContext("number", s.Number).Build()
		}
		if _, dup := chapter[s.Number]; dup {
			return errors.ConfigError("duplicate section number").
				WithContext("path", path).
				WithContext("number", s.Number).Build()
		}
		language := s.Language
		if language == "" {
			language = LanguageFor(s.Path)
		}
		chapter[s.Number] = &Section{
			Language:      language,
			Path:          s.Path,
			Location:      s.Location,
			ContextBefore: s.ContextBefore,
			ContextAfter:  s.ContextAfter,
			Removed:       s.Removed,
			Added:         s.Added,
		}
	}
	into[doc.Chapter] = chapter
	return nil
}
