package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/toc"
)

// Example returns the configuration written by Init.
func Example() *Config {
	cfg := Default()
	cfg.Book = BookConfig{
		Title:        "Example Book",
		TitlePage:    "Example Book",
		ContentsPage: "Table of Contents",
	}
	cfg.Paths.Sources = []string{"src/*.c", "src/*.h"}
	cfg.TOC = []toc.Part{
		{Chapters: []toc.Chapter{{Name: "Example Book"}, {Name: "Table of Contents"}}},
		{Name: "Welcome", Chapters: []toc.Chapter{
			{Name: "Introduction", Topics: []string{"Why write a book"}},
		}},
		{Name: "A Tiny Interpreter", Chapters: []toc.Chapter{
			{Name: "Strings", Topics: []string{"Objects", "Concatenation"}, DesignNote: "String Encoding"},
			{Name: "Hash Tables"},
		}},
	}
	return cfg
}

// Init writes the example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists").
			WithContext("path", configPath).
			WithContext("hint", "use --force to overwrite").
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// #nosec G306 -- the config file is not secret.
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write configuration file").
			WithContext("path", configPath).Fatal().Build()
	}
	return nil
}

// Scaffold creates a chapter file for every page in the TOC and the default
// templates, skipping files that already exist. It returns the created paths.
func Scaffold(cfg *Config) ([]string, error) {
	book, err := cfg.BuildTOC()
	if err != nil {
		return nil, err
	}

	files := make(map[string]string)
	for _, part := range book.Parts() {
		if !part.IsMatter() {
			files[cfg.ChapterPath(book.FileName(part.Name))] = partSource(part.Name)
		}
		for _, chapter := range part.Chapters {
			files[cfg.ChapterPath(book.FileName(chapter.Name))] = chapterSource(cfg, part, chapter)
		}
	}
	for name, body := range defaultTemplates {
		files[filepath.Join(cfg.Paths.Templates, name)] = body
	}
	if _, err := book.NumberOf("Strings"); err == nil && cfg.Paths.Code != "" {
		files[filepath.Join(cfg.Paths.Code, "strings.yaml")] = exampleManifest
	}

	var created []string
	for _, path := range slices.Sorted(maps.Keys(files)) {
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return created, errors.WrapError(err, errors.CategoryFileSystem, "create directory").
				WithContext("path", filepath.Dir(path)).Fatal().Build()
		}
		// #nosec G306 -- book sources are not secret.
		if err := os.WriteFile(path, []byte(files[path]), 0o644); err != nil {
			return created, errors.WrapError(err, errors.CategoryFileSystem, "write scaffold file").
				WithContext("path", path).Fatal().Build()
		}
		created = append(created, path)
	}
	return created, nil
}

func partSource(name string) string {
	return fmt.Sprintf("^title %s\n^template part\n\nAn overview of the chapters in this part.\n", name)
}

func chapterSource(cfg *Config, part toc.Part, chapter toc.Chapter) string {
	switch chapter.Name {
	case cfg.Book.TitlePage:
		return fmt.Sprintf("^title %s\n^template index\n\nWelcome to *%s*.\n", chapter.Name, cfg.Book.Title)
	case cfg.Book.ContentsPage:
		return fmt.Sprintf("^title %s\n^template contents\n", chapter.Name)
	case "Strings":
		return exampleChapter
	}

	src := fmt.Sprintf("^title %s\n", chapter.Name)
	if !part.IsMatter() {
		src += fmt.Sprintf("^part %s\n", part.Name)
	}
	src += "\nThis chapter has not been written yet.\n"
	for _, topic := range chapter.Topics {
		src += "\n## " + topic + "\n"
	}
	if chapter.DesignNote != "" {
		src += "\n## Design Note: " + chapter.DesignNote + "\n"
	}
	return src
}
