// Package config loads and validates book.yaml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/toc"
)

// Config represents the book configuration.
type Config struct {
	Book  BookConfig  `yaml:"book"`
	Paths PathsConfig `yaml:"paths"`
	Serve ServeConfig `yaml:"serve"`
	Watch WatchConfig `yaml:"watch"`
	TOC   []toc.Part  `yaml:"toc"`
}

// BookConfig names the pages that get reserved file names.
type BookConfig struct {
	Title        string `yaml:"title"`
	TitlePage    string `yaml:"title_page,omitempty"`    // written to index.html
	ContentsPage string `yaml:"contents_page,omitempty"` // written to contents.html
}

// PathsConfig locates the inputs and the output of a build.
type PathsConfig struct {
	Book      string   `yaml:"book"`      // chapter markdown files
	Code      string   `yaml:"code"`      // section manifests
	Sources   []string `yaml:"sources"`   // globs of the book's source code
	Templates string   `yaml:"templates"` // page templates
	Output    string   `yaml:"output"`
}

// ServeConfig configures the dev server.
type ServeConfig struct {
	Port       int  `yaml:"port"`
	LiveReload bool `yaml:"live_reload"`
	Metrics    bool `yaml:"metrics"`
}

// WatchConfig configures rebuilds in watch mode.
type WatchConfig struct {
	Poll     bool          `yaml:"poll"`     // poll on Interval instead of filesystem events
	Interval time.Duration `yaml:"interval"` // poll interval
	Debounce time.Duration `yaml:"debounce"` // quiet period after filesystem events
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Book: BookConfig{ContentsPage: "Table of Contents"},
		Paths: PathsConfig{
			Book:      "book",
			Code:      "code",
			Templates: "asset/template",
			Output:    "site",
		},
		Serve: ServeConfig{Port: 8000, LiveReload: true, Metrics: true},
		Watch: WatchConfig{Interval: 2 * time.Second, Debounce: 300 * time.Millisecond},
	}
}

// Load loads configuration from configPath. Environment variables from
// .env and .env.local next to it are loaded first and ${VAR} references in
// the file are expanded. Relative paths are resolved against the file's
// directory.
func Load(configPath string) (*Config, error) {
	baseDir := filepath.Dir(configPath)
	if err := loadEnvFiles(baseDir); err != nil {
		return nil, err
	}

	// #nosec G304 -- the config path is chosen by the user.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				WithContext("hint", "run 'bookbuilder init' to create one").
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration file").
			WithContext("path", configPath).Fatal().Build()
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parse configuration file").
			WithContext("path", configPath).Fatal().Build()
	}
	cfg.resolvePaths(baseDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolvePaths(baseDir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	c.Paths.Book = resolve(c.Paths.Book)
	c.Paths.Code = resolve(c.Paths.Code)
	c.Paths.Templates = resolve(c.Paths.Templates)
	c.Paths.Output = resolve(c.Paths.Output)
	for i, glob := range c.Paths.Sources {
		c.Paths.Sources[i] = resolve(glob)
	}
}

// BuildTOC derives the table of contents, with its numbering and page order.
func (c *Config) BuildTOC() (*toc.TOC, error) {
	return toc.New(c.TOC, toc.WithTitlePage(c.Book.TitlePage), toc.WithContentsPage(c.Book.ContentsPage))
}

// ChapterPath returns the markdown source path of a page.
func (c *Config) ChapterPath(fileName string) string {
	return filepath.Join(c.Paths.Book, fileName+".md")
}
