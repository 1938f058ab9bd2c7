package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the env files in dir that exist. Variables already set
// in the process environment win.
func loadEnvFiles(dir string) error {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "load env file").
				WithContext("path", path).Fatal().Build()
		}
		slog.Debug("Loaded environment variables", logfields.Path(path))
	}
	return nil
}
