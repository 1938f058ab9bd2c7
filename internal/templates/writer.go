package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bookbuilder/internal/foundation/errors"
)

// WritePage writes content to outDir/fileName.html and returns the full path.
//
// The file is written to a temporary sibling and renamed into place so the
// dev server never serves a half-written page.
func WritePage(outDir, fileName string, content []byte) (string, error) {
	if fileName == "" || strings.ContainsAny(fileName, `/\`) || strings.HasPrefix(fileName, "..") {
		return "", errors.ValidationError("invalid page file name").WithContext("file", fileName).Build()
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("dir", outDir).Fatal().Build()
	}

	fullPath := filepath.Join(outDir, fileName+extension)
	tmp, err := os.CreateTemp(outDir, "."+fileName+"-*.tmp")
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "create output file").
			WithContext("path", fullPath).Fatal().Build()
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close output file: %w", err)
	}
	// #nosec G302 -- pages are served publicly.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "move output file into place").
			WithContext("path", fullPath).Fatal().Build()
	}
	return fullPath, nil
}
