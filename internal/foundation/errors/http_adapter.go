package errors

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter presents build failures to the browser during preview.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter with an optional slog logger.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// StatusCodeFor determines the HTTP status code for a given error based on
// its classification. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch GetCategory(err) {
	case CategoryDirective, CategoryTOC, CategoryValidation:
		return http.StatusUnprocessableEntity
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryRuntime:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as a minimal HTML page so it shows up where the
// chapter would have been.
func (a *HTTPErrorAdapter) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := a.StatusCodeFor(err)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "<!DOCTYPE html>\n<html><body><h1>Build failed</h1>\n<pre>%s</pre>\n</body></html>\n",
		html.EscapeString(err.Error()))
	a.logger.Log(r.Context(), slog.LevelError, "Build failed for request",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()))
}
