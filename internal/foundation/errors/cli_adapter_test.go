package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation error", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "directive error", err: DirectiveError("unknown directive").Build(), expected: 3},
		{name: "toc error", err: TOCError("missing page").Build(), expected: 3},
		{name: "config error", err: ConfigError("bad config").Build(), expected: 7},
		{name: "render error", err: RenderError("template failed").Build(), expected: 11},
		{name: "runtime error", err: NewError(CategoryRuntime, "server failed").Fatal().Build(), expected: 12},
		{name: "unclassified error", err: errors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	var logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(DirectiveError("unknown directive").WithContext("command", "cod").Build())

	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
	if !strings.Contains(out.String(), "unknown directive") || !strings.Contains(out.String(), "command: cod") {
		t.Errorf("unexpected user message %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=directive") {
		t.Errorf("expected category in log output, got %q", logs.String())
	}
}

func TestCLIErrorAdapter_FormatInternalError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)
	err := NewError(CategoryInternal, "boom").Build()

	if got := quiet.FormatError(err); got != "Internal error occurred (use -v for details)" {
		t.Errorf("unexpected quiet message %q", got)
	}
	if got := verbose.FormatError(err); !strings.Contains(got, "boom") {
		t.Errorf("expected verbose message to contain cause, got %q", got)
	}
}

func TestHTTPErrorAdapter_WriteError(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/strings.html", nil)

	adapter.WriteError(rec, req, DirectiveError(`unknown directive "^cod"`).Build())

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "&#34;^cod&#34;") {
		t.Errorf("expected escaped error in body, got %q", rec.Body.String())
	}
}
