package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "book.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "book.yaml" {
			t.Errorf("expected context file=book.yaml, got %v", file)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := DirectiveError("unknown directive").Build()
		wrapped := fmt.Errorf("page %q: %w", "Strings", err)

		if !IsClassified(wrapped) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryDirective) {
			t.Error("expected wrapped error to have directive category")
		}
		if !err.IsFatal() {
			t.Error("expected directive error to be fatal")
		}
	})

	t.Run("Unclassified errors default to internal", func(t *testing.T) {
		if got := GetCategory(errors.New("plain")); got != CategoryInternal {
			t.Errorf("expected %s, got %s", CategoryInternal, got)
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("original error")
	err := WrapError(originalErr, CategoryFileSystem, "write failed").
		WithSeverity(SeverityWarning).
		WithContext("path", "site/strings.html").
		WithContext(ContextPage, "Strings").
		Build()

	if err.Severity() != SeverityWarning {
		t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
	}
	if !errors.Is(err, originalErr) {
		t.Error("expected error to wrap original error")
	}
	if page, _ := err.Context().GetString("page"); page != "Strings" {
		t.Errorf("expected page context 'Strings', got %s", page)
	}
}

func TestClassifiedErrorWithContextDoesNotMutate(t *testing.T) {
	base := TOCError("lookup miss").Build()
	derived := base.WithContext("name", "Strings")

	if _, ok := base.Context().Get("name"); ok {
		t.Error("expected base context to be unchanged")
	}
	if name, _ := derived.Context().GetString("name"); name != "Strings" {
		t.Errorf("expected derived context name=Strings, got %q", name)
	}
	if !errors.Is(derived, base) {
		t.Error("expected derived error to match base by category and message")
	}
}

func TestErrorContextMerge(t *testing.T) {
	var nilCtx ErrorContext
	other := ErrorContext{"a": 1}
	if got := nilCtx.Merge(other); got["a"] != 1 {
		t.Errorf("expected merge into nil to return other, got %v", got)
	}
	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	if merged["a"] != 1 || merged["b"] != 3 {
		t.Errorf("unexpected merge result %v", merged)
	}
}

func TestErrorLocation(t *testing.T) {
	err := DirectiveError("unknown directive command").Build().AtLine("Strings", 12)
	if got, want := err.Error(), "Strings:12: [directive:fatal] unknown directive command"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	pageOnly := NewError(CategoryFileSystem, "chapter source not found").WithContext(ContextPage, "Hash Tables").Build()
	if got := pageOnly.Location(); got != "Hash Tables" {
		t.Errorf("Location() = %q, want %q", got, "Hash Tables")
	}

	if got := ConfigError("bad").Build().Location(); got != "" {
		t.Errorf("Location() = %q, want empty", got)
	}

	untitled := DirectiveError("chapter has no ^title").Build().AtLine("", 4)
	if _, ok := untitled.Context().Get(ContextPage); ok {
		t.Error("expected an empty page to be left out of the context")
	}
	if line, _ := untitled.Context().Get(ContextLine); line != 4 {
		t.Errorf("expected line 4, got %v", line)
	}

	wrapped := WrapError(errors.New("permission denied"), CategoryFileSystem, "write page").Build()
	if got, want := wrapped.Error(), "[filesystem:error] write page: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
