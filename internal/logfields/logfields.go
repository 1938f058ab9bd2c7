package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPage       = "page"
	KeyChapter    = "chapter"
	KeyPart       = "part"
	KeySection    = "section"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyTemplate   = "template"
	KeyDurationMS = "duration_ms"
	KeyWords      = "words"
	KeyCount      = "count"
	KeyStatus     = "status"
	KeyMethod     = "method"
	KeyURL        = "url"
	KeyPort       = "port"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Page(name string) slog.Attr       { return slog.String(KeyPage, name) }
func Chapter(name string) slog.Attr    { return slog.String(KeyChapter, name) }
func Part(name string) slog.Attr       { return slog.String(KeyPart, name) }
func Section(n int) slog.Attr          { return slog.Int(KeySection, n) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Words(n int) slog.Attr            { return slog.Int(KeyWords, n) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Port(p int) slog.Attr             { return slog.Int(KeyPort, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
