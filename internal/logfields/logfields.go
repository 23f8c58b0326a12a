package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPath       = "path"
	KeyKind       = "kind"
	KeyURL        = "url"
	KeyOutput     = "output"
	KeyStage      = "stage"
	KeyCategory   = "category"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
