package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "pagesmith.yaml").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		require.Equal(t, "pagesmith.yaml", file)
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := ContentFormatError("bad post name").Build()
		wrapped := fmt.Errorf("process post: %w", inner)

		classified, ok := AsClassified(wrapped)
		require.True(t, ok)
		require.Same(t, inner, classified)
		require.True(t, HasCategory(wrapped, CategoryContentFormat))
		require.Equal(t, CategoryContentFormat, GetCategory(wrapped))
		require.Equal(t, SeverityError, classified.Severity())
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		err := stderrors.New("plain")
		_, ok := AsClassified(err)
		require.False(t, ok)
		require.Equal(t, CategoryInternal, GetCategory(err))
		require.False(t, IsFatal(err))
	})

	t.Run("Cause unwrapping", func(t *testing.T) {
		cause := stderrors.New("permission denied")
		err := WrapError(cause, CategoryFileSystem, "write output").Build()

		require.ErrorIs(t, err, cause)
		require.Equal(t, "[filesystem] write output: permission denied", err.Error())
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := LookupError("no entry point").Build()
		derived := base.WithContext("unit", "About")

		_, ok := base.Context().Get("unit")
		require.False(t, ok)
		unit, _ := derived.Context().GetString("unit")
		require.Equal(t, "About", unit)
		require.ErrorIs(t, derived, base)
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
	}{
		{"ContentFormatError", ContentFormatError("x"), CategoryContentFormat, SeverityError},
		{"CompilationError", CompilationError("x"), CategoryCompilation, SeverityError},
		{"LookupError", LookupError("x"), CategoryLookup, SeverityError},
		{"RenderError", RenderError("x"), CategoryRender, SeverityError},
		{"FileSystemError", FileSystemError("x"), CategoryFileSystem, SeverityError},
		{"ConfigError", ConfigError("x"), CategoryConfig, SeverityFatal},
		{"ValidationError", ValidationError("x"), CategoryValidation, SeverityFatal},
		{"HistoryError", HistoryError("x"), CategoryHistory, SeverityWarning},
		{"InternalError", InternalError("x"), CategoryInternal, SeverityFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			require.Equal(t, tt.category, err.Category())
			require.Equal(t, tt.severity, err.Severity())
		})
	}
}

func TestErrorContextMerge(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	v1, _ := merged.GetString("key1")
	v2, _ := merged.GetString("key2")
	shared, _ := merged.GetString("shared")
	require.Equal(t, "value1", v1)
	require.Equal(t, "value2", v2)
	require.Equal(t, "overridden", shared)

	var nilCtx ErrorContext
	require.Equal(t, ctx2, nilCtx.Merge(ctx2))
}

func TestIsFatal(t *testing.T) {
	require.True(t, IsFatal(ConfigError("bad").Build()))
	require.True(t, IsFatal(fmt.Errorf("wrapped: %w", InternalError("boom").Build())))
	require.False(t, IsFatal(ContentFormatError("bad header").Build()))
	require.False(t, IsFatal(HistoryError("locked").Build()))
	require.False(t, IsFatal(stderrors.New("plain")))
	require.False(t, IsFatal(nil))
}
