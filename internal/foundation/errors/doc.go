// Package errors provides the classified error primitives used across pagesmith.
//
// Every failure that crosses a package boundary is a ClassifiedError carrying a
// category (content format, compilation, lookup, filesystem, render, config),
// a severity and optional structured context. The build orchestrator uses the
// category to decide how a failed document is reported; the CLI adapter maps
// the category to an exit code.
//
// Example usage:
//
//	err := errors.ContentFormatError("missing front matter delimiter").
//		WithContext("path", path).
//		WithCause(cause).
//		Build()
package errors
