// Package metrics records build observations.
//
// Components receive a Recorder through the build context. NoopRecorder is
// the default so callers never nil-check; the CLI swaps in a
// PrometheusRecorder when a metrics textfile is requested and writes the
// gathered families with WriteTextfile once the build finishes.
package metrics
