// Package metrics records build and dev-server metrics.
//
// Components receive a Recorder and default to NoopRecorder, so nothing needs
// nil checks:
//
//	builder := build.New(cfg, cache, metrics.NoopRecorder{})
//
// The serve and watch commands swap in a PrometheusRecorder and expose its
// registry on /metrics.
package metrics
