// Package metrics records docwiki run and stage metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics are
// opt-in and call sites never nil-check:
//
//	type Processor struct {
//	    recorder metrics.Recorder
//	}
//
// The CLI swaps in a PrometheusRecorder when --metrics-file is set and writes
// the registry in the node_exporter textfile format once the command finishes:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	// ... run ...
//	err := metrics.WriteTextfile(reg, "/var/lib/node_exporter/docwiki.prom")
package metrics
