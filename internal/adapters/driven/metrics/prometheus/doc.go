// Package prometheus records indexing runs as Prometheus metrics.
//
// A run is a short-lived batch process, so metrics live in a private
// registry and are exported as a node_exporter textfile at the end of a run.
package prometheus
