// Package metrics defines the Prometheus instrumentation for the mail
// relay: send outcomes, validation rejections and connection attempts.
package metrics
