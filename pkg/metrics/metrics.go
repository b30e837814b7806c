package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailservice_send_success_total",
		Help: "Total number of messages accepted by the upstream relay",
	}, []string{"host"})
	SendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailservice_send_failure_total",
		Help: "Total number of messages rejected by the upstream relay",
	}, []string{"host"})
	ValidationRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailservice_validation_rejected_total",
		Help: "Total number of send requests rejected before any transport interaction",
	}, []string{"reason"})
	ConnectAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailservice_connect_attempts_total",
		Help: "Total number of relay verification attempts by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(SendSuccess)
	prometheus.MustRegister(SendFailure)
	prometheus.MustRegister(ValidationRejected)
	prometheus.MustRegister(ConnectAttempts)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
