package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	Complete   = "complete"
	Incomplete = "incomplete"
	Trimmed    = "trimmed"
	Selected   = "selected"
	Skipped    = "skipped"
)

var Observer = &Metrics{
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.Checkpoints, Observer.prometheus.Experiments)
}

type Metrics struct {
	prometheus Prometheus
}

// Checkpoint counts a checkpoint check with the given outcome.
func (m *Metrics) Checkpoint(outcome string) {
	m.prometheus.Checkpoints.WithLabelValues(outcome).Inc()
}

// Experiment counts an experiment evaluation with the given outcome.
func (m *Metrics) Experiment(outcome string) {
	m.prometheus.Experiments.WithLabelValues(outcome).Inc()
}

// Checkpoints returns the checkpoint counter for the given outcome.
func (m *Metrics) Checkpoints(outcome string) prometheus.Counter {
	return m.prometheus.Checkpoints.WithLabelValues(outcome)
}

// Experiments returns the experiment counter for the given outcome.
func (m *Metrics) Experiments(outcome string) prometheus.Counter {
	return m.prometheus.Experiments.WithLabelValues(outcome)
}

// Serve exposes the metrics on the given port in the background.
func Serve(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
		if err != nil {
			log.Error().Err(err).Int("port", port).Msg("metrics server stopped")
		}
	}()
	log.Info().Int("port", port).Msg("serving metrics")
}
