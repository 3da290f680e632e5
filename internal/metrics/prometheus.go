package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Checkpoints *prometheus.CounterVec
	Experiments *prometheus.CounterVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Checkpoints: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bitrate",
				Name:      "checkpoints",
				Help:      "checkpoint directories checked by outcome",
			}, []string{"outcome"}),
		Experiments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bitrate",
				Name:      "experiments",
				Help:      "experiment directories evaluated by outcome",
			}, []string{"outcome"}),
	}
}
