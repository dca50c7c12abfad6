// Package metrics — счётчики выпуска и проверки пропусков для Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — методы безопасны для nil-получателя
type Metrics struct {
	PassesIssued     *prometheus.CounterVec
	IssuanceFailures *prometheus.CounterVec
	Verifications    *prometheus.CounterVec
	BuildDuration    *prometheus.HistogramVec
}

// New регистрирует метрики в reg; nil означает prometheus.DefaultRegisterer
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		PassesIssued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_passes_issued_total",
			Help: "Issued wallet passes by platform",
		}, []string{"platform"}),

		IssuanceFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_issuance_failures_total",
			Help: "Failed issuance attempts by platform and error kind",
		}, []string{"platform", "kind"}),

		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_verifications_total",
			Help: "Verification token checks by result",
		}, []string{"result"}),

		BuildDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_pass_build_seconds",
			Help:    "Time to build a signed pass artifact",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"platform"}),
	}
}

func (m *Metrics) IncIssued(platform string) {
	if m != nil {
		m.PassesIssued.WithLabelValues(platform).Inc()
	}
}

// IncFailure — kind пустой для ошибок вне таксономии
func (m *Metrics) IncFailure(platform, kind string) {
	if m != nil {
		if kind == "" {
			kind = "unknown"
		}
		m.IssuanceFailures.WithLabelValues(platform, kind).Inc()
	}
}

func (m *Metrics) IncVerification(result string) {
	if m != nil {
		m.Verifications.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveBuild(platform string, d time.Duration) {
	if m != nil {
		m.BuildDuration.WithLabelValues(platform).Observe(d.Seconds())
	}
}
