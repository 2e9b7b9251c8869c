package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the wallet service.
type Metrics struct {
	CredentialsIssued   *prometheus.CounterVec
	IssuanceFailures    *prometheus.CounterVec
	RevocationsTotal    prometheus.Counter
	StatusProofsIssued  prometheus.Counter
	StatusCheckDuration prometheus.Histogram
	UsersRegistered     prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CredentialsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_credentials_issued_total",
			Help: "Total number of verifiable credentials issued, by type",
		}, []string{"type"}),
		IssuanceFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_issuance_failures_total",
			Help: "Total number of failed issuance attempts, by error code",
		}, []string{"code"}),
		RevocationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_credentials_revoked_total",
			Help: "Total number of credential revocations recorded",
		}),
		StatusProofsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_status_proofs_issued_total",
			Help: "Total number of signed status proofs issued",
		}),
		StatusCheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_status_check_duration_seconds",
			Help:    "Latency of status registry lookups",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_users_registered_total",
			Help: "Total number of users registered in the system",
		}),
	}
}

// RecordIssued increments the issued counter for a credential type.
func (m *Metrics) RecordIssued(credentialType string) {
	if m == nil {
		return
	}
	m.CredentialsIssued.WithLabelValues(credentialType).Inc()
}

// RecordIssuanceFailure increments the failure counter for an error code.
func (m *Metrics) RecordIssuanceFailure(code string) {
	if m == nil {
		return
	}
	m.IssuanceFailures.WithLabelValues(code).Inc()
}
