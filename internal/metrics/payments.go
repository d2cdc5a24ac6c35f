// Package metrics содержит счетчики Prometheus для платежного workflow.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payments by status (created/confirmed/provider_error).",
		},
		[]string{"status"},
	)

	accessGrantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_grants_total",
			Help: "Activated access grants by target kind (content/service).",
		},
		[]string{"target"},
	)
)

// MustRegister регистрирует все счетчики пакета ровно один раз.
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(paymentsTotal, accessGrantsTotal)
	})
}

// IncPayment увеличивает счетчик платежей с заданным статусом.
func IncPayment(status string) {
	paymentsTotal.WithLabelValues(status).Inc()
}

// IncAccessGrant увеличивает счетчик активированных прав доступа.
func IncAccessGrant(target string) {
	accessGrantsTotal.WithLabelValues(target).Inc()
}
