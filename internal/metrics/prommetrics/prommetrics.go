package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pricingRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_requests_total",
			Help: "Total number of pricing calculations",
		},
	)

	pricingRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_request_duration_seconds",
			Help:    "Pricing calculation latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Sink пишет метрики расчёта в промовский default registry; наружу их
// отдаёт /metrics в pricing_api.
type Sink struct{}

func New() *Sink { return &Sink{} }

func (*Sink) IncRequests() {
	pricingRequestsTotal.Inc()
}

func (*Sink) ObserveLatency(d time.Duration) {
	pricingRequestDuration.Observe(d.Seconds())
}
