package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// チェックアウトの結果件数と処理時間。
type CheckoutMetrics struct {
	Total    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "checkout_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shop",
		Name:      "checkout_duration_seconds",
		Help:      "Checkout latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"result"})

	reg.MustRegister(total, duration)
	return &CheckoutMetrics{Total: total, Duration: duration}
}

// nilでも呼べる。
func (m *CheckoutMetrics) Observe(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Total.WithLabelValues(result).Inc()
	m.Duration.WithLabelValues(result).Observe(d.Seconds())
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
