package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCheckoutMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.Observe("success", 20*time.Millisecond)
	m.Observe("success", 30*time.Millisecond)
	m.Observe("empty_cart", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Total.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Total.WithLabelValues("empty_cart")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestCheckoutMetrics_NilIsNoop(t *testing.T) {
	var m *CheckoutMetrics
	assert.NotPanics(t, func() { m.Observe("success", time.Second) })
}
