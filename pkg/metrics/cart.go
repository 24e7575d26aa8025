package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart engine activity.
type CartMetrics struct {
	mutations   *prometheus.CounterVec
	recalc      prometheus.Histogram
	retractions *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations processed, by operation.",
	}, []string{"op"})
	recalc := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_recalculation_seconds",
		Help:    "Duration of cart recalculations in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	retractions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_promotion_retractions_total",
		Help: "Promotions retracted by the recalculation pipeline, by reason.",
	}, []string{"reason"})
	reg.MustRegister(mutations, recalc, retractions)
	return &CartMetrics{
		mutations:   mutations,
		recalc:      recalc,
		retractions: retractions,
	}
}

// IncMutation increments the mutation counter for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveRecalculation records the duration of one recalculation pass.
func (c *CartMetrics) ObserveRecalculation(duration time.Duration) {
	if c == nil || c.recalc == nil {
		return
	}
	c.recalc.Observe(duration.Seconds())
}

// IncRetraction increments the promotion retraction counter for the reason.
func (c *CartMetrics) IncRetraction(reason string) {
	if c == nil || c.retractions == nil {
		return
	}
	c.retractions.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
