package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tg_garant"

// DealMetrics — счётчики жизненного цикла сделок для /metrics.
type DealMetrics struct {
	Created   prometheus.Counter
	Completed prometheus.Counter
	Stopped   prometheus.Counter
	Expired   prometheus.Counter
	Live      prometheus.Gauge
}

func NewDealMetrics() *DealMetrics {
	return NewDealMetricsWith(prometheus.DefaultRegisterer)
}

// NewDealMetricsWith позволяет тестам использовать отдельный registry.
func NewDealMetricsWith(reg prometheus.Registerer) *DealMetrics {
	factory := promauto.With(reg)

	return &DealMetrics{
		Created: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deals",
			Name:      "created_total",
			Help:      "Deals created.",
		}),
		Completed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deals",
			Name:      "completed_total",
			Help:      "Deals finished with status done.",
		}),
		Stopped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deals",
			Name:      "stopped_total",
			Help:      "Deals stopped by a party.",
		}),
		Expired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deals",
			Name:      "expired_total",
			Help:      "Deals removed by the expiry sweep.",
		}),
		Live: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "deals",
			Name:      "live",
			Help:      "Deals currently in the live registry.",
		}),
	}
}
