package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livevibe_orders_total",
			Help: "Order workflow outcomes by operation",
		},
		[]string{"operation", "result"},
	)

	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livevibe_tickets_issued_total",
			Help: "Tickets issued, by whether they were reused or minted",
		},
		[]string{"source"},
	)

	seatsRestored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "livevibe_seats_restored_total",
			Help: "Seats returned to inventory by refunds",
		},
	)

	notificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livevibe_notifications_failed_total",
			Help: "Notifications that could not be delivered",
		},
		[]string{"kind"},
	)

	orphanOrdersDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "livevibe_orphan_orders_deleted_total",
			Help: "Orders deleted because they no longer own any ticket",
		},
	)

	orderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "livevibe_order_duration_seconds",
			Help:    "Duration of order workflow operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func ObserveOperation(operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ordersTotal.WithLabelValues(operation, result).Inc()
	orderDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func TicketsIssued(reused, minted int) {
	ticketsIssued.WithLabelValues("reused").Add(float64(reused))
	ticketsIssued.WithLabelValues("minted").Add(float64(minted))
}

func SeatsRestored(n int) {
	seatsRestored.Add(float64(n))
}

func NotificationFailed(kind string) {
	notificationsFailed.WithLabelValues(kind).Inc()
}

func OrphanOrdersDeleted(n int64) {
	orphanOrdersDeleted.Add(float64(n))
}
