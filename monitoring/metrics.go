package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	purchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_purchases_total",
			Help: "Checkout attempts by seating mode and outcome",
		},
		[]string{"mode", "status"},
	)

	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_tickets_issued_total",
			Help: "Tickets materialized at purchase",
		},
		[]string{"mode", "event_id"},
	)

	orderValue = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_order_value_dollars",
			Help:    "Order totals including fee and tax",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
		[]string{"mode"},
	)

	seatToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_seat_holds_total",
			Help: "Seat hold requests by outcome",
		},
		[]string{"result"},
	)

	cardOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_card_operations_total",
			Help: "Payment card registry operations",
		},
		[]string{"operation", "status"},
	)

	ticketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_ticket_operations_total",
			Help: "Refunds and cancellations",
		},
		[]string{"operation", "status"},
	)

	persistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_persistence_failures_total",
			Help: "Failed store calls, including circuit breaker rejections",
		},
		[]string{"store", "operation"},
	)

	rateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"reason"},
	)
)

func TrackPurchase(mode, status string) {
	purchases.WithLabelValues(mode, status).Inc()
}

func TrackTicketsIssued(mode, eventID string, n int) {
	ticketsIssued.WithLabelValues(mode, eventID).Add(float64(n))
}

func TrackOrderValue(mode string, total decimal.Decimal) {
	v, _ := total.Float64()
	orderValue.WithLabelValues(mode).Observe(v)
}

func TrackSeatHold(result string) {
	seatToggles.WithLabelValues(result).Inc()
}

func TrackCardOperation(operation, status string) {
	cardOperations.WithLabelValues(operation, status).Inc()
}

func TrackTicketOperation(operation, status string) {
	ticketOperations.WithLabelValues(operation, status).Inc()
}

func TrackPersistenceFailure(store, operation string) {
	persistenceFailures.WithLabelValues(store, operation).Inc()
}

func TrackRateLimited(reason string) {
	rateLimited.WithLabelValues(reason).Inc()
}
