package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Checkout metrics
	orderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_order_requests_total",
		Help: "Total number of order requests assembled and dispatched",
	}, []string{
		"gateway", // payment option code
		"type",    // redirect, direct
		"result",  // dispatched, build_failed, gateway_failed
	})

	orderRequestAmountCents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_order_request_amount_cents_total",
		Help: "Total amount of dispatched order requests in minor units",
	}, []string{
		"gateway",
		"currency",
	})

	// Gateway API metrics
	gatewayCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_api_calls_total",
		Help: "Total gateway API calls",
	}, []string{
		"operation", // create_order, get_order, update_order, refund, wallet_session, api_token
		"result",    // success, api_error, transport_error, circuit_open
	})

	gatewayCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "gateway_api_call_duration_seconds",
		Help: "Gateway API call latency",
		// Buckets: 50ms to 30s
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"operation",
	})

	circuitBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_circuit_breaker_state",
		Help: "Gateway circuit breaker state (0=closed, 1=open, 2=half-open)",
	})

	// Notification metrics
	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Gateway notifications received, by outcome",
	}, []string{
		"outcome", // applied, duplicate, unknown_reference, foreign_module, gateway_error, invalid
	})

	statusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by mapped status and whether they were applied",
	}, []string{
		"status",
		"applied", // true, false
	})

	// Side channel metrics
	sideChannelUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "side_channel_updates_total",
		Help: "Invoice, shipment and refund updates pushed to the gateway",
	}, []string{
		"kind",   // invoice, shipment, refund
		"result", // success, failed, skipped
	})
)

// RecordOrderRequest records one checkout attempt
func RecordOrderRequest(gateway, txType, result, currency string, amountCents int64) {
	orderRequestsTotal.WithLabelValues(gateway, txType, result).Inc()

	// Only dispatched requests count toward volume
	if result == "dispatched" {
		orderRequestAmountCents.WithLabelValues(gateway, currency).Add(float64(amountCents))
	}
}

// RecordGatewayCall records a gateway API call
func RecordGatewayCall(operation, result string, duration time.Duration) {
	gatewayCallsTotal.WithLabelValues(operation, result).Inc()
	gatewayCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetCircuitBreakerState publishes the gateway circuit state
func SetCircuitBreakerState(state int) {
	circuitBreakerState.Set(float64(state))
}

// RecordNotification records the outcome of a gateway notification
func RecordNotification(outcome string) {
	notificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordStatusTransition records a mapped status and whether it changed the order
func RecordStatusTransition(status string, applied bool) {
	label := "false"
	if applied {
		label = "true"
	}
	statusTransitionsTotal.WithLabelValues(status, label).Inc()
}

// RecordSideChannelUpdate records an invoice, shipment or refund push
func RecordSideChannelUpdate(kind, result string) {
	sideChannelUpdatesTotal.WithLabelValues(kind, result).Inc()
}
