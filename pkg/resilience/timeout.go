package resilience

import (
	"context"
	"time"
)

// TimeoutConfig defines timeout values for the application's timeout hierarchy
//
// Timeout Hierarchy (from outermost to innermost):
//
//	HTTP Handler (60s)
//	  ↓
//	Notification processing (45s) / side channel update (20s)
//	  ↓
//	Gateway API call (30s, enforced by the HTTP client)
//	  ↓
//	Database Query (5s)
//
// Each layer completes before its parent times out.
type TimeoutConfig struct {
	HTTPHandler  time.Duration // Overall request timeout
	Notification time.Duration // Status lookup plus reconciliation of one notification
	SideChannel  time.Duration // Invoice, shipment or refund push
	GatewayCall  time.Duration // Single gateway API call
	Database     time.Duration // Single query or transaction
}

// DefaultTimeoutConfig returns production timeout values
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler:  60 * time.Second,
		Notification: 45 * time.Second,
		SideChannel:  20 * time.Second,
		GatewayCall:  30 * time.Second,
		Database:     5 * time.Second,
	}
}

// TestTimeoutConfig returns shorter timeouts for testing
func TestTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler:  5 * time.Second,
		Notification: 4 * time.Second,
		SideChannel:  2 * time.Second,
		GatewayCall:  2 * time.Second,
		Database:     1 * time.Second,
	}
}

// HandlerContext creates a context with timeout for HTTP handlers
func (tc *TimeoutConfig) HandlerContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.HTTPHandler)
}

// NotificationContext creates a context for processing one gateway notification
func (tc *TimeoutConfig) NotificationContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Notification)
}

// SideChannelContext creates a context for a best-effort gateway update.
// It is detached from parent's cancellation: the host may hang up before the
// update completes.
func (tc *TimeoutConfig) SideChannelContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), tc.SideChannel)
}

// DatabaseContext creates a context for a database query
func (tc *TimeoutConfig) DatabaseContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Database)
}
