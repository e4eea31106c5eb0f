package resilience

import (
	"context"
	"testing"
	"time"
)

func TestDefaultTimeoutConfig(t *testing.T) {
	config := DefaultTimeoutConfig()

	if config.HTTPHandler != 60*time.Second {
		t.Errorf("Expected HTTPHandler = 60s, got %v", config.HTTPHandler)
	}

	if config.GatewayCall != 30*time.Second {
		t.Errorf("Expected GatewayCall = 30s, got %v", config.GatewayCall)
	}
}

func TestTimeoutHierarchyPreservation(t *testing.T) {
	for name, config := range map[string]*TimeoutConfig{
		"default": DefaultTimeoutConfig(),
		"test":    TestTimeoutConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			if config.Notification >= config.HTTPHandler {
				t.Errorf("Notification (%v) must be < HTTPHandler (%v)", config.Notification, config.HTTPHandler)
			}
			if config.GatewayCall >= config.Notification {
				t.Errorf("GatewayCall (%v) must be < Notification (%v)", config.GatewayCall, config.Notification)
			}
			if config.SideChannel >= config.HTTPHandler {
				t.Errorf("SideChannel (%v) must be < HTTPHandler (%v)", config.SideChannel, config.HTTPHandler)
			}
			if config.Database >= config.GatewayCall {
				t.Errorf("Database (%v) must be < GatewayCall (%v)", config.Database, config.GatewayCall)
			}
		})
	}
}

func TestAllContextCreators(t *testing.T) {
	config := DefaultTimeoutConfig()

	tests := []struct {
		name     string
		fn       func(context.Context) (context.Context, context.CancelFunc)
		expected time.Duration
	}{
		{"HandlerContext", config.HandlerContext, config.HTTPHandler},
		{"NotificationContext", config.NotificationContext, config.Notification},
		{"SideChannelContext", config.SideChannelContext, config.SideChannel},
		{"DatabaseContext", config.DatabaseContext, config.Database},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.fn(context.Background())
			defer cancel()

			deadline, ok := ctx.Deadline()
			if !ok {
				t.Fatal("Expected context to have deadline")
			}

			remaining := time.Until(deadline)
			if remaining > tt.expected || remaining < tt.expected-time.Second {
				t.Errorf("Deadline in %v, want about %v", remaining, tt.expected)
			}
		})
	}
}

func TestContextCancellationPropagation(t *testing.T) {
	config := DefaultTimeoutConfig()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := config.NotificationContext(parent)
	defer cancel()

	cancelParent()

	select {
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond):
		t.Error("Child context was not cancelled when parent was cancelled")
	}
}

func TestSideChannelContext_DetachedFromParent(t *testing.T) {
	config := TestTimeoutConfig()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := config.SideChannelContext(parent)
	defer cancel()

	cancelParent()

	select {
	case <-ctx.Done():
		t.Error("Side channel context must outlive the request context")
	case <-time.After(50 * time.Millisecond):
	}

	if _, ok := ctx.Deadline(); !ok {
		t.Error("Expected side channel context to keep its own deadline")
	}
}
