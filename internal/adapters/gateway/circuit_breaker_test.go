package gateway

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"
)

func TestCircuitBreaker_DefaultConfig(t *testing.T) {
	config := DefaultCircuitBreakerConfig()

	if config.MaxFailures != 5 {
		t.Errorf("Expected MaxFailures = 5, got %d", config.MaxFailures)
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("Expected Timeout = 30s, got %v", config.Timeout)
	}
	if config.MaxRequestsHalfOpen != 1 {
		t.Errorf("Expected MaxRequestsHalfOpen = 1, got %d", config.MaxRequestsHalfOpen)
	}
	if config.IsFailure == nil {
		t.Error("Expected default IsFailure classifier")
	}
}

func TestCircuitBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	for i := 0; i < 10; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("Expected success, got error: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("Expected state = closed after successes, got %v", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("Expected failures = 0, got %d", cb.Failures())
	}
}

func TestCircuitBreaker_TransitionToOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:         3,
		Timeout:             time.Second,
		MaxRequestsHalfOpen: 1,
	})

	testErr := errors.New("test error")
	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return testErr }); err != testErr {
			t.Fatalf("Expected test error, got: %v", err)
		}
	}

	if cb.State() != StateOpen {
		t.Errorf("Expected state = open after 3 failures, got %v", cb.State())
	}

	executed := false
	err := cb.Call(func() error {
		executed = true
		return nil
	})
	if err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if executed {
		t.Error("Function should not execute when circuit is open")
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:         2,
		Timeout:             50 * time.Millisecond,
		MaxRequestsHalfOpen: 1,
	})

	testErr := errors.New("test error")
	for i := 0; i < 2; i++ {
		_ = cb.Call(func() error { return testErr })
	}

	time.Sleep(80 * time.Millisecond)

	if err := cb.Call(func() error { return nil }); err != nil {
		t.Errorf("Expected success in half-open, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected state = closed after half-open success, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:         2,
		Timeout:             50 * time.Millisecond,
		MaxRequestsHalfOpen: 1,
	})

	testErr := errors.New("test error")
	for i := 0; i < 2; i++ {
		_ = cb.Call(func() error { return testErr })
	}
	time.Sleep(80 * time.Millisecond)

	if err := cb.Call(func() error { return testErr }); err != testErr {
		t.Errorf("Expected test error, got %v", err)
	}
	if cb.State() != StateOpen {
		t.Errorf("Expected state = open after half-open failure, got %v", cb.State())
	}
}

func TestCircuitBreaker_MaxRequestsHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:         1,
		Timeout:             50 * time.Millisecond,
		MaxRequestsHalfOpen: 2,
	})

	_ = cb.Call(func() error { return errors.New("test error") })
	time.Sleep(80 * time.Millisecond)

	for i := 0; i < 2; i++ {
		if err := cb.beforeCall(); err != nil {
			t.Errorf("Call %d should be allowed in half-open, got error: %v", i+1, err)
		}
	}
	if err := cb.beforeCall(); err != ErrTooManyRequests {
		t.Errorf("Expected ErrTooManyRequests, got %v", err)
	}
}

func TestCircuitBreaker_IsFailureFiltersClientErrors(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	rejected := &APIError{Operation: opCreateOrder, StatusCode: http.StatusUnprocessableEntity}
	for i := 0; i < 20; i++ {
		_ = cb.Call(func() error { return rejected })
	}

	if cb.State() != StateClosed {
		t.Errorf("Expected rejected requests to leave the circuit closed, got %v", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("Expected failures = 0, got %d", cb.Failures())
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:         1,
		Timeout:             50 * time.Millisecond,
		MaxRequestsHalfOpen: 1,
		OnStateChange: func(from, to CircuitState) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = cb.Call(func() error { return errors.New("down") })
	time.Sleep(80 * time.Millisecond)
	_ = cb.Call(func() error { return nil })

	want := []string{"closed->open", "open->half-open", "half-open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("Expected transitions %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("Transition %d: expected %s, got %s", i, want[i], transitions[i])
		}
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Hour, MaxRequestsHalfOpen: 1})
	_ = cb.Call(func() error { return errors.New("down") })

	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("Expected state = closed after reset, got %v", cb.State())
	}
	if err := cb.Call(func() error { return nil }); err != nil {
		t.Errorf("Expected call to pass after reset, got %v", err)
	}
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Call(func() error { return nil })
			_ = cb.State()
		}()
	}
	wg.Wait()

	if cb.State() != StateClosed {
		t.Errorf("Expected state = closed, got %v", cb.State())
	}
}
