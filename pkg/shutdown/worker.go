package shutdown

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// BackgroundWorker runs one long-lived goroutine that stops when its
// context is cancelled
type BackgroundWorker struct {
	name   string
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBackgroundWorker creates a worker. The work context is detached from
// any request and is cancelled only by Shutdown.
func NewBackgroundWorker(name string, logger *zap.Logger) *BackgroundWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &BackgroundWorker{
		name:   name,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start runs work in a goroutine
func (w *BackgroundWorker) Start(work func(ctx context.Context)) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Debug("Background worker started", zap.String("worker", w.name))
		work(w.ctx)
		w.logger.Debug("Background worker stopped", zap.String("worker", w.name))
	}()
}

// Shutdown cancels the worker and waits for it, or for ctx
func (w *BackgroundWorker) Shutdown(ctx context.Context) error {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		w.logger.Warn("Background worker shutdown timeout", zap.String("worker", w.name))
		return ctx.Err()
	}
}
