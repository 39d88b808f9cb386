package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tg_garant/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// DealSweeper — один проход экспирации; возвращает число убранных сделок.
type DealSweeper interface {
	Sweep(ctx context.Context, now time.Time) int
}

// ExpirySweeper периодически убирает просроченные сделки из реестра.
// Интервал короткий: дедлайн должен срабатывать с точностью до секунд.
type ExpirySweeper struct {
	deals    DealSweeper
	interval time.Duration

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewExpirySweeper(deals DealSweeper) *ExpirySweeper {
	return &ExpirySweeper{
		deals:    deals,
		interval: 5 * time.Second,
	}
}

func (w *ExpirySweeper) WithInterval(interval time.Duration) *ExpirySweeper {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

func (w *ExpirySweeper) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("sweeper is already running")
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(sweepCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("sweeper stopped with error", "error", err)
		}
	}()

	return nil
}

func (w *ExpirySweeper) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *ExpirySweeper) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *ExpirySweeper) Run(ctx context.Context) error {
	logger(ctx).Info("expiry sweeper started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("expiry sweeper stopped")
			return ctx.Err()
		case now := <-ticker.C:
			if removed := w.deals.Sweep(ctx, now); removed > 0 {
				logger(ctx).Info("expired deals removed", slog.Int("count", removed))
			}
		}
	}
}
