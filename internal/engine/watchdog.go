package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/nirradi/sparrownet/internal/shell"
)

// defaultStuckThreshold is how long input may stay disabled before the
// watchdog calls the session stuck.
const defaultStuckThreshold = 5 * time.Second

// Watchdog flags handlers that never give input back. The engine has no
// handler timeout, so a handler that emits no output and no shell
// transition leaves the session with input disabled forever; during
// development that should be loud. The watchdog only logs. It never
// repairs state.
type Watchdog struct {
	store     *shell.Store
	log       *zap.Logger
	threshold time.Duration
	stop      chan struct{}
	done      chan struct{}
}

// NewWatchdog creates a watchdog over store. A non-positive threshold
// selects the default.
func NewWatchdog(store *shell.Store, log *zap.Logger, threshold time.Duration) *Watchdog {
	if threshold <= 0 {
		threshold = defaultStuckThreshold
	}
	return &Watchdog{
		store:     store,
		log:       log,
		threshold: threshold,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start begins polling on its own goroutine.
func (w *Watchdog) Start() {
	go w.run()
}

// Stop terminates the poll loop and waits for it to exit.
func (w *Watchdog) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Watchdog) run() {
	defer close(w.done)

	poll := w.threshold / 4
	if poll <= 0 {
		poll = time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var disabledSince time.Time
	warned := false

	for {
		select {
		case <-w.stop:
			return
		case now := <-ticker.C:
			if !w.store.Snapshot().InputDisabled {
				disabledSince = time.Time{}
				warned = false
				continue
			}
			if disabledSince.IsZero() {
				disabledSince = now
				continue
			}
			if !warned && now.Sub(disabledSince) >= w.threshold {
				w.log.Warn("input disabled past threshold; a handler likely never yielded",
					zap.Duration("disabled_for", now.Sub(disabledSince)),
					zap.Duration("threshold", w.threshold),
				)
				warned = true
			}
		}
	}
}
