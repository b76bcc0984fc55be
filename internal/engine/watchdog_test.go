package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nirradi/sparrownet/internal/shell"
)

func TestWatchdog_WarnsWhenInputStaysDisabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	core, logs := observer.New(zap.WarnLevel)
	store := shell.NewStore()
	store.Dispatch(shell.InputEntered{Value: "slow"})

	w := NewWatchdog(store, zap.New(core), 40*time.Millisecond)
	w.Start()
	defer w.Stop()

	deadline := time.After(2 * time.Second)
	for logs.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("watchdog never warned about the stuck session")
		case <-time.After(10 * time.Millisecond):
		}
	}

	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "input disabled")

	// One stuck stretch warns once, not once per poll.
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, logs.Len())
}

func TestWatchdog_QuietWhileInputEnabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	core, logs := observer.New(zap.WarnLevel)
	store := shell.NewStore()

	w := NewWatchdog(store, zap.New(core), 20*time.Millisecond)
	w.Start()
	time.Sleep(100 * time.Millisecond)
	w.Stop()

	assert.Zero(t, logs.Len())
}

func TestWatchdog_RearmsAfterRecovery(t *testing.T) {
	defer goleak.VerifyNone(t)

	core, logs := observer.New(zap.WarnLevel)
	store := shell.NewStore()
	store.Dispatch(shell.InputEntered{Value: "slow"})

	w := NewWatchdog(store, zap.New(core), 30*time.Millisecond)
	w.Start()
	defer w.Stop()

	waitForLogs := func(n int) {
		deadline := time.After(2 * time.Second)
		for logs.Len() < n {
			select {
			case <-deadline:
				t.Fatalf("watchdog warnings = %d, want %d", logs.Len(), n)
			case <-time.After(10 * time.Millisecond):
			}
		}
	}

	waitForLogs(1)

	// Recovery resets the clock; a fresh stuck stretch warns again.
	store.Dispatch(shell.ReturnInput{})
	time.Sleep(50 * time.Millisecond)
	store.Dispatch(shell.InputEntered{Value: "slow again"})
	waitForLogs(2)
}

func TestNewWatchdog_DefaultThreshold(t *testing.T) {
	w := NewWatchdog(shell.NewStore(), zap.NewNop(), 0)
	assert.Equal(t, defaultStuckThreshold, w.threshold)
}
