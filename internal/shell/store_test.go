package shell

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewStore(t *testing.T) {
	s := NewStore().Snapshot()

	assert.Empty(t, s.Output)
	assert.Empty(t, s.Stack)
	assert.Empty(t, s.Commands)
	assert.Empty(t, s.Prompt)
	assert.False(t, s.InputDisabled)
}

func TestStore_DispatchSerializes(t *testing.T) {
	defer goleak.VerifyNone(t)

	const writers, perWriter = 8, 50
	store := NewStore()

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				store.Dispatch(AddOutput{
					Value:       fmt.Sprintf("w%d-%d", w, i),
					ReturnInput: true,
				})
			}
		}(w)
	}
	wg.Wait()

	out := store.Snapshot().Output
	require.Len(t, out, writers*perWriter)

	seen := make(map[string]bool, len(out))
	for _, entry := range out {
		assert.False(t, seen[entry], "entry %q appended twice", entry)
		seen[entry] = true
	}
}

func TestStore_SnapshotIsStable(t *testing.T) {
	store := NewStore()
	store.Dispatch(AddOutput{Value: "first", ReturnInput: true})

	snap := store.Snapshot()
	store.Dispatch(AddOutput{Value: "second", ReturnInput: true})
	store.Dispatch(PushShell{Commands: CommandTable{}, Prompt: "sub> "})

	assert.Equal(t, []string{"first"}, snap.Output)
	assert.Empty(t, snap.Stack)
	assert.Equal(t, []string{"first", "second"}, store.Snapshot().Output)
}

func TestStore_SubscribeWakesAndCoalesces(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewStore()
	ch := store.Subscribe()

	// A burst with no reader must neither block nor pile up.
	for i := 0; i < 10; i++ {
		store.Dispatch(AddOutput{Value: fmt.Sprintf("%d", i), ReturnInput: true})
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no wakeup after dispatch burst")
	}
	assert.Len(t, store.Snapshot().Output, 10)

	select {
	case <-ch:
		t.Fatal("coalesced burst delivered more than one pending wakeup")
	default:
	}

	// The subscription stays live after a drain.
	store.Dispatch(ReturnInput{})
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no wakeup after later dispatch")
	}
}

func TestStore_MultipleSubscribers(t *testing.T) {
	store := NewStore()
	a, b := store.Subscribe(), store.Subscribe()

	store.Dispatch(AddOutput{Value: "x", ReturnInput: true})

	for name, ch := range map[string]<-chan struct{}{"a": a, "b": b} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s missed the wakeup", name)
		}
	}
}
