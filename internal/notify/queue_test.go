package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTimers replaces the queue's timer scheduler so tests can fire
// auto-dismiss callbacks deterministically.
type manualTimers struct {
	callbacks []func()
}

func (m *manualTimers) afterFunc(d time.Duration, f func()) *time.Timer {
	m.callbacks = append(m.callbacks, f)
	// Return a real but far-future timer so Stop() has something to act on.
	return time.AfterFunc(time.Hour, func() {})
}

func newManualQueue(onChange func([]Toast)) (*Queue, *manualTimers) {
	timers := &manualTimers{}
	q := NewQueue(onChange)
	q.afterFunc = timers.afterFunc
	return q, timers
}

func TestEnqueueAssignsUniqueIDs(t *testing.T) {
	q, _ := newManualQueue(nil)
	defer q.Close()

	id1 := q.Enqueue(Toast{Description: "first"})
	id2 := q.Enqueue(Toast{Description: "second"})

	require.NotEmpty(t, id1)
	require.NotEmpty(t, id2)
	assert.NotEqual(t, id1, id2)

	active := q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Description)
	assert.Equal(t, "second", active[1].Description)
}

func TestEnqueueDefaults(t *testing.T) {
	q, _ := newManualQueue(nil)
	defer q.Close()

	q.Enqueue(Toast{Description: "plain"})

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, VariantDefault, active[0].Variant)
	assert.Equal(t, defaultDuration, active[0].Duration)
}

func TestDismissRemovesToast(t *testing.T) {
	q, _ := newManualQueue(nil)
	defer q.Close()

	id := q.Enqueue(Toast{Description: "bye"})
	q.Dismiss(id)

	assert.Empty(t, q.Active())
}

func TestDismissUnknownIDIsNoOp(t *testing.T) {
	q, _ := newManualQueue(nil)
	defer q.Close()

	q.Enqueue(Toast{Description: "keep"})
	q.Dismiss("not-a-real-id")

	assert.Len(t, q.Active(), 1)
}

func TestDismissIsIdempotent(t *testing.T) {
	q, _ := newManualQueue(nil)
	defer q.Close()

	id := q.Enqueue(Toast{Description: "once"})
	q.Dismiss(id)
	q.Dismiss(id)

	assert.Empty(t, q.Active())
}

func TestAutoDismissTimerFires(t *testing.T) {
	q, timers := newManualQueue(nil)
	defer q.Close()

	q.Enqueue(Toast{Description: "transient", Duration: 100 * time.Millisecond})
	require.Len(t, timers.callbacks, 1)

	timers.callbacks[0]()
	assert.Empty(t, q.Active())
}

func TestNegativeDurationDisablesAutoDismiss(t *testing.T) {
	q, timers := newManualQueue(nil)
	defer q.Close()

	q.Enqueue(Toast{Description: "sticky", Duration: -1})
	assert.Empty(t, timers.callbacks)
	assert.Len(t, q.Active(), 1)
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	var snapshots [][]Toast
	q, _ := newManualQueue(func(toasts []Toast) {
		snapshots = append(snapshots, toasts)
	})
	defer q.Close()

	id := q.Enqueue(Toast{Description: "watched"})
	q.Dismiss(id)

	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[0], 1)
	assert.Empty(t, snapshots[1])
}

func TestCloseStopsQueue(t *testing.T) {
	q, _ := newManualQueue(nil)

	q.Enqueue(Toast{Description: "doomed"})
	q.Close()

	assert.Empty(t, q.Active())
	assert.Empty(t, q.Enqueue(Toast{Description: "after close"}))
}

func TestNotifyUsesDestructiveVariant(t *testing.T) {
	q, _ := newManualQueue(nil)
	defer q.Close()

	q.Notify("Error", "boom", VariantDestructive)

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Error", active[0].Title)
	assert.Equal(t, "boom", active[0].Description)
	assert.Equal(t, VariantDestructive, active[0].Variant)
}
