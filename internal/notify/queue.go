package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"mcpctl/pkg/logging"
)

const defaultDuration = 5 * time.Second

// Queue holds the active toasts in insertion order and owns their
// auto-dismiss timers. All methods are safe for concurrent use.
type Queue struct {
	mu       sync.Mutex
	toasts   []Toast
	timers   map[string]*time.Timer
	onChange func([]Toast)
	closed   bool

	// For testing - allows replacing the timer scheduler.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewQueue creates an empty toast queue. onChange, when non-nil, is invoked
// with a snapshot of the queue after every mutation.
func NewQueue(onChange func([]Toast)) *Queue {
	return &Queue{
		timers:    make(map[string]*time.Timer),
		onChange:  onChange,
		afterFunc: time.AfterFunc,
	}
}

// Enqueue adds a toast and schedules its auto-dismiss timer. A zero duration
// on the toast falls back to the default; a negative duration disables
// auto-dismiss. Returns the generated toast id.
func (q *Queue) Enqueue(toast Toast) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ""
	}

	toast.ID = uuid.NewString()
	toast.CreatedAt = time.Now()
	if toast.Variant == "" {
		toast.Variant = VariantDefault
	}
	if toast.Duration == 0 {
		toast.Duration = defaultDuration
	}

	q.toasts = append(q.toasts, toast)
	if toast.Duration > 0 {
		id := toast.ID
		q.timers[id] = q.afterFunc(toast.Duration, func() {
			q.Dismiss(id)
		})
	}

	logging.Debug("Notify", "Enqueued toast %s (%s)", toast.ID, toast.Variant)
	q.notifyLocked()
	return toast.ID
}

// Notify implements Notifier with the default duration.
func (q *Queue) Notify(title, description string, variant Variant) string {
	return q.Enqueue(Toast{Title: title, Description: description, Variant: variant})
}

// Dismiss removes a toast by id and stops its timer. Dismissing an id that
// is not in the queue is a no-op.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := -1
	for i, toast := range q.toasts {
		if toast.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	q.toasts = append(q.toasts[:idx], q.toasts[idx+1:]...)
	q.notifyLocked()
}

// Active returns a snapshot of the queue in insertion order.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast(nil), q.toasts...)
}

// Close stops all timers and drops the queue. Further enqueues are ignored.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.toasts = nil
	q.closed = true
}

func (q *Queue) notifyLocked() {
	if q.onChange == nil {
		return
	}
	q.onChange(append([]Toast(nil), q.toasts...))
}
