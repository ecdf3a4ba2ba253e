package notify

import "time"

// Variant controls how a toast is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// Toast is a transient notification. The ID is generated on enqueue and is
// unique within the active queue.
type Toast struct {
	ID          string
	Title       string
	Description string
	Variant     Variant
	// Duration after which the toast dismisses itself. Zero means the toast
	// stays until explicitly dismissed.
	Duration  time.Duration
	CreatedAt time.Time
}

// Notifier is the narrow interface consumers use to raise toasts.
type Notifier interface {
	Notify(title, description string, variant Variant) string
}
