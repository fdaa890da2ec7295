package toast

import (
	"sync"
	"time"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/domain/repository"

	"github.com/google/uuid"
)

// DismissAfter is how long a toast stays up unless dismissed explicitly.
const DismissAfter = 5000 * time.Millisecond

// Option configures a Notifier.
type Option func(*Notifier)

// WithDelay overrides the auto-dismiss delay.
func WithDelay(d time.Duration) Option {
	return func(n *Notifier) { n.delay = d }
}

// WithSink registers a callback invoked for every new toast, used by the
// interactive shell to render notifications as they fire.
func WithSink(sink func(models.Toast)) Option {
	return func(n *Notifier) { n.sink = sink }
}

// Notifier is the process-wide ephemeral notification queue. Every toast has
// its own dismissal timer; removing one never affects the others. The queue
// starts empty on every process start and is never persisted.
type Notifier struct {
	mu      sync.Mutex
	toasts  []models.Toast
	timers  map[string]*time.Timer
	delay   time.Duration
	sink    func(models.Toast)
	metrics repository.Metrics
}

// NewNotifier creates an empty notification queue.
func NewNotifier(metrics repository.Metrics, opts ...Option) *Notifier {
	n := &Notifier{
		timers:  make(map[string]*time.Timer),
		delay:   DismissAfter,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify enqueues a toast and schedules its removal. Returns the toast id.
func (n *Notifier) Notify(message string, severity models.Severity) string {
	t := models.Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: severity,
	}

	n.mu.Lock()
	n.toasts = append(n.toasts, t)
	n.timers[t.ID] = time.AfterFunc(n.delay, func() {
		n.Dismiss(t.ID)
	})
	sink := n.sink
	n.mu.Unlock()

	n.metrics.RecordToast(string(severity))
	if sink != nil {
		sink(t)
	}
	return t.ID
}

// Dismiss removes a toast immediately. Unknown ids are ignored.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			break
		}
	}
}

// Active returns the queued toasts in insertion order.
func (n *Notifier) Active() []models.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Toast(nil), n.toasts...)
}

// Close stops all pending dismissal timers.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
	n.toasts = nil
}
