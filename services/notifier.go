package services

import (
	"sync"
	"time"
)

const (
	NotificationKindSuccess = "success"
	NotificationKindError   = "error"
	NotificationKindInfo    = "info"

	// DefaultNotificationDisplay is how long a notification stays fully
	// visible before it starts fading.
	DefaultNotificationDisplay = 2500 * time.Millisecond
	// DefaultNotificationFade is the fade-out window after display.
	DefaultNotificationFade = 300 * time.Millisecond
)

// Notification is the single transient status message.
type Notification struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Fading  bool   `json:"fading"`
}

// Notifier holds at most one notification at a time. Showing a new one
// replaces the current one and restarts the clock; the message displays,
// fades, then clears on its own.
type Notifier struct {
	display time.Duration
	fade    time.Duration

	mu      sync.Mutex
	current *Notification
	gen     int
	timer   *time.Timer
}

func NewNotifier() *Notifier {
	return &Notifier{
		display: DefaultNotificationDisplay,
		fade:    DefaultNotificationFade,
	}
}

// NewNotifierWithDurations is for tests that cannot wait out the real clock.
func NewNotifierWithDurations(display, fade time.Duration) *Notifier {
	return &Notifier{display: display, fade: fade}
}

// Show replaces the current notification and schedules its expiry.
func (n *Notifier) Show(message, kind string) {
	if kind == "" {
		kind = NotificationKindInfo
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	n.current = &Notification{Message: message, Kind: kind}
	n.timer = time.AfterFunc(n.display, func() { n.beginFade(gen) })
}

// Success is shorthand for Show with the success kind.
func (n *Notifier) Success(message string) { n.Show(message, NotificationKindSuccess) }

// Error is shorthand for Show with the error kind.
func (n *Notifier) Error(message string) { n.Show(message, NotificationKindError) }

// Current returns the visible notification, or nil.
func (n *Notifier) Current() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	copied := *n.current
	return &copied
}

// Clear dismisses the current notification immediately.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

func (n *Notifier) beginFade(gen int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	// A newer Show or Clear superseded this timer.
	if gen != n.gen || n.current == nil {
		return
	}
	n.current.Fading = true
	n.timer = time.AfterFunc(n.fade, func() { n.expire(gen) })
}

func (n *Notifier) expire(gen int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return
	}
	n.current = nil
	n.timer = nil
}
