// Package logship moves log entries off-process: the Forwarder enqueues
// entries that passed the logger's filter and the Shipper posts them to the
// log sink endpoint. Both drop failures silently.
package logship

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"mvphrm/internal/logging"
	"mvphrm/internal/queue"
)

// MessageType tags log entries on the queue.
const MessageType = "log"

// Forwarder implements logging.Forwarder on top of a queue.
type Forwarder struct {
	q       queue.Queue
	enabled atomic.Bool
	timeout time.Duration
}

// NewForwarder creates a forwarder; enabled is the opt-in switch.
func NewForwarder(q queue.Queue, enabled bool) *Forwarder {
	f := &Forwarder{q: q, timeout: 2 * time.Second}
	f.enabled.Store(enabled)
	return f
}

// Enabled reports whether entries should be forwarded.
func (f *Forwarder) Enabled() bool {
	return f != nil && f.q != nil && f.enabled.Load()
}

// SetEnabled flips the opt-in switch at runtime.
func (f *Forwarder) SetEnabled(on bool) {
	f.enabled.Store(on)
}

// Forward enqueues the entry in the background and returns immediately.
func (f *Forwarder) Forward(e logging.Entry) {
	body, err := json.Marshal(e)
	if err != nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()
		_ = f.q.Publish(ctx, queue.Message{Type: MessageType, Body: body})
	}()
}
