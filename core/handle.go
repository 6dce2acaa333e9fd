package core

import (
	"sync"

	"github.com/google/uuid"
)

// CallState tracks one facade call through dispatch.
type CallState string

const (
	CallStateIdle       CallState = "idle"
	CallStateBuilt      CallState = "built"
	CallStateDispatched CallState = "dispatched"
	CallStateDelivered  CallState = "delivered"
	CallStateCancelled  CallState = "cancelled"
)

// Handle is the cancellation handle of one dispatched call. A nil *Handle is
// valid and cancels nothing.
type Handle struct {
	id        string
	operation string

	mu        sync.Mutex
	state     CallState
	cancelNet func()
	onCancel  func()
}

func newHandle(operation string) *Handle {
	return &Handle{
		id:        uuid.NewString(),
		operation: operation,
		state:     CallStateIdle,
	}
}

func (h *Handle) ID() string {
	if h == nil {
		return ""
	}
	return h.id
}

func (h *Handle) Operation() string {
	if h == nil {
		return ""
	}
	return h.operation
}

func (h *Handle) State() CallState {
	if h == nil {
		return CallStateIdle
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Cancel suppresses delivery of the call result. Calling it again, or after
// the result was delivered, has no effect. The in-flight request is asked to
// stop but may still complete.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.state == CallStateDelivered || h.state == CallStateCancelled {
		h.mu.Unlock()
		return
	}
	h.state = CallStateCancelled
	cancelNet := h.cancelNet
	onCancel := h.onCancel
	h.cancelNet = nil
	h.mu.Unlock()

	if cancelNet != nil {
		cancelNet()
	}
	if onCancel != nil {
		onCancel()
	}
}

func (h *Handle) advance(from CallState, to CallState) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != from {
		return false
	}
	h.state = to
	return true
}

// attach records the transport cancel function. When the call was cancelled
// while the transport was being invoked the function runs immediately.
func (h *Handle) attach(cancelNet func()) {
	if cancelNet == nil {
		return
	}
	h.mu.Lock()
	if h.state == CallStateCancelled {
		h.mu.Unlock()
		cancelNet()
		return
	}
	if h.state == CallStateDelivered {
		h.mu.Unlock()
		return
	}
	h.cancelNet = cancelNet
	h.mu.Unlock()
}

// claimDelivery moves the call to delivered. Only the first claim succeeds
// and a cancelled call can never be claimed.
func (h *Handle) claimDelivery() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != CallStateDispatched {
		return false
	}
	h.state = CallStateDelivered
	h.cancelNet = nil
	return true
}
