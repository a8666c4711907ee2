package intakesync

import (
	"sync"

	"github.com/intakesync/intakesync/pkg/intake"
)

// Hook function types for sync events
type (
	// AppointmentInjectedHook is called after an appointment lands in
	// the datastore.
	AppointmentInjectedHook func(appointment intake.Appointment, recordID string)

	// AppointmentFailedHook is called when an appointment could not be
	// injected.
	AppointmentFailedHook func(appointment intake.Appointment, err error)

	// SyncCompletedHook is called at the end of every sync run.
	SyncCompletedHook func(result *Result)
)

// hooks manages event callbacks for sync runs
type hooks struct {
	mu          sync.RWMutex
	onInjected  []AppointmentInjectedHook
	onFailed    []AppointmentFailedHook
	onCompleted []SyncCompletedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnAppointmentInjected registers a callback for successful injections
func (h *hooks) OnAppointmentInjected(fn AppointmentInjectedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onInjected = append(h.onInjected, fn)
}

// OnAppointmentFailed registers a callback for failed injections
func (h *hooks) OnAppointmentFailed(fn AppointmentFailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFailed = append(h.onFailed, fn)
}

// OnSyncCompleted registers a callback for finished sync runs
func (h *hooks) OnSyncCompleted(fn SyncCompletedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCompleted = append(h.onCompleted, fn)
}

func (h *hooks) triggerInjected(appointment intake.Appointment, recordID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onInjected {
		hook(appointment, recordID)
	}
}

func (h *hooks) triggerFailed(appointment intake.Appointment, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onFailed {
		hook(appointment, err)
	}
}

func (h *hooks) triggerCompleted(result *Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onCompleted {
		hook(result)
	}
}
