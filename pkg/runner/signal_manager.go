package runner

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// forceQuitWindow is how long after a first interrupt a second one is
// treated as an emergency abort instead of a fresh cancellation.
const forceQuitWindow = 2 * time.Second

// SignalManager turns OS interrupts into cooperative cancellation, with a
// timing-windowed escalation: the first Ctrl+C cancels the run context
// (recoverable), a second one within the window force-quits the process
// with the conventional interrupted status code.
//
// The state machine is Normal -> ExitRequested(deadline) -> ForceExit,
// driven by explicit timestamp comparison rather than ambient flags.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc

	// escalate enables the force-quit path; disabled for mock-driven
	// runs where there is no interactive prompt to wedge.
	escalate bool

	mu              sync.Mutex
	exitRequestedAt time.Time

	// exitFunc is os.Exit outside of tests.
	exitFunc func(code int)
	notify   func(message string)

	signals chan os.Signal
	done    chan struct{}
}

// SignalManagerOption configures a SignalManager.
type SignalManagerOption func(*SignalManager)

// WithEscalation toggles the double-interrupt force-quit path.
func WithEscalation(enabled bool) SignalManagerOption {
	return func(sm *SignalManager) {
		sm.escalate = enabled
	}
}

// WithExitFunc overrides process termination (tests).
func WithExitFunc(exit func(int)) SignalManagerOption {
	return func(sm *SignalManager) {
		sm.exitFunc = exit
	}
}

// WithNotify overrides how escalation warnings reach the user.
func WithNotify(notify func(string)) SignalManagerOption {
	return func(sm *SignalManager) {
		sm.notify = notify
	}
}

// NewSignalManager creates a manager and immediately starts listening for
// SIGINT/SIGTERM.
func NewSignalManager(parent context.Context, opts ...SignalManagerOption) *SignalManager {
	sm := &SignalManager{
		escalate: true,
		exitFunc: os.Exit,
		notify: func(message string) {
			fmt.Fprintln(os.Stderr, message)
		},
		signals: make(chan os.Signal, 2),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(sm)
	}

	sm.ctx, sm.cancel = context.WithCancel(parent)
	signal.Notify(sm.signals, os.Interrupt, syscall.SIGTERM)
	go sm.listen()
	return sm
}

// Context returns the run context, cancelled on the first interrupt.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Stop detaches the listener and releases the context.
func (sm *SignalManager) Stop() {
	signal.Stop(sm.signals)
	close(sm.done)
	sm.cancel()
}

func (sm *SignalManager) listen() {
	for {
		select {
		case <-sm.done:
			return
		case <-sm.signals:
			sm.handleInterrupt(time.Now())
		}
	}
}

// handleInterrupt advances the escalation state machine. Split out so
// tests can drive it with synthetic timestamps.
func (sm *SignalManager) handleInterrupt(now time.Time) {
	sm.mu.Lock()
	requestedAt := sm.exitRequestedAt
	inWindow := !requestedAt.IsZero() && now.Sub(requestedAt) <= forceQuitWindow
	if !inWindow {
		sm.exitRequestedAt = now
	}
	sm.mu.Unlock()

	if sm.escalate && inWindow {
		sm.notify("\n🚨 EMERGENCY EXIT - Force quitting...")
		sm.exitFunc(130)
		return
	}

	if sm.escalate {
		sm.notify("\n⚠️  Exit requested. Press Ctrl+C again within 2 seconds to force quit.")
	}
	sm.cancel()
}
