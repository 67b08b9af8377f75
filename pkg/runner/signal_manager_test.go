package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalManager_Lifecycle(t *testing.T) {
	sm := NewSignalManager(context.Background())

	ctx := sm.Context()
	assert.NotNil(t, ctx)
	assert.NoError(t, ctx.Err())

	sm.Stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestSignalManager_FirstInterruptCancels(t *testing.T) {
	exited := -1
	var messages []string
	sm := NewSignalManager(context.Background(),
		WithExitFunc(func(code int) { exited = code }),
		WithNotify(func(m string) { messages = append(messages, m) }),
	)
	defer sm.Stop()

	sm.handleInterrupt(time.Now())

	assert.ErrorIs(t, sm.Context().Err(), context.Canceled)
	assert.Equal(t, -1, exited, "single interrupt must not force-quit")
	assert.Len(t, messages, 1)
	assert.Contains(t, messages[0], "Press Ctrl+C again")
}

func TestSignalManager_DoubleInterruptForceQuits(t *testing.T) {
	exited := -1
	sm := NewSignalManager(context.Background(),
		WithExitFunc(func(code int) { exited = code }),
		WithNotify(func(string) {}),
	)
	defer sm.Stop()

	now := time.Now()
	sm.handleInterrupt(now)
	sm.handleInterrupt(now.Add(500 * time.Millisecond))

	assert.Equal(t, 130, exited)
}

func TestSignalManager_WindowExpiry(t *testing.T) {
	exited := -1
	sm := NewSignalManager(context.Background(),
		WithExitFunc(func(code int) { exited = code }),
		WithNotify(func(string) {}),
	)
	defer sm.Stop()

	now := time.Now()
	sm.handleInterrupt(now)
	// Past the window: treated as a fresh first interrupt, not an
	// emergency abort.
	sm.handleInterrupt(now.Add(3 * time.Second))

	assert.Equal(t, -1, exited)
}

func TestSignalManager_EscalationDisabled(t *testing.T) {
	exited := -1
	var messages []string
	sm := NewSignalManager(context.Background(),
		WithEscalation(false),
		WithExitFunc(func(code int) { exited = code }),
		WithNotify(func(m string) { messages = append(messages, m) }),
	)
	defer sm.Stop()

	now := time.Now()
	sm.handleInterrupt(now)
	sm.handleInterrupt(now.Add(100 * time.Millisecond))

	assert.ErrorIs(t, sm.Context().Err(), context.Canceled)
	assert.Equal(t, -1, exited)
	assert.Empty(t, messages)
}
