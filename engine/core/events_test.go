package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFireStopsAtFirstHandler(t *testing.T) {
	require.True(t, EventSystemInitialize())
	defer EventSystemShutdown()

	var calls []string
	EventRegister(EVENT_CODE_RESIZED, func(ctx EventContext) bool {
		calls = append(calls, "first")
		return false
	})
	EventRegister(EVENT_CODE_RESIZED, func(ctx EventContext) bool {
		calls = append(calls, "second")
		return true
	})
	EventRegister(EVENT_CODE_RESIZED, func(ctx EventContext) bool {
		calls = append(calls, "third")
		return true
	})

	handled := EventFire(EventContext{Type: EVENT_CODE_RESIZED, Data: &SystemEvent{WindowWidth: 10, WindowHeight: 20}})
	assert.True(t, handled)
	assert.Equal(t, []string{"first", "second"}, calls)

	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_SCREENSHOT}))
}

func TestEventSystemLifecycle(t *testing.T) {
	assert.False(t, EventRegister(EVENT_CODE_APPLICATION_QUIT, func(EventContext) bool { return true }))
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT}))

	require.True(t, EventSystemInitialize())
	assert.False(t, EventSystemInitialize())
	assert.False(t, EventRegister(EVENT_CODE_APPLICATION_QUIT, nil))
	require.NoError(t, EventSystemShutdown())
	require.NoError(t, EventSystemShutdown())
}
