package systems

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidation(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsCallbacks(t *testing.T) {
	js, err := NewJobSystem(3, 4)
	require.NoError(t, err)

	var (
		mu        sync.Mutex
		results   []int
		failures  int32
		completed int32
	)
	for i := 0; i < 10; i++ {
		require.NoError(t, js.Submit(metadata.JobTask{
			Name: "square",
			Run: func() (interface{}, error) {
				if i == 3 {
					return nil, errors.New("unlucky")
				}
				return i * i, nil
			},
			OnComplete: func(result interface{}) {
				mu.Lock()
				results = append(results, result.(int))
				mu.Unlock()
			},
			OnFailure:            func(error) { atomic.AddInt32(&failures, 1) },
			OnCompletionCallback: func() { atomic.AddInt32(&completed, 1) },
		}))
	}
	require.NoError(t, js.Shutdown())

	assert.Len(t, results, 9)
	assert.Equal(t, int32(1), failures)
	assert.Equal(t, int32(10), completed)
}

func TestJobSystemRejectsAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	assert.Error(t, js.Submit(metadata.JobTask{Name: "empty"}))

	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())
	err = js.Submit(metadata.JobTask{Run: func() (interface{}, error) { return nil, nil }})
	assert.ErrorIs(t, err, ErrJobSystemClosed)
}
