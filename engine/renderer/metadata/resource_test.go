package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUResourceReleasesOnce(t *testing.T) {
	var deleted []Handle
	r := NewGPUResource(ResourceKindTexture, 7, func(h Handle) { deleted = append(deleted, h) })

	assert.Equal(t, Handle(7), r.Handle())
	assert.True(t, r.Release())
	assert.False(t, r.Release())
	assert.Equal(t, []Handle{7}, deleted)
	assert.Equal(t, InvalidHandle, r.Handle())
	assert.True(t, r.Released())
}

func TestGPUResourceNilIsInvalid(t *testing.T) {
	var r *GPUResource
	assert.Equal(t, InvalidHandle, r.Handle())
	assert.False(t, r.Release())

	var tex *TextureRecord
	assert.Equal(t, InvalidHandle, tex.Handle())
}

func TestResourceTrackerReleaseOrder(t *testing.T) {
	tracker := NewResourceTracker()
	var order []string
	record := func(name string) ReleaseFunc {
		return func(Handle) { order = append(order, name) }
	}

	tracker.Acquire(ResourceKindTexture, 1, record("texture"))
	tracker.Acquire(ResourceKindShader, 2, record("shader"))
	tracker.Acquire(ResourceKindProgram, 3, record("program"))
	tracker.Acquire(ResourceKindVertexArray, 4, record("vertex array"))
	tracker.Acquire(ResourceKindBuffer, 5, record("buffer"))
	assert.Nil(t, tracker.Acquire(ResourceKindBuffer, InvalidHandle, record("never")))
	assert.Equal(t, 1, tracker.Count(ResourceKindBuffer))

	n := tracker.ReleaseAll(func() { order = append(order, "unbind") })
	require.Equal(t, 5, n)
	assert.Equal(t, []string{"unbind", "buffer", "vertex array", "program", "shader", "texture"}, order)

	assert.Equal(t, 0, tracker.ReleaseAll(nil))
	assert.Equal(t, 0, tracker.Count(ResourceKindTexture))
}

func TestResourceTrackerSkipsReleasedResources(t *testing.T) {
	tracker := NewResourceTracker()
	calls := 0
	r := tracker.Acquire(ResourceKindBuffer, 9, func(Handle) { calls++ })
	r.Release()

	assert.Equal(t, 0, tracker.Count(ResourceKindBuffer))
	assert.Equal(t, 0, tracker.ReleaseAll(nil))
	assert.Equal(t, 1, calls)
}

func TestResourceKindString(t *testing.T) {
	assert.Equal(t, "vertex array", ResourceKindVertexArray.String())
	assert.Equal(t, "unknown", ResourceKind(42).String())
}
