package systems_test

import (
	"testing"

	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseAllFreesEverythingOnce(t *testing.T) {
	sm, backend := newManager(t)
	dir := t.TempDir()

	_, err := sm.LoadShaderProgram(stagePair(t, dir, fragmentSource), "ok")
	require.NoError(t, err)
	_, _ = sm.LoadShaderProgram([]metadata.ShaderStageSource{
		{Kind: metadata.ShaderStageVertex, Path: writeFile(t, dir, "b.vert", vertexSource)},
		{Kind: metadata.ShaderStageFragment, Path: writeFile(t, dir, "b.frag", brokenFragment)},
	}, "broken")
	require.NoError(t, sm.LoadModel(writeCrate(t), "crate", false, nil))
	_, err = sm.LoadTexture(writePNG(t, dir, "extra.png", 2, 2), metadata.TextureKind2D)
	require.NoError(t, err)

	info, err := sm.GetProgramInfo("ok")
	require.NoError(t, err)
	require.NoError(t, sm.Context().UseProgram(info))

	created := len(backend.Created)
	released := sm.ReleaseAll()
	assert.Equal(t, created, released)
	assert.Empty(t, backend.Leaks())
	assert.Empty(t, backend.DoubleFrees())

	// bindings are cleared before anything is deleted
	unbind := indexOf(backend.Calls, "UnbindAll")
	require.GreaterOrEqual(t, unbind, 0)
	assert.Less(t, unbind, firstDelete(backend.Calls))
	assert.Equal(t, metadata.InvalidHandle, sm.Context().BoundProgram())

	assert.Empty(t, sm.GetLoadedShaderProgramNames())
	assert.Empty(t, sm.GetLoadedMeshesNames())
	assert.Empty(t, sm.GetLoadedTextureNames())
	assert.False(t, info.Handle().Valid())

	assert.Equal(t, 0, sm.ReleaseAll())
	assert.Empty(t, backend.DoubleFrees())
}

func TestReleaseOrder(t *testing.T) {
	sm, backend := newManager(t)
	dir := t.TempDir()
	_, err := sm.LoadShaderProgram(stagePair(t, dir, fragmentSource), "p")
	require.NoError(t, err)
	require.NoError(t, sm.LoadModel(writeCrate(t), "", false, nil))

	sm.ReleaseAll()

	var kinds []metadata.ResourceKind
	for _, call := range backend.Calls {
		kind, ok := deleteKind(call)
		if ok && (len(kinds) == 0 || kinds[len(kinds)-1] != kind) {
			kinds = append(kinds, kind)
		}
	}
	assert.Equal(t, []metadata.ResourceKind{
		metadata.ResourceKindBuffer,
		metadata.ResourceKindVertexArray,
		metadata.ResourceKindProgram,
		metadata.ResourceKindShader,
		metadata.ResourceKindTexture,
	}, kinds)
}

func TestShutdownReleases(t *testing.T) {
	sm, backend := newManager(t)
	_, err := sm.LoadTexture(writePNG(t, t.TempDir(), "a.png", 1, 1), metadata.TextureKind2D)
	require.NoError(t, err)

	require.NoError(t, sm.Shutdown())
	assert.Empty(t, backend.Leaks())
	require.NoError(t, sm.Shutdown())
	assert.Empty(t, backend.DoubleFrees())
}

func indexOf(calls []string, want string) int {
	for i, c := range calls {
		if c == want {
			return i
		}
	}
	return -1
}

func firstDelete(calls []string) int {
	for i, c := range calls {
		if _, ok := deleteKind(c); ok {
			return i
		}
	}
	return len(calls)
}

var deleteCalls = map[string]metadata.ResourceKind{
	"DeleteBuffer":      metadata.ResourceKindBuffer,
	"DeleteVertexArray": metadata.ResourceKindVertexArray,
	"DeleteProgram":     metadata.ResourceKindProgram,
	"DeleteShader":      metadata.ResourceKindShader,
	"DeleteTexture":     metadata.ResourceKindTexture,
}

func deleteKind(call string) (metadata.ResourceKind, bool) {
	for prefix, kind := range deleteCalls {
		if len(call) > len(prefix) && call[:len(prefix)+1] == prefix+" " {
			return kind, true
		}
	}
	return 0, false
}
