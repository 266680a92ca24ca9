package renderer_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/components"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgram(b *renderertest.Backend, name string, linked bool) *metadata.ProgramInfo {
	h := b.CreateProgram()
	return &metadata.ProgramInfo{
		Resource: metadata.NewGPUResource(metadata.ResourceKindProgram, h, b.DeleteProgram),
		Name:     name,
		Linked:   linked,
	}
}

func TestUseProgramSkipsRedundantBinds(t *testing.T) {
	b := renderertest.NewBackend()
	ctx := renderer.NewRenderContext(b)
	a := newProgram(b, "a", true)
	other := newProgram(b, "b", true)

	require.NoError(t, ctx.UseProgram(a))
	require.NoError(t, ctx.UseProgram(a))
	require.NoError(t, ctx.SetFloat(a, "uValue", 1))
	assert.Equal(t, 1, b.UseProgramCalls)
	assert.Equal(t, a.Handle(), ctx.BoundProgram())

	require.NoError(t, ctx.UseProgram(other))
	assert.Equal(t, 2, b.UseProgramCalls)
	assert.Equal(t, 2, ctx.BindCalls())
	assert.Equal(t, other.Handle(), b.BoundProgram)
}

func TestUseProgramRefusesUnusablePrograms(t *testing.T) {
	b := renderertest.NewBackend()
	ctx := renderer.NewRenderContext(b)

	unlinked := newProgram(b, "broken", false)
	assert.ErrorIs(t, ctx.UseProgram(unlinked), core.ErrProgramNotLinked)

	released := newProgram(b, "gone", true)
	released.Resource.Release()
	assert.ErrorIs(t, ctx.UseProgram(released), core.ErrNoProgramBound)

	assert.ErrorIs(t, ctx.SetInt(unlinked, "uValue", 1), core.ErrProgramNotLinked)
	assert.Equal(t, 0, b.UseProgramCalls)
	assert.Equal(t, metadata.InvalidHandle, ctx.BoundProgram())
}

func TestUniformLocationsAreCached(t *testing.T) {
	b := renderertest.NewBackend()
	ctx := renderer.NewRenderContext(b)
	p := newProgram(b, "p", true)

	require.NoError(t, ctx.SetVec3(p, "uColor", mgl32.Vec3{1, 0, 0}))
	require.NoError(t, ctx.SetVec3(p, "uColor", mgl32.Vec3{0, 1, 0}))

	v, ok := b.Uniform(p.Handle(), "uColor")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, v)
}

func TestMissingUniformIsIgnored(t *testing.T) {
	b := renderertest.NewBackend()
	b.Missing["uUnused"] = true
	ctx := renderer.NewRenderContext(b)
	p := newProgram(b, "p", true)

	require.NoError(t, ctx.SetFloat(p, "uUnused", 3))
	_, ok := b.Uniform(p.Handle(), "uUnused")
	assert.False(t, ok)
}

func TestUnbindAndForget(t *testing.T) {
	b := renderertest.NewBackend()
	ctx := renderer.NewRenderContext(b)
	p := newProgram(b, "p", true)

	require.NoError(t, ctx.UseProgram(p))
	ctx.Forget(p.Handle())
	assert.Equal(t, metadata.InvalidHandle, ctx.BoundProgram())

	require.NoError(t, ctx.UseProgram(p))
	ctx.Unbind()
	assert.Equal(t, 1, b.UnbindAllCalls)
	assert.Equal(t, metadata.InvalidHandle, ctx.BoundProgram())
	assert.Equal(t, metadata.InvalidHandle, b.BoundProgram)
}

func TestSetMatricesAndLights(t *testing.T) {
	b := renderertest.NewBackend()
	ctx := renderer.NewRenderContext(b)
	p := newProgram(b, "phong", true)

	model := mgl32.Scale3D(2, 2, 2)
	require.NoError(t, ctx.SetMatrices(p, model, mgl32.Ident4(), mgl32.Ident4()))
	v, ok := b.Uniform(p.Handle(), renderer.UniformNormal)
	require.True(t, ok)
	assert.True(t, model.Inv().Transpose().ApproxEqual(v.(mgl32.Mat4)))

	light := components.NewLight(components.LightTypeDirectional)
	require.NoError(t, ctx.SetLightInArray(p, light, renderer.DefaultLightArrayUniform, 1))
	v, ok = b.Uniform(p.Handle(), "uLights[1].isLocal")
	require.True(t, ok)
	assert.Equal(t, int32(0), v)

	material := components.NewSampleMaterial(components.MaterialTypePBR, "")
	require.NoError(t, ctx.SetMaterial(p, material, renderer.DefaultMaterialUniform))
	v, ok = b.Uniform(p.Handle(), "uMaterial.roughness")
	require.True(t, ok)
	assert.Equal(t, float32(0.5), v)
	_, ok = b.Uniform(p.Handle(), "uMaterial.shininess")
	assert.False(t, ok)

	phong := components.NewSampleMaterial(components.MaterialTypePhong, "gold")
	require.NoError(t, ctx.SetBlinnPhong(p, mgl32.Vec3{0, 0, 3}, light, phong))
	v, ok = b.Uniform(p.Handle(), renderer.UniformShininess)
	require.True(t, ok)
	assert.Equal(t, int32(51), v)
}
