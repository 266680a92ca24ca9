package control

import (
	"testing"

	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResources struct {
	meshes, programs, textures []string
}

func (f *fakeResources) GetLoadedMeshesNames() []string        { return f.meshes }
func (f *fakeResources) GetLoadedShaderProgramNames() []string { return f.programs }
func (f *fakeResources) GetLoadedTextureNames() []string       { return f.textures }

func newTestPanel() (*Panel, *components.Scene, *fakeResources) {
	scene := components.NewScene(components.NewDefaultCamera(1))
	scene.Lights = []*components.Light{
		components.NewLight(components.LightTypePoint),
		components.NewLight(components.LightTypeDirectional),
	}
	scene.Materials = []*components.Material{
		components.NewSampleMaterial(components.MaterialTypePhong, ""),
		components.NewSampleMaterial(components.MaterialTypePBR, ""),
	}
	res := &fakeResources{
		meshes:   []string{"cube", "teapot"},
		programs: []string{"Rendering Normal", "Blinn-Phong Shading"},
	}
	return NewPanel(scene, res), scene, res
}

func TestEmptyCollections(t *testing.T) {
	scene := components.NewScene(components.NewDefaultCamera(1))
	p := NewPanel(scene, &fakeResources{})

	p.SelectModel(5)
	p.SelectLight(-2)
	assert.Equal(t, Selection{Preset: -1}, p.Selection())
	assert.Equal(t, "", p.SelectedModel())
	assert.Equal(t, "", p.SelectedProgram())
	assert.Nil(t, p.SelectedLight())
	assert.Nil(t, p.SelectedMaterial())

	for _, key := range []core.KeyCode{core.KEY_M, core.KEY_P, core.KEY_L, core.KEY_K, core.KEY_T, core.KEY_R, core.KEY_UP} {
		assert.True(t, p.HandleKey(key))
	}
	assert.Equal(t, Selection{Preset: -1}, p.Selection())
}

func TestSelectionClampsWhenCollectionsShrink(t *testing.T) {
	p, _, res := newTestPanel()
	p.SelectModel(1)
	assert.Equal(t, "teapot", p.SelectedModel())

	res.meshes = res.meshes[:1]
	assert.Equal(t, "cube", p.SelectedModel())
	assert.Equal(t, 0, p.Selection().Model)

	p.SelectProgram(10)
	assert.Equal(t, "Blinn-Phong Shading", p.SelectedProgram())
}

func TestCycleKeysWrap(t *testing.T) {
	p, _, _ := newTestPanel()

	require.True(t, p.HandleKey(core.KEY_M))
	assert.Equal(t, "teapot", p.SelectedModel())
	require.True(t, p.HandleKey(core.KEY_M))
	assert.Equal(t, "cube", p.SelectedModel())

	require.True(t, p.HandleKey(core.KEY_P))
	assert.Equal(t, "Blinn-Phong Shading", p.SelectedProgram())

	require.True(t, p.HandleKey(core.KEY_L))
	assert.Equal(t, components.LightTypeDirectional, p.SelectedLight().Type)

	require.True(t, p.HandleKey(core.KEY_T))
	assert.Equal(t, components.MaterialTypePBR, p.SelectedMaterial().Type)

	assert.False(t, p.HandleKey(core.KEY_Z))
}

func TestToggleLight(t *testing.T) {
	p, scene, _ := newTestPanel()
	require.True(t, p.HandleKey(core.KEY_K))
	assert.False(t, scene.Lights[0].Enabled)
	require.True(t, p.HandleKey(core.KEY_K))
	assert.True(t, scene.Lights[0].Enabled)
}

func TestPresetsAndShininess(t *testing.T) {
	p, scene, _ := newTestPanel()
	phong := scene.Materials[0]

	p.HandleKey(core.KEY_R)
	assert.Equal(t, components.MaterialPresets[0].Params.Shininess, phong.Phong.Shininess)
	p.HandleKey(core.KEY_R)
	assert.Equal(t, components.MaterialPresets[1].Params.Shininess, phong.Phong.Shininess)
	assert.Equal(t, 1, p.Selection().Preset)

	phong.Phong.Shininess = 254
	p.HandleKey(core.KEY_UP)
	assert.Equal(t, float32(256), phong.Phong.Shininess)
	phong.Phong.Shininess = 3
	p.HandleKey(core.KEY_DOWN)
	assert.Equal(t, float32(1), phong.Phong.Shininess)

	// PBR materials ignore presets and shininess
	p.SelectMaterial(1)
	pbr := scene.Materials[1]
	before := *pbr
	p.HandleKey(core.KEY_R)
	p.HandleKey(core.KEY_UP)
	assert.Equal(t, before, *pbr)
	assert.Equal(t, 1, p.Selection().Preset)
}

func TestCameraKeys(t *testing.T) {
	p, scene, _ := newTestPanel()
	start := scene.Camera.Position

	p.HandleKey(core.KEY_W)
	assert.InDelta(t, start.Z()-dollyStep, scene.Camera.Position.Z(), 1e-5)
	p.HandleKey(core.KEY_S)
	p.HandleKey(core.KEY_S)
	assert.InDelta(t, start.Z()+dollyStep, scene.Camera.Position.Z(), 1e-5)

	p.HandleKey(core.KEY_BACKSPACE)
	assert.Equal(t, start, scene.Camera.Position)
}

func TestDescribe(t *testing.T) {
	p, _, res := newTestPanel()
	res.textures = []string{"a.png"}
	lines := p.Describe()
	assert.Equal(t, "model: cube (2 loaded)", lines[0])
	assert.Equal(t, "textures: 1 loaded", lines[2])
	assert.Len(t, lines, 3+2+2)
}

func TestClampHelpers(t *testing.T) {
	assert.Equal(t, 0, clampIndex(3, 0))
	assert.Equal(t, 2, clampIndex(9, 3))
	assert.Equal(t, 0, next(2, 3))
	assert.Equal(t, float32(1), clamp[float32](0.5, 1, 2))
}
