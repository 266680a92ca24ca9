package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `
# a quad with normals and texcoords
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJFanTriangulation(t *testing.T) {
	model, err := ParseOBJ(strings.NewReader(quadOBJ), ".", "quad")
	require.NoError(t, err)
	require.Len(t, model.Meshes, 1)

	mesh := model.Meshes[0]
	assert.Equal(t, "quad", mesh.Name)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	assert.Equal(t, 4, mesh.VertexCount())
	assert.True(t, mesh.HasNormals())
	assert.True(t, mesh.HasTexCoords())
	assert.Equal(t, metadata.ShadingModePhong, mesh.ShadingMode)
}

func TestParseOBJNegativeIndicesAndSharedVertices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
f 1 2 3
`
	model, err := ParseOBJ(strings.NewReader(src), ".", "tri")
	require.NoError(t, err)
	mesh := model.Meshes[0]
	assert.Equal(t, []uint32{0, 1, 2, 0, 1, 2}, mesh.Indices)
	assert.Nil(t, mesh.Normals)
	assert.Nil(t, mesh.TexCoords)
	assert.Equal(t, metadata.ShadingModeFlat, mesh.ShadingMode)
}

func TestParseOBJPartialAttributesAreDropped(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3
`
	model, err := ParseOBJ(strings.NewReader(src), ".", "tri")
	require.NoError(t, err)
	assert.Nil(t, model.Meshes[0].Normals)
}

func TestParseOBJSingleTexCoord(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.25
vt 0.5 1
vt 0.75
f 1/1 2/2 3/3
`
	model, err := ParseOBJ(strings.NewReader(src), ".", "ramp")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0, 0.5, 1, 0.75, 0}, model.Meshes[0].TexCoords)
}

func TestParseOBJGroupsAndMaterials(t *testing.T) {
	dir := t.TempDir()
	mtl := `
newmtl wood
Ns 10
illum 2
map_Kd -bm 1 textures\wood.png
map_Kd wood_detail.png

newmtl metal
map_Pm metal.png

newmtl chalk
illum 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(mtl), 0o644))

	src := `
mtllib scene.mtl
v 0 0 0
v 1 0 0
v 0 1 0
g table
usemtl wood
f 1 2 3
usemtl metal
f 3 2 1
o empty
g board
usemtl chalk
f 1 2 3
usemtl missing
f 2 3 1
`
	model, err := ParseOBJ(strings.NewReader(src), dir, "scene")
	require.NoError(t, err)
	require.Len(t, model.Meshes, 4)

	wood := model.Meshes[0]
	assert.Equal(t, "table", wood.Name)
	assert.Equal(t, map[string]string{
		"diffuse":  filepath.Join(dir, "textures/wood.png"),
		"diffuse1": filepath.Join(dir, "wood_detail.png"),
	}, wood.TexturePaths)
	assert.Equal(t, metadata.ShadingModePhong, wood.ShadingMode)

	metal := model.Meshes[1]
	assert.Equal(t, "table", metal.Name)
	assert.Equal(t, metadata.ShadingModePBR, metal.ShadingMode)

	chalk := model.Meshes[2]
	assert.Equal(t, "board", chalk.Name)
	assert.Equal(t, metadata.ShadingModeFlat, chalk.ShadingMode)

	assert.Empty(t, model.Meshes[3].TexturePaths)
}

func TestParseOBJErrors(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("v 0 0 0\nf 1 2 3\n"), ".", "bad")
	assert.ErrorContains(t, err, "line 2")

	_, err = ParseOBJ(strings.NewReader("v 0 zero 0\n"), ".", "bad")
	assert.Error(t, err)

	_, err = ParseOBJ(strings.NewReader("v 0 0 0\nf 1 1\n"), ".", "bad")
	assert.Error(t, err)

	_, err = ParseOBJ(strings.NewReader("vt\n"), ".", "bad")
	assert.Error(t, err)
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "nope.obj"))
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}

func TestModelLoaderDispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	loader := &ModelLoader{}
	asset, err := loader.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "quad", asset.Name)
	assert.Equal(t, metadata.AssetTypeModel, asset.Type)
	model := asset.Data.(*metadata.ModelData)
	assert.Equal(t, path, model.Path)

	_, err = loader.Load(filepath.Join(dir, "quad.fbx"), nil)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}
