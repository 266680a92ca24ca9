package systems

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-viewer/engine/assets"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

/**
 * @brief MeshLoaderSystem turns imported model files into render objects:
 * one vertex array per shape, one buffer per attribute and the shape's
 * textures resolved through the texture system.
 */
type MeshLoaderSystem struct {
	objects []*metadata.RenderObject
	lookup  map[string]int
	// sub systems
	textureSystem *TextureSystem
	assetManager  *assets.AssetManager
	context       *renderer.RenderContext
	tracker       *metadata.ResourceTracker
}

func NewMeshLoaderSystem(ts *TextureSystem, am *assets.AssetManager, ctx *renderer.RenderContext, tracker *metadata.ResourceTracker) (*MeshLoaderSystem, error) {
	if ts == nil {
		err := fmt.Errorf("NewMeshLoaderSystem - a texture system is required")
		core.LogError(err.Error())
		return nil, err
	}
	return &MeshLoaderSystem{
		lookup:        make(map[string]int),
		textureSystem: ts,
		assetManager:  am,
		context:       ctx,
		tracker:       tracker,
	}, nil
}

// storageKey picks the name a new object is stored under, or "" when the
// load should be skipped.
func (mls *MeshLoaderSystem) storageKey(path, name string, duplicateAllowed bool) string {
	key := name
	if key == "" {
		key = path
	}
	if _, exists := mls.lookup[key]; !exists {
		return key
	}
	if !duplicateAllowed {
		return ""
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s#%d", key, n)
		if _, taken := mls.lookup[candidate]; !taken {
			return candidate
		}
	}
}

/**
 * @brief Imports path and appends the resulting render object to out.
 * The object is stored under name, or under path when name is empty. A key
 * that is already present is skipped unless duplicateAllowed, in which case
 * the copy is stored as "key#N".
 */
func (mls *MeshLoaderSystem) LoadModel(path, name string, duplicateAllowed bool, out *[]*metadata.RenderObject) error {
	path = filepath.Clean(path)
	key := mls.storageKey(path, name, duplicateAllowed)
	if key == "" {
		core.LogDebug("model `%s` already loaded, skipping", path)
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			core.LogError("model file `%s` does not exist", path)
			return fmt.Errorf("model `%s`: %w", path, core.ErrFileNotFound)
		}
		core.LogError("cannot access model file `%s`: %s", path, err)
		return err
	}

	asset, err := mls.assetManager.LoadAsset(path, metadata.AssetTypeModel, nil)
	if err != nil {
		core.LogError("failed to import `%s`: %s", path, err)
		return err
	}
	model := asset.Data.(*metadata.ModelData)
	if len(model.Meshes) == 0 {
		core.LogError("model `%s` contains no meshes", path)
		return fmt.Errorf("model `%s`: %w", path, core.ErrNoMeshes)
	}

	object := &metadata.RenderObject{
		ID:   uuid.New(),
		Path: path,
		Name: key,
	}
	for i, mesh := range model.Meshes {
		if mesh.VertexCount() == 0 {
			core.LogWarn("model `%s`: mesh %d has no vertices, skipping", path, i)
			continue
		}
		shape, err := mls.uploadShape(mesh)
		if err != nil {
			core.LogWarn("model `%s`: mesh %d skipped: %s", path, i, err)
			continue
		}
		object.Shapes = append(object.Shapes, shape)
	}
	if len(object.Shapes) == 0 {
		core.LogError("model `%s` contains no drawable meshes", path)
		return fmt.Errorf("model `%s`: %w", path, core.ErrNoMeshes)
	}

	mls.lookup[key] = len(mls.objects)
	mls.objects = append(mls.objects, object)
	if out != nil {
		*out = append(*out, object)
	}
	core.LogInfo("model `%s` loaded as `%s` with %d shapes", path, key, len(object.Shapes))
	return nil
}

func (mls *MeshLoaderSystem) uploadShape(mesh *metadata.MeshData) (*metadata.RenderShape, error) {
	backend := mls.context.Backend()

	vao := backend.CreateVertexArray()
	if !vao.Valid() {
		return nil, fmt.Errorf("driver refused a vertex array for `%s`", mesh.Name)
	}

	shape := &metadata.RenderShape{
		Name:         mesh.Name,
		NumVertices:  int32(mesh.VertexCount()),
		NumIndices:   int32(len(mesh.Indices)),
		HasNormals:   mesh.HasNormals(),
		HasTexcoords: mesh.HasTexCoords(),
		ShadingMode:  mesh.ShadingMode,
		Textures:     make(map[string]metadata.Handle, len(mesh.TexturePaths)),
	}

	shape.VertexArray = mls.tracker.Acquire(metadata.ResourceKindVertexArray, vao, backend.DeleteVertexArray)
	backend.BindVertexArray(vao)

	attribute := func(slot uint32, components int32, data []float32) {
		buf := backend.CreateBuffer()
		shape.Buffers = append(shape.Buffers, mls.tracker.Acquire(metadata.ResourceKindBuffer, buf, backend.DeleteBuffer))
		backend.UploadVertexAttribute(buf, slot, components, data)
	}
	attribute(metadata.AttributeSlotPosition, 3, mesh.Positions)
	if shape.HasNormals {
		attribute(metadata.AttributeSlotNormal, 3, mesh.Normals)
	}
	if shape.HasTexcoords {
		attribute(metadata.AttributeSlotTexCoord, 2, mesh.TexCoords)
	}
	if len(mesh.Indices) > 0 {
		buf := backend.CreateBuffer()
		shape.Buffers = append(shape.Buffers, mls.tracker.Acquire(metadata.ResourceKindBuffer, buf, backend.DeleteBuffer))
		backend.UploadIndices(buf, mesh.Indices)
	}
	// the element buffer binding stays with the vertex array
	backend.BindVertexArray(metadata.InvalidHandle)

	roles := make([]string, 0, len(mesh.TexturePaths))
	for role := range mesh.TexturePaths {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		path := mesh.TexturePaths[role]
		if path == "" {
			// referenced but not available
			shape.Textures[role] = metadata.InvalidHandle
			continue
		}
		h, _ := mls.textureSystem.Load(path, metadata.TextureKind2D)
		shape.Textures[role] = h
		if h.Valid() {
			shape.HasTextures = true
		}
	}
	return shape, nil
}

func (mls *MeshLoaderSystem) Count() int {
	return len(mls.objects)
}

func (mls *MeshLoaderSystem) At(i int) *metadata.RenderObject {
	if i < 0 || i >= len(mls.objects) {
		return nil
	}
	return mls.objects[i]
}

func (mls *MeshLoaderSystem) ByName(name string) *metadata.RenderObject {
	idx, ok := mls.lookup[name]
	if !ok {
		return nil
	}
	return mls.objects[idx]
}

func (mls *MeshLoaderSystem) Names() []string {
	names := make([]string, len(mls.objects))
	for i, o := range mls.objects {
		names[i] = o.Name
	}
	return names
}

// Reset forgets every object. The driver objects are owned by the tracker.
func (mls *MeshLoaderSystem) Reset() {
	mls.objects = nil
	mls.lookup = make(map[string]int)
}
