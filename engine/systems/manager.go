package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-viewer/engine/assets"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

type SystemManagerConfig struct {
	MaxTextureSize int
	/** @brief Number of workers decoding textures ahead of upload. */
	PrefetchWorkers int
}

/**
 * @brief SystemManager is the GPU resource manager of the viewer. It owns
 * every texture, shader stage, program and mesh buffer uploaded through it
 * and releases them exactly once. Apart from PrefetchTextures, every method
 * must be called from the thread that owns the graphics context.
 */
type SystemManager struct {
	jobSystem        *JobSystem
	textureSystem    *TextureSystem
	shaderSystem     *ShaderSystem
	meshLoaderSystem *MeshLoaderSystem

	context *renderer.RenderContext
	tracker *metadata.ResourceTracker
}

func NewSystemManager(config SystemManagerConfig, am *assets.AssetManager, ctx *renderer.RenderContext) (*SystemManager, error) {
	if am == nil || ctx == nil {
		err := fmt.Errorf("NewSystemManager - an asset manager and a render context are required")
		core.LogError(err.Error())
		return nil, err
	}
	workers := config.PrefetchWorkers
	if workers <= 0 {
		workers = 1
	}
	js, err := NewJobSystem(workers, 64)
	if err != nil {
		return nil, err
	}

	tracker := metadata.NewResourceTracker()
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureSize: config.MaxTextureSize,
	}, js, am, ctx, tracker)
	if err != nil {
		return nil, err
	}
	ss, err := NewShaderSystem(am, ctx, tracker)
	if err != nil {
		return nil, err
	}
	mls, err := NewMeshLoaderSystem(ts, am, ctx, tracker)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		jobSystem:        js,
		textureSystem:    ts,
		shaderSystem:     ss,
		meshLoaderSystem: mls,
		context:          ctx,
		tracker:          tracker,
	}, nil
}

func (sm *SystemManager) Context() *renderer.RenderContext {
	return sm.context
}

func (sm *SystemManager) Tracker() *metadata.ResourceTracker {
	return sm.tracker
}

func (sm *SystemManager) LoadTexture(path string, kind metadata.TextureKind) (metadata.Handle, error) {
	return sm.textureSystem.Load(path, kind)
}

// PrefetchTextures decodes files in the background; the returned channel closes when all are parked.
func (sm *SystemManager) PrefetchTextures(paths ...string) <-chan struct{} {
	return sm.textureSystem.Prefetch(paths...)
}

func (sm *SystemManager) LoadShaderStage(path string, kind metadata.ShaderStageKind) (metadata.Handle, error) {
	return sm.shaderSystem.LoadStage(path, kind)
}

func (sm *SystemManager) LoadShaderProgram(stages []metadata.ShaderStageSource, name string) (metadata.Handle, error) {
	return sm.shaderSystem.LoadProgram(stages, name)
}

func (sm *SystemManager) LoadShaderProgramFromConfig(config metadata.ProgramConfig) (metadata.Handle, error) {
	sources, err := config.Sources()
	if err != nil {
		err = fmt.Errorf("program `%s`: %w: %w", config.Name, core.ErrInvalidConfig, err)
		core.LogError(err.Error())
		return metadata.InvalidHandle, err
	}
	return sm.shaderSystem.LoadProgram(sources, config.Name)
}

func (sm *SystemManager) LoadModel(path, name string, duplicateAllowed bool, out *[]*metadata.RenderObject) error {
	return sm.meshLoaderSystem.LoadModel(path, name, duplicateAllowed, out)
}

func invalidIndex(what string, i, count int) error {
	err := fmt.Errorf("%s index %d out of range [0, %d): %w", what, i, count, core.ErrInvalidIndex)
	core.LogError(err.Error())
	return err
}

func unknownName(what, name string) error {
	err := fmt.Errorf("no %s named `%s`: %w", what, name, core.ErrUnknownName)
	core.LogError(err.Error())
	return err
}

func (sm *SystemManager) GetProgramID(i int) (metadata.Handle, error) {
	p, err := sm.GetProgramInfoAt(i)
	if err != nil {
		return metadata.InvalidHandle, err
	}
	return p.Handle(), nil
}

func (sm *SystemManager) GetProgramIDByName(name string) (metadata.Handle, error) {
	p, err := sm.GetProgramInfo(name)
	if err != nil {
		return metadata.InvalidHandle, err
	}
	return p.Handle(), nil
}

func (sm *SystemManager) GetProgramInfo(name string) (*metadata.ProgramInfo, error) {
	p := sm.shaderSystem.ByName(name)
	if p == nil {
		return nil, unknownName("program", name)
	}
	return p, nil
}

func (sm *SystemManager) GetProgramInfoAt(i int) (*metadata.ProgramInfo, error) {
	p := sm.shaderSystem.At(i)
	if p == nil {
		return nil, invalidIndex("program", i, sm.shaderSystem.Count())
	}
	return p, nil
}

func (sm *SystemManager) GetLoadedShaderProgramNames() []string {
	return sm.shaderSystem.Names()
}

func (sm *SystemManager) GetShaderID(path string) (metadata.Handle, error) {
	s := sm.shaderSystem.StageByPath(path)
	if s == nil {
		return metadata.InvalidHandle, unknownName("shader stage", path)
	}
	return s.Handle(), nil
}

func (sm *SystemManager) textureAt(i int) (*metadata.TextureRecord, error) {
	t := sm.textureSystem.At(i)
	if t == nil {
		return nil, invalidIndex("texture", i, sm.textureSystem.Count())
	}
	return t, nil
}

func (sm *SystemManager) textureByName(path string) (*metadata.TextureRecord, error) {
	t := sm.textureSystem.ByPath(path)
	if t == nil {
		return nil, unknownName("texture", path)
	}
	return t, nil
}

func (sm *SystemManager) GetTextureID(i int) (metadata.Handle, error) {
	t, err := sm.textureAt(i)
	return t.Handle(), err
}

func (sm *SystemManager) GetTextureIDByName(path string) (metadata.Handle, error) {
	t, err := sm.textureByName(path)
	return t.Handle(), err
}

func (sm *SystemManager) GetTextureWidth(i int) (int32, error) {
	t, err := sm.textureAt(i)
	if err != nil {
		return 0, err
	}
	return t.Width, nil
}

func (sm *SystemManager) GetTextureHeight(i int) (int32, error) {
	t, err := sm.textureAt(i)
	if err != nil {
		return 0, err
	}
	return t.Height, nil
}

func (sm *SystemManager) GetTextureWidthByName(path string) (int32, error) {
	t, err := sm.textureByName(path)
	if err != nil {
		return 0, err
	}
	return t.Width, nil
}

func (sm *SystemManager) GetTextureHeightByName(path string) (int32, error) {
	t, err := sm.textureByName(path)
	if err != nil {
		return 0, err
	}
	return t.Height, nil
}

func (sm *SystemManager) GetLoadedTextureNames() []string {
	return sm.textureSystem.Names()
}

func (sm *SystemManager) GetRenderObject(i int) (*metadata.RenderObject, error) {
	o := sm.meshLoaderSystem.At(i)
	if o == nil {
		return nil, invalidIndex("render object", i, sm.meshLoaderSystem.Count())
	}
	return o, nil
}

func (sm *SystemManager) GetRenderObjectByName(name string) (*metadata.RenderObject, error) {
	o := sm.meshLoaderSystem.ByName(name)
	if o == nil {
		return nil, unknownName("render object", name)
	}
	return o, nil
}

func (sm *SystemManager) GetLoadedMeshesNames() []string {
	return sm.meshLoaderSystem.Names()
}

/**
 * @brief Clears every binding, then releases buffers, vertex arrays,
 * programs, shader stages and textures, each exactly once. Every table is
 * emptied, so a second call releases nothing.
 * @return The number of driver objects deleted.
 */
func (sm *SystemManager) ReleaseAll() int {
	released := sm.tracker.ReleaseAll(sm.context.Unbind)
	sm.meshLoaderSystem.Reset()
	sm.shaderSystem.Reset()
	sm.textureSystem.Reset()
	if released > 0 {
		core.LogInfo("released %d GPU resources", released)
	}
	return released
}

// Shutdown stops the prefetch workers and releases everything. Call it before the context is destroyed.
func (sm *SystemManager) Shutdown() error {
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	sm.ReleaseAll()
	return nil
}
