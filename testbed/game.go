package testbed

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-viewer/engine"
	"github.com/spaghettifunk/anima-viewer/engine/assets"
	"github.com/spaghettifunk/anima-viewer/engine/control"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/components"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	scene   *components.Scene
	panel   *control.Panel
	objects []*metadata.RenderObject

	// position in the catalog model list of the last model loaded with N
	catalogIndex int
	// programs already reported as unusable
	skipped map[string]bool
}

// NewTestGame builds the viewer application around config.
func NewTestGame(config *engine.ApplicationConfig) (*TestGame, error) {
	if config == nil {
		return nil, fmt.Errorf("a config is required")
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				catalogIndex: -1,
				skipped:      make(map[string]bool),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnOnKey = tg.OnKey
	tg.FnOnAssetEvent = tg.OnAssetEvent
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

/**
 * @brief Links the configured programs, loads the configured models and
 * builds the default scene. Individual load failures are logged and skipped.
 */
func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := g.state()
	config := g.ApplicationConfig

	// decode catalog images while shaders compile
	prefetched := g.SystemManager.PrefetchTextures(g.AssetManager.List(metadata.AssetTypeImage)...)

	for _, p := range config.Programs {
		if _, err := g.SystemManager.LoadShaderProgramFromConfig(p); err != nil && !errors.Is(err, core.ErrLinkFailed) {
			core.LogError("program `%s` skipped: %s", p.Name, err)
		}
	}

	<-prefetched
	for _, m := range config.Models {
		if err := g.SystemManager.LoadModel(m.Path, m.Name, m.DuplicateAllowed, &state.objects); err != nil {
			core.LogError("model `%s` skipped: %s", m.Path, err)
		}
	}

	width, height := config.Window.StartWidth, config.Window.StartHeight
	vp := renderer.ViewportFor(int32(width), int32(height), config.Render.PanelRatio)
	camera := components.NewDefaultCamera(float32(vp.Width) / float32(vp.Height))

	scene := components.NewScene(camera)
	scene.ClearColor = config.ClearColor()
	scene.Lights = []*components.Light{
		components.NewLight(components.LightTypePoint),
		newSunLight(),
	}
	scene.Materials = []*components.Material{
		components.NewSampleMaterial(components.MaterialTypePhong, ""),
		components.NewSampleMaterial(components.MaterialTypePhong, "gold"),
		components.NewSampleMaterial(components.MaterialTypePhong, "jade"),
		components.NewSampleMaterial(components.MaterialTypePBR, ""),
	}
	state.scene = scene
	state.panel = control.NewPanel(scene, g.SystemManager)

	for _, line := range state.panel.Describe() {
		core.LogInfo(line)
	}
	return nil
}

// newSunLight is a directional light, off until toggled from the panel.
func newSunLight() *components.Light {
	l := components.NewLight(components.LightTypeDirectional)
	l.Enabled = false
	l.Position = mgl32.Vec3{-1, 1, 1}
	return l
}

func (g *TestGame) Update(deltaTime float64) error {
	g.state().scene.Advance(deltaTime)
	return nil
}

/**
 * @brief Draws the selected model with the selected program. A program
 * that failed to link is never bound; the frame is only cleared.
 */
func (g *TestGame) Render(deltaTime float64) error {
	state := g.state()
	scene := state.scene
	g.Renderer.BeginFrame(scene.ClearColor)

	modelName := state.panel.SelectedModel()
	programName := state.panel.SelectedProgram()
	if modelName == "" || programName == "" {
		return nil
	}
	object, err := g.SystemManager.GetRenderObjectByName(modelName)
	if err != nil {
		return nil
	}
	program, err := g.SystemManager.GetProgramInfo(programName)
	if err != nil {
		return nil
	}
	if !program.Linked {
		if !state.skipped[programName] {
			state.skipped[programName] = true
			core.LogWarn("program `%s` is not linked, nothing is drawn with it", programName)
		}
		return nil
	}

	ctx := g.Renderer.Context()
	camera := scene.Camera
	if err := ctx.SetMatrices(program, scene.ModelMatrix(), camera.View(), camera.Projection()); err != nil {
		return err
	}
	light := state.panel.SelectedLight()
	material := state.panel.SelectedMaterial()
	if light != nil && material != nil {
		if err := errors.Join(
			ctx.SetBlinnPhong(program, camera.Position, light, material),
			ctx.SetLight(program, light, renderer.DefaultLightUniform),
			ctx.SetMaterial(program, material, renderer.DefaultMaterialUniform),
		); err != nil {
			return err
		}
	}
	for i, l := range scene.Lights {
		if err := ctx.SetLightInArray(program, l, renderer.DefaultLightArrayUniform, i); err != nil {
			return err
		}
	}
	return g.Renderer.DrawObject(program, object)
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	if state := g.state(); state.scene != nil {
		state.scene.Camera.SetViewport(int32(width), int32(height))
	}
	return nil
}

func (g *TestGame) OnKey(key core.KeyCode) bool {
	state := g.state()
	if key == core.KEY_N {
		g.loadNextCatalogModel()
		return true
	}
	return state.panel.HandleKey(key)
}

// loadNextCatalogModel loads the next model file found under the asset root and selects it.
func (g *TestGame) loadNextCatalogModel() {
	state := g.state()
	models := g.AssetManager.List(metadata.AssetTypeModel)
	if len(models) == 0 {
		core.LogInfo("no model files in the asset catalog")
		return
	}
	state.catalogIndex = (state.catalogIndex + 1) % len(models)
	path := models[state.catalogIndex]
	if err := g.SystemManager.LoadModel(path, "", false, &state.objects); err != nil {
		return
	}
	for i, name := range g.SystemManager.GetLoadedMeshesNames() {
		if name == path {
			state.panel.SelectModel(i)
			core.LogInfo("model: %s", name)
			return
		}
	}
}

func (g *TestGame) OnAssetEvent(event assets.AssetEvent) {
	switch event.Type {
	case metadata.AssetTypeModel:
		if event.Op == assets.AssetCreated {
			core.LogInfo("new model `%s` available, press N to cycle catalog models", event.Path)
		}
	case metadata.AssetTypeShader:
		if event.Op == assets.AssetModified {
			core.LogInfo("shader `%s` changed on disk; programs keep the compiled version until restart", event.Path)
		}
	}
}

func (g *TestGame) Shutdown() error {
	core.LogDebug("TestGame Shutdown fn....")
	state := g.state()
	state.objects = nil
	return nil
}
