package engine

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/anima-viewer/engine/assets"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/platform"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/opengl"
	"github.com/spaghettifunk/anima-viewer/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Every resource is released
	EngineStageShutdown
)

// maximum number of catalog events handled per frame
const assetEventsPerFrame = 16

// frame statistics are logged this often, in seconds
const metricsLogInterval = 5.0

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	renderer      *renderer.Renderer
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	lastMetricLog float64

	screenshotRequested bool
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("a game with an application config is required")
	}
	config := g.ApplicationConfig
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	level, _ := core.ParseLogLevel(string(config.LogLevel))
	core.SetLogLevel(level)

	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		platform:     p,
		assetManager: assets.NewAssetManager(config.Render.MaxTextureSize),
		width:        config.Window.StartWidth,
		height:       config.Window.StartHeight,
	}, nil
}

/**
 * @brief Opens the window, creates the graphics context and the resource
 * manager, then hands over to the game's FnInitialize.
 */
func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_SCREENSHOT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)

	if err := e.platform.Startup(platform.WindowConfig{
		Name:    config.Window.Name,
		X:       config.Window.StartPosX,
		Y:       config.Window.StartPosY,
		Width:   config.Window.StartWidth,
		Height:  config.Window.StartHeight,
		Samples: config.Window.Samples,
		VSync:   config.Window.VSync,
	}); err != nil {
		return err
	}

	backend, err := opengl.New()
	if err != nil {
		return err
	}
	backend.ConfigureState()

	ctx := renderer.NewRenderContext(backend)
	e.renderer = renderer.NewRenderer(ctx, config.Render.PanelRatio)

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		MaxTextureSize:  config.Render.MaxTextureSize,
		PrefetchWorkers: config.PrefetchWorkers,
	}, e.assetManager, ctx)
	if err != nil {
		return err
	}
	e.systemManager = sm

	// the catalog is optional, explicit paths load without it
	if err := e.assetManager.Initialize(config.AssetsDir); err != nil {
		core.LogWarn("asset catalog unavailable for `%s`: %s", config.AssetsDir, err)
	}

	e.gameInstance.SystemManager = e.systemManager
	e.gameInstance.AssetManager = e.assetManager
	e.gameInstance.Renderer = e.renderer

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	w, h := e.platform.FramebufferSize()
	e.resize(uint32(w), uint32(h))

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		e.platform.PumpMessages()
		if e.platform.ShouldClose() {
			e.isRunning.Store(false)
			break
		}

		if e.isSuspended {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		e.drainAssetEvents()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err)
				e.isRunning.Store(false)
				break
			}
		}

		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(delta); err != nil {
				core.LogError("Game render failed, shutting down: %s", err)
				e.isRunning.Store(false)
				break
			}
		}
		e.renderer.EndFrame()
		e.platform.SwapBuffers()

		if e.screenshotRequested {
			e.screenshotRequested = false
			e.takeScreenshot()
		}

		e.metrics.Update(e.platform.GetAbsoluteTime() - frameStartTime)
		if currentTime-e.lastMetricLog >= metricsLogInterval {
			e.lastMetricLog = currentTime
			core.LogDebug("fps: %.1f, frame time: %.3fms", e.metrics.FPS(), e.metrics.FrameTime())
		}

		core.InputUpdate(delta)
		e.lastTime = currentTime
	}

	return nil
}

// Quit stops the main loop after the current frame. Safe from any goroutine.
func (e *Engine) Quit() {
	e.isRunning.Store(false)
}

/**
 * @brief Releases every GPU resource while the context still exists, then
 * closes the catalog and the window.
 */
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown || e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageShutdown
	return nil
}

func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) drainAssetEvents() {
	for i := 0; i < assetEventsPerFrame; i++ {
		select {
		case ev, ok := <-e.assetManager.Events():
			if !ok {
				return
			}
			core.LogDebug("asset %s: %s (%s)", ev.Op, ev.Path, ev.Type)
			if e.gameInstance.FnOnAssetEvent != nil {
				e.gameInstance.FnOnAssetEvent(ev)
			}
		default:
			return
		}
	}
}

func (e *Engine) takeScreenshot() {
	dir := e.gameInstance.ApplicationConfig.Render.ScreenshotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		core.LogError("cannot create screenshot directory `%s`: %s", dir, err)
		return
	}
	w, h := e.platform.FramebufferSize()
	// the path is logged by TakeScreenshot
	_, _ = e.renderer.Context().TakeScreenshot(dir, w, h, time.Now())
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.platform.RequestClose()
		e.isRunning.Store(false)
		return true
	case core.EVENT_CODE_SCREENSHOT:
		e.screenshotRequested = true
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	switch ke.KeyCode {
	case core.KEY_ESCAPE, core.KEY_Q:
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return true
	case core.KEY_F, core.KEY_SNAPSHOT, core.KEY_PRINT:
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_SCREENSHOT})
		return true
	}
	if e.gameInstance.FnOnKey != nil {
		return e.gameInstance.FnOnKey(ke.KeyCode)
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	e.resize(se.WindowWidth, se.WindowHeight)
	return true
}

func (e *Engine) resize(width, height uint32) {
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}

	vp := e.renderer.OnResize(int32(width), int32(height))
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(uint32(vp.Width), uint32(vp.Height)); err != nil {
			core.LogError(err.Error())
		}
	}
}
