package engine

import (
	"github.com/spaghettifunk/anima-viewer/engine/assets"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/systems"
)

/**
 * @brief Game is the application plugged into the engine. The engine fills
 * in the managers before FnInitialize runs; every hook is called on the
 * thread that owns the graphics context.
 */
type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	AssetManager      *assets.AssetManager
	Renderer          *renderer.Renderer
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnOnKey           OnKey
	FnOnAssetEvent    OnAssetEvent
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error

// OnKey reports whether the key was handled.
type OnKey func(key core.KeyCode) bool
type OnAssetEvent func(event assets.AssetEvent)
type Shutdown func() error
