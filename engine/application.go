package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

const DefaultConfigPath = "assets/viewer.toml"

type WindowConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX int32 `toml:"x"`
	// Window starting position y axis, if applicable.
	StartPosY int32 `toml:"y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"height"`
	// MSAA samples of the default framebuffer.
	Samples int  `toml:"samples"`
	VSync   bool `toml:"vsync"`
}

type RenderConfig struct {
	// Share of the framebuffer width given to the 3D view.
	PanelRatio     float32    `toml:"panel_ratio"`
	ClearColor     [4]float32 `toml:"clear_color"`
	MaxTextureSize int        `toml:"max_texture_size"`
	ScreenshotDir  string     `toml:"screenshot_dir"`
}

// ModelConfig is a model loaded at startup.
type ModelConfig struct {
	Path             string `toml:"path"`
	Name             string `toml:"name"`
	DuplicateAllowed bool   `toml:"duplicate_allowed"`
}

type ApplicationConfig struct {
	Window          WindowConfig             `toml:"window"`
	Render          RenderConfig             `toml:"render"`
	LogLevel        core.LogLevel            `toml:"log_level"`
	AssetsDir       string                   `toml:"assets_dir"`
	PrefetchWorkers int                      `toml:"prefetch_workers"`
	Models          []ModelConfig            `toml:"models"`
	Programs        []metadata.ProgramConfig `toml:"programs"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Window: WindowConfig{
			Name:        "OBJ Viewer",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			Samples:     8,
			VSync:       true,
		},
		Render: RenderConfig{
			PanelRatio:     0.75,
			ClearColor:     [4]float32{0.98, 0.98, 0.98, 1},
			MaxTextureSize: 4096,
			ScreenshotDir:  ".",
		},
		LogLevel:        core.InfoLevel,
		AssetsDir:       "assets",
		PrefetchWorkers: 2,
		Models: []ModelConfig{
			{Path: "assets/models/cube.obj"},
		},
		Programs: []metadata.ProgramConfig{
			{
				Name: "Rendering Normal",
				Stages: []metadata.ShaderStageConfig{
					{Kind: "vertex", Path: "assets/shaders/passthrough.vert"},
					{Kind: "fragment", Path: "assets/shaders/passthrough.frag"},
				},
			},
			{
				Name: "Blinn-Phong Shading",
				Stages: []metadata.ShaderStageConfig{
					{Kind: "vertex", Path: "assets/shaders/phong.vert"},
					{Kind: "fragment", Path: "assets/shaders/phong.frag"},
				},
			},
		},
	}
}

/**
 * @brief Reads the TOML config at path on top of the defaults. A missing
 * file yields the defaults; the result is validated either way.
 */
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		core.LogWarn("config file `%s` not found, using defaults", path)
	} else {
		// lists in the file replace the default ones
		config.Models = nil
		config.Programs = nil
		if err := toml.Unmarshal(data, config); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return nil, fmt.Errorf("config `%s` line %d column %d: %s: %w", path, row, col, derr.Error(), core.ErrInvalidConfig)
			}
			return nil, fmt.Errorf("config `%s`: %s: %w", path, err, core.ErrInvalidConfig)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports every problem of the config at once.
func (c *ApplicationConfig) Validate() error {
	var errs []error
	invalid := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), core.ErrInvalidConfig))
	}

	if c.Window.StartWidth == 0 || c.Window.StartHeight == 0 {
		invalid("window size %dx%d must be non-zero", c.Window.StartWidth, c.Window.StartHeight)
	}
	if c.Window.Samples < 0 {
		invalid("window samples must be >= 0, got %d", c.Window.Samples)
	}
	if c.Render.PanelRatio <= 0 || c.Render.PanelRatio > 1 {
		invalid("panel_ratio must be in (0, 1], got %g", c.Render.PanelRatio)
	}
	for i, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			invalid("clear_color[%d] must be in [0, 1], got %g", i, v)
		}
	}
	if c.Render.MaxTextureSize < 0 {
		invalid("max_texture_size must be >= 0, got %d", c.Render.MaxTextureSize)
	}
	if c.PrefetchWorkers < 0 {
		invalid("prefetch_workers must be >= 0, got %d", c.PrefetchWorkers)
	}
	if _, err := core.ParseLogLevel(string(c.LogLevel)); err != nil {
		errs = append(errs, err)
	}
	for i, m := range c.Models {
		if m.Path == "" {
			invalid("models[%d] has no path", i)
		}
	}
	for i, p := range c.Programs {
		if len(p.Stages) == 0 {
			invalid("programs[%d] `%s` has no stages", i, p.Name)
			continue
		}
		if _, err := p.Sources(); err != nil {
			invalid("programs[%d] `%s`: %s", i, p.Name, err)
		}
	}
	return errors.Join(errs...)
}

// ClearColor returns the configured clear color.
func (c *ApplicationConfig) ClearColor() mgl32.Vec4 {
	return mgl32.Vec4(c.Render.ClearColor)
}
