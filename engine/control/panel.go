package control

import (
	"fmt"

	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/components"
	"golang.org/x/exp/constraints"
)

const (
	shininessStep = 4
	minShininess  = 1
	maxShininess  = 256
	dollyStep     = 0.25
)

// ResourceQueries is the read-only view of the resource manager the panel needs.
type ResourceQueries interface {
	GetLoadedMeshesNames() []string
	GetLoadedShaderProgramNames() []string
	GetLoadedTextureNames() []string
}

// Selection holds the panel's current picks. Indices are always in range, or 0 for empty collections.
type Selection struct {
	Model    int
	Program  int
	Light    int
	Material int
	// Index into components.MaterialPresets last applied with R.
	Preset int
}

/**
 * @brief Panel is the keyboard driven control surface of the viewer. It
 * reads name lists from the resource manager and edits the scene in place;
 * it never creates or releases GPU resources.
 */
type Panel struct {
	scene     *components.Scene
	resources ResourceQueries
	selection Selection
}

func NewPanel(scene *components.Scene, resources ResourceQueries) *Panel {
	return &Panel{
		scene:     scene,
		resources: resources,
		selection: Selection{Preset: -1},
	}
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampIndex keeps i inside [0, n); an empty collection pins it to 0.
func clampIndex[T constraints.Integer](i, n T) T {
	if n <= 0 {
		return 0
	}
	return clamp(i, 0, n-1)
}

func next[T constraints.Integer](i, n T) T {
	if n <= 0 {
		return 0
	}
	return (clampIndex(i, n) + 1) % n
}

// Selection returns the current picks clamped against the current collections.
func (p *Panel) Selection() Selection {
	p.clamp()
	return p.selection
}

func (p *Panel) clamp() {
	p.selection.Model = clampIndex(p.selection.Model, len(p.resources.GetLoadedMeshesNames()))
	p.selection.Program = clampIndex(p.selection.Program, len(p.resources.GetLoadedShaderProgramNames()))
	p.selection.Light = clampIndex(p.selection.Light, len(p.scene.Lights))
	p.selection.Material = clampIndex(p.selection.Material, len(p.scene.Materials))
}

func (p *Panel) SelectModel(i int) {
	p.selection.Model = i
	p.clamp()
}

func (p *Panel) SelectProgram(i int) {
	p.selection.Program = i
	p.clamp()
}

func (p *Panel) SelectLight(i int) {
	p.selection.Light = i
	p.clamp()
}

func (p *Panel) SelectMaterial(i int) {
	p.selection.Material = i
	p.clamp()
}

// SelectedModel returns the name of the selected render object, or "" when none is loaded.
func (p *Panel) SelectedModel() string {
	names := p.resources.GetLoadedMeshesNames()
	if len(names) == 0 {
		return ""
	}
	return names[clampIndex(p.selection.Model, len(names))]
}

func (p *Panel) SelectedProgram() string {
	names := p.resources.GetLoadedShaderProgramNames()
	if len(names) == 0 {
		return ""
	}
	return names[clampIndex(p.selection.Program, len(names))]
}

func (p *Panel) SelectedLight() *components.Light {
	if len(p.scene.Lights) == 0 {
		return nil
	}
	return p.scene.Lights[clampIndex(p.selection.Light, len(p.scene.Lights))]
}

func (p *Panel) SelectedMaterial() *components.Material {
	if len(p.scene.Materials) == 0 {
		return nil
	}
	return p.scene.Materials[clampIndex(p.selection.Material, len(p.scene.Materials))]
}

/**
 * @brief Applies the binding of key, if any, and reports whether it was handled.
 */
func (p *Panel) HandleKey(key core.KeyCode) bool {
	p.clamp()
	switch key {
	case core.KEY_M:
		p.selection.Model = next(p.selection.Model, len(p.resources.GetLoadedMeshesNames()))
		p.status("model: %s", p.SelectedModel())
	case core.KEY_P:
		p.selection.Program = next(p.selection.Program, len(p.resources.GetLoadedShaderProgramNames()))
		p.status("program: %s", p.SelectedProgram())
	case core.KEY_L:
		p.selection.Light = next(p.selection.Light, len(p.scene.Lights))
		if l := p.SelectedLight(); l != nil {
			p.status("light %s", l.Label(p.selection.Light))
		}
	case core.KEY_K:
		if l := p.SelectedLight(); l != nil {
			l.Enabled = !l.Enabled
			p.status("light %s enabled: %t", l.Label(p.selection.Light), l.Enabled)
		}
	case core.KEY_T:
		p.selection.Material = next(p.selection.Material, len(p.scene.Materials))
		if m := p.SelectedMaterial(); m != nil {
			p.status("material %s", m.Label(p.selection.Material))
		}
	case core.KEY_R:
		p.nextPreset()
	case core.KEY_UP:
		p.adjustShininess(shininessStep)
	case core.KEY_DOWN:
		p.adjustShininess(-shininessStep)
	case core.KEY_W:
		p.scene.Camera.Dolly(dollyStep)
		p.status("camera at %v", p.scene.Camera.Position)
	case core.KEY_S:
		p.scene.Camera.Dolly(-dollyStep)
		p.status("camera at %v", p.scene.Camera.Position)
	case core.KEY_BACKSPACE:
		p.scene.Camera.Reset()
		p.status("camera reset")
	default:
		return false
	}
	return true
}

func (p *Panel) nextPreset() {
	m := p.SelectedMaterial()
	if m == nil {
		return
	}
	if m.Type != components.MaterialTypePhong {
		p.status("presets apply to %s only", components.MaterialTypeName(components.MaterialTypePhong))
		return
	}
	if p.selection.Preset < 0 {
		p.selection.Preset = 0
	} else {
		p.selection.Preset = next(p.selection.Preset, len(components.MaterialPresets))
	}
	preset := components.MaterialPresets[p.selection.Preset]
	m.ApplyPreset(preset)
	p.status("material %s preset: %s", m.Label(p.selection.Material), preset.Name)
}

func (p *Panel) adjustShininess(delta float32) {
	m := p.SelectedMaterial()
	if m == nil || m.Type != components.MaterialTypePhong {
		return
	}
	m.Phong.Shininess = clamp(m.Phong.Shininess+delta, minShininess, maxShininess)
	p.status("shininess: %.1f", m.Phong.Shininess)
}

func (p *Panel) status(format string, args ...interface{}) {
	core.LogInfo(format, args...)
}

// Describe summarizes the panel state, one line per entry.
func (p *Panel) Describe() []string {
	p.clamp()
	lines := []string{
		fmt.Sprintf("model: %s (%d loaded)", p.SelectedModel(), len(p.resources.GetLoadedMeshesNames())),
		fmt.Sprintf("program: %s (%d loaded)", p.SelectedProgram(), len(p.resources.GetLoadedShaderProgramNames())),
		fmt.Sprintf("textures: %d loaded", len(p.resources.GetLoadedTextureNames())),
	}
	for i, l := range p.scene.Lights {
		lines = append(lines, fmt.Sprintf("light %s enabled=%t", l.Label(i), l.Enabled))
	}
	for i, m := range p.scene.Materials {
		lines = append(lines, fmt.Sprintf("material %s", m.Label(i)))
	}
	return lines
}
