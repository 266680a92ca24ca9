package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

// Viewport is a rectangle of the framebuffer in pixels.
type Viewport struct {
	X, Y, Width, Height int32
}

// ViewportFor returns the 3D viewport for a framebuffer: the left `ratio` of
// the width at full height. The rest is left to the control panel.
func ViewportFor(width, height int32, ratio float32) Viewport {
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	return Viewport{X: 0, Y: 0, Width: int32(ratio * float32(width)), Height: height}
}

/**
 * @brief Renderer issues the per-frame driver calls on top of a RenderContext.
 */
type Renderer struct {
	context    *RenderContext
	panelRatio float32
	viewport   Viewport
}

func NewRenderer(context *RenderContext, panelRatio float32) *Renderer {
	return &Renderer{
		context:    context,
		panelRatio: panelRatio,
	}
}

func (r *Renderer) Context() *RenderContext {
	return r.context
}

func (r *Renderer) Viewport() Viewport {
	return r.viewport
}

// OnResize recomputes the viewport for a new framebuffer size.
func (r *Renderer) OnResize(width, height int32) Viewport {
	r.viewport = ViewportFor(width, height, r.panelRatio)
	r.context.Backend().Viewport(r.viewport.X, r.viewport.Y, r.viewport.Width, r.viewport.Height)
	return r.viewport
}

func (r *Renderer) BeginFrame(clearColor mgl32.Vec4) {
	r.context.Backend().Clear(clearColor)
}

// EndFrame leaves no vertex array bound between frames.
func (r *Renderer) EndFrame() {
	r.context.Backend().BindVertexArray(metadata.InvalidHandle)
}

// DrawShape binds the shape's live textures to consecutive units, then its
// vertex array, and issues one draw call.
func (r *Renderer) DrawShape(program *metadata.ProgramInfo, shape *metadata.RenderShape) error {
	if err := r.context.UseProgram(program); err != nil {
		return err
	}
	vao := shape.VAO()
	if !vao.Valid() {
		core.LogWarn("shape `%s` has no vertex array, skipping draw", shape.Name)
		return nil
	}

	backend := r.context.Backend()
	roles := make([]string, 0, len(shape.Textures))
	for role, h := range shape.Textures {
		if h.Valid() {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	for unit, role := range roles {
		backend.BindTexture(uint32(unit), metadata.TextureKind2D, shape.Textures[role])
		if err := r.context.SetInt(program, TextureSamplerPrefix+role, int32(unit)); err != nil {
			return err
		}
	}
	if err := r.context.SetBool(program, UniformHasTextures, shape.HasTextures); err != nil {
		return err
	}

	backend.BindVertexArray(vao)
	if shape.NumIndices > 0 {
		backend.DrawIndexed(shape.NumIndices)
	} else {
		backend.DrawArrays(shape.NumVertices)
	}
	return nil
}

// DrawObject draws every shape of a render object with the same program.
func (r *Renderer) DrawObject(program *metadata.ProgramInfo, object *metadata.RenderObject) error {
	for _, shape := range object.Shapes {
		if err := r.DrawShape(program, shape); err != nil {
			return err
		}
	}
	return nil
}
