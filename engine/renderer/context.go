package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

/**
 * @brief RenderContext tracks the driver state the viewer cares about.
 * The currently bound program is an explicit field: binding the program that
 * is already bound issues no driver call, and uniform setters bind lazily.
 * Uniform locations are cached per program.
 */
type RenderContext struct {
	backend      GraphicsBackend
	boundProgram metadata.Handle
	locations    map[metadata.Handle]map[string]int32
	bindCalls    int
}

func NewRenderContext(backend GraphicsBackend) *RenderContext {
	return &RenderContext{
		backend:   backend,
		locations: make(map[metadata.Handle]map[string]int32),
	}
}

func (c *RenderContext) Backend() GraphicsBackend {
	return c.backend
}

// BoundProgram returns the program currently in use, or InvalidHandle.
func (c *RenderContext) BoundProgram() metadata.Handle {
	return c.boundProgram
}

// BindCalls returns how many program binds actually reached the driver.
func (c *RenderContext) BindCalls() int {
	return c.bindCalls
}

// UseProgram binds a program for drawing. Programs that failed to link are refused.
func (c *RenderContext) UseProgram(program *metadata.ProgramInfo) error {
	h := program.Handle()
	if !h.Valid() {
		return fmt.Errorf("cannot bind a released or missing program: %w", core.ErrNoProgramBound)
	}
	if !program.Linked {
		return fmt.Errorf("program `%s`: %w", program.Name, core.ErrProgramNotLinked)
	}
	if c.boundProgram == h {
		return nil
	}
	c.backend.UseProgram(h)
	c.boundProgram = h
	c.bindCalls++
	return nil
}

// Unbind clears every binding on the driver and in the context.
func (c *RenderContext) Unbind() {
	c.backend.UnbindAll()
	c.boundProgram = metadata.InvalidHandle
}

// Forget drops the cached state of a program that is about to be deleted.
func (c *RenderContext) Forget(program metadata.Handle) {
	delete(c.locations, program)
	if c.boundProgram == program {
		c.boundProgram = metadata.InvalidHandle
	}
}

func (c *RenderContext) location(name string) int32 {
	cache, ok := c.locations[c.boundProgram]
	if !ok {
		cache = make(map[string]int32)
		c.locations[c.boundProgram] = cache
	}
	if loc, ok := cache[name]; ok {
		return loc
	}
	loc := c.backend.UniformLocation(c.boundProgram, name)
	cache[name] = loc
	return loc
}

// uniform binds program if needed and resolves name. ok is false when the
// program does not declare the uniform.
func (c *RenderContext) uniform(program *metadata.ProgramInfo, name string) (int32, bool, error) {
	if err := c.UseProgram(program); err != nil {
		return -1, false, err
	}
	loc := c.location(name)
	return loc, loc >= 0, nil
}

func (c *RenderContext) SetInt(program *metadata.ProgramInfo, name string, value int32) error {
	loc, ok, err := c.uniform(program, name)
	if ok {
		c.backend.SetUniformInt(loc, value)
	}
	return err
}

func (c *RenderContext) SetBool(program *metadata.ProgramInfo, name string, value bool) error {
	var v int32
	if value {
		v = 1
	}
	return c.SetInt(program, name, v)
}

func (c *RenderContext) SetFloat(program *metadata.ProgramInfo, name string, value float32) error {
	loc, ok, err := c.uniform(program, name)
	if ok {
		c.backend.SetUniformFloat(loc, value)
	}
	return err
}

func (c *RenderContext) SetVec3(program *metadata.ProgramInfo, name string, value mgl32.Vec3) error {
	loc, ok, err := c.uniform(program, name)
	if ok {
		c.backend.SetUniformVec3(loc, value)
	}
	return err
}

func (c *RenderContext) SetVec4(program *metadata.ProgramInfo, name string, value mgl32.Vec4) error {
	loc, ok, err := c.uniform(program, name)
	if ok {
		c.backend.SetUniformVec4(loc, value)
	}
	return err
}

func (c *RenderContext) SetMat3(program *metadata.ProgramInfo, name string, value mgl32.Mat3) error {
	loc, ok, err := c.uniform(program, name)
	if ok {
		c.backend.SetUniformMat3(loc, value)
	}
	return err
}

func (c *RenderContext) SetMat4(program *metadata.ProgramInfo, name string, value mgl32.Mat4) error {
	loc, ok, err := c.uniform(program, name)
	if ok {
		c.backend.SetUniformMat4(loc, value)
	}
	return err
}
