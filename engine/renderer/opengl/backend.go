package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

var _ renderer.GraphicsBackend = (*Backend)(nil)

/**
 * @brief Backend implements the graphics backend on OpenGL 4.1 core.
 * New must be called after the window's context was made current, on the
 * same thread.
 */
type Backend struct {
	version string
	units   textureUnits
}

func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		err = fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
		core.LogError(err.Error())
		return nil, err
	}
	b := &Backend{
		version: gl.GoStr(gl.GetString(gl.VERSION)),
	}
	core.LogInfo("OpenGL version %s, renderer %s", b.version, gl.GoStr(gl.GetString(gl.RENDERER)))
	return b, nil
}

func (b *Backend) Version() string {
	return b.version
}

// ConfigureState enables depth testing, back-face culling and multisampling.
func (b *Backend) ConfigureState() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.MULTISAMPLE)
}

func textureTarget(kind metadata.TextureKind) uint32 {
	if kind == metadata.TextureKindRectangle {
		return gl.TEXTURE_RECTANGLE
	}
	return gl.TEXTURE_2D
}

func (b *Backend) CreateTexture(kind metadata.TextureKind, width, height int32, pixels []uint8) metadata.Handle {
	if width <= 0 || height <= 0 || len(pixels) < int(width*height*4) {
		core.LogError("invalid texture upload %dx%d with %d bytes", width, height, len(pixels))
		return metadata.InvalidHandle
	}
	target := textureTarget(kind)

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(target, texture)

	if kind == metadata.TextureKindRectangle {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	} else {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.REPEAT)
		gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.REPEAT)
		gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	}
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(target, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if kind != metadata.TextureKindRectangle {
		gl.GenerateMipmap(target)
	}
	gl.BindTexture(target, 0)

	return metadata.Handle(texture)
}

func (b *Backend) BindTexture(unit uint32, kind metadata.TextureKind, texture metadata.Handle) {
	b.units.bind(unit)
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(textureTarget(kind), uint32(texture))
}

func (b *Backend) DeleteTexture(texture metadata.Handle) {
	t := uint32(texture)
	gl.DeleteTextures(1, &t)
}

func shaderType(kind metadata.ShaderStageKind) uint32 {
	switch kind {
	case metadata.ShaderStageFragment:
		return gl.FRAGMENT_SHADER
	case metadata.ShaderStageGeometry:
		return gl.GEOMETRY_SHADER
	case metadata.ShaderStageTessControl:
		return gl.TESS_CONTROL_SHADER
	case metadata.ShaderStageTessEvaluation:
		return gl.TESS_EVALUATION_SHADER
	default:
		return gl.VERTEX_SHADER
	}
}

func (b *Backend) CreateShader(kind metadata.ShaderStageKind) metadata.Handle {
	if kind == metadata.ShaderStageCompute {
		// compute shaders need GL 4.3
		core.LogError("compute shaders are not available on an OpenGL 4.1 context")
		return metadata.InvalidHandle
	}
	return metadata.Handle(gl.CreateShader(shaderType(kind)))
}

func (b *Backend) CompileShader(shader metadata.Handle, source string) (bool, string) {
	s := uint32(shader)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csources, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)

	var logLength int32
	gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &logLength)
	infoLog := ""
	if logLength > 0 {
		buf := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(s, logLength, nil, gl.Str(buf))
		infoLog = strings.TrimRight(buf, "\x00")
	}
	return status == gl.TRUE, infoLog
}

func (b *Backend) DeleteShader(shader metadata.Handle) {
	gl.DeleteShader(uint32(shader))
}

func (b *Backend) CreateProgram() metadata.Handle {
	return metadata.Handle(gl.CreateProgram())
}

func (b *Backend) AttachShader(program, shader metadata.Handle) {
	gl.AttachShader(uint32(program), uint32(shader))
}

func (b *Backend) LinkProgram(program metadata.Handle) (bool, string) {
	p := uint32(program)
	gl.LinkProgram(p)

	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)

	var logLength int32
	gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &logLength)
	infoLog := ""
	if logLength > 0 {
		buf := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(p, logLength, nil, gl.Str(buf))
		infoLog = strings.TrimRight(buf, "\x00")
	}
	return status == gl.TRUE, infoLog
}

func (b *Backend) UseProgram(program metadata.Handle) {
	gl.UseProgram(uint32(program))
}

func (b *Backend) DeleteProgram(program metadata.Handle) {
	gl.DeleteProgram(uint32(program))
}

func (b *Backend) UniformLocation(program metadata.Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
}

func (b *Backend) SetUniformInt(location int32, value int32) {
	gl.Uniform1i(location, value)
}

func (b *Backend) SetUniformFloat(location int32, value float32) {
	gl.Uniform1f(location, value)
}

func (b *Backend) SetUniformVec3(location int32, value mgl32.Vec3) {
	gl.Uniform3fv(location, 1, &value[0])
}

func (b *Backend) SetUniformVec4(location int32, value mgl32.Vec4) {
	gl.Uniform4fv(location, 1, &value[0])
}

func (b *Backend) SetUniformMat3(location int32, value mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &value[0])
}

func (b *Backend) SetUniformMat4(location int32, value mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}

func (b *Backend) CreateVertexArray() metadata.Handle {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return metadata.Handle(vao)
}

func (b *Backend) BindVertexArray(vao metadata.Handle) {
	gl.BindVertexArray(uint32(vao))
}

func (b *Backend) DeleteVertexArray(vao metadata.Handle) {
	v := uint32(vao)
	gl.DeleteVertexArrays(1, &v)
}

func (b *Backend) CreateBuffer() metadata.Handle {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return metadata.Handle(buffer)
}

func (b *Backend) UploadVertexAttribute(buffer metadata.Handle, slot uint32, components int32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buffer))
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.VertexAttribPointerWithOffset(slot, components, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(slot)
}

func (b *Backend) UploadIndices(buffer metadata.Handle, indices []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(buffer))
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
}

func (b *Backend) DeleteBuffer(buffer metadata.Handle) {
	buf := uint32(buffer)
	gl.DeleteBuffers(1, &buf)
}

// UnbindAll clears the vertex array first so the element buffer unbind
// does not modify a live vertex array. Every texture unit used since the
// last call is cleared on both targets.
func (b *Backend) UnbindAll() {
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.UseProgram(0)
	// highest unit first so TEXTURE0 ends up active
	for _, unit := range b.units.drain() {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.BindTexture(gl.TEXTURE_RECTANGLE, 0)
	}
}

func (b *Backend) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (b *Backend) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *Backend) DrawIndexed(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}

func (b *Backend) DrawArrays(count int32) {
	gl.DrawArrays(gl.TRIANGLES, 0, count)
}

func (b *Backend) ReadPixels(x, y, width, height int32) []uint8 {
	pixels := make([]uint8, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.ReadBuffer(gl.FRONT)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
