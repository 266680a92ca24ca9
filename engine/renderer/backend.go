package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

/**
 * @brief GraphicsBackend is the thin layer over the graphics driver used by the
 * resource systems and the render loop. Every call must happen on the thread
 * that owns the graphics context.
 */
type GraphicsBackend interface {
	// Textures. Pixels are tightly packed RGBA8 rows, bottom row first.
	CreateTexture(kind metadata.TextureKind, width, height int32, pixels []uint8) metadata.Handle
	BindTexture(unit uint32, kind metadata.TextureKind, texture metadata.Handle)
	DeleteTexture(texture metadata.Handle)

	// Shader stages. Compile reports the status and the driver info log.
	CreateShader(kind metadata.ShaderStageKind) metadata.Handle
	CompileShader(shader metadata.Handle, source string) (bool, string)
	DeleteShader(shader metadata.Handle)

	// Programs. Link reports the status and the driver info log.
	CreateProgram() metadata.Handle
	AttachShader(program, shader metadata.Handle)
	LinkProgram(program metadata.Handle) (bool, string)
	UseProgram(program metadata.Handle)
	DeleteProgram(program metadata.Handle)

	// Uniforms of the currently used program. A location of -1 is ignored by the driver.
	UniformLocation(program metadata.Handle, name string) int32
	SetUniformInt(location int32, value int32)
	SetUniformFloat(location int32, value float32)
	SetUniformVec3(location int32, value mgl32.Vec3)
	SetUniformVec4(location int32, value mgl32.Vec4)
	SetUniformMat3(location int32, value mgl32.Mat3)
	SetUniformMat4(location int32, value mgl32.Mat4)

	// Geometry. Attribute uploads go to the currently bound vertex array.
	CreateVertexArray() metadata.Handle
	BindVertexArray(vao metadata.Handle)
	DeleteVertexArray(vao metadata.Handle)
	CreateBuffer() metadata.Handle
	UploadVertexAttribute(buffer metadata.Handle, slot uint32, components int32, data []float32)
	UploadIndices(buffer metadata.Handle, indices []uint32)
	DeleteBuffer(buffer metadata.Handle)

	// UnbindAll resets vertex array, buffer, program and texture bindings to zero.
	UnbindAll()

	Viewport(x, y, width, height int32)
	Clear(color mgl32.Vec4)
	DrawIndexed(count int32)
	DrawArrays(count int32)
	// ReadPixels returns RGBA8 rows of the front buffer, bottom row first.
	ReadPixels(x, y, width, height int32) []uint8
}
