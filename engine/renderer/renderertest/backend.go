// Package renderertest provides an in-memory graphics backend that records
// every driver call, for tests that run without a graphics context.
package renderertest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

var _ renderer.GraphicsBackend = (*Backend)(nil)

// FailMarker makes CompileShader fail when it appears in a shader source.
const FailMarker = "#error"

// Key identifies one driver object.
type Key struct {
	Kind   metadata.ResourceKind
	Handle metadata.Handle
}

func (k Key) String() string {
	return fmt.Sprintf("%s %d", k.Kind, k.Handle)
}

type shaderState struct {
	kind     metadata.ShaderStageKind
	compiled bool
}

type programState struct {
	attached []metadata.Handle
	linked   bool
}

// DrawCall is one recorded draw.
type DrawCall struct {
	VertexArray metadata.Handle
	Program     metadata.Handle
	Count       int32
	Indexed     bool
}

// TextureUpload is the data passed to one CreateTexture call.
type TextureUpload struct {
	Kind          metadata.TextureKind
	Width, Height int32
	Pixels        int
}

/**
 * @brief Backend counts create and delete calls per handle and simulates
 * compile and link status. Handles come from a single counter so they are
 * unique across kinds.
 */
type Backend struct {
	next metadata.Handle

	Created map[Key]int
	Deleted map[Key]int

	shaders  map[metadata.Handle]*shaderState
	programs map[metadata.Handle]*programState
	uploads  map[metadata.Handle]TextureUpload

	// Refuse makes create calls of a kind return InvalidHandle.
	Refuse map[metadata.ResourceKind]bool

	// CompileFails decides whether a source fails to compile. Defaults to FailMarker detection.
	CompileFails func(source string) bool

	BoundProgram     metadata.Handle
	BoundVertexArray metadata.Handle
	BoundTextures    map[uint32]metadata.Handle
	UseProgramCalls  int
	UnbindAllCalls   int
	// Calls lists driver calls in order, e.g. "CreateTexture 1", "UnbindAll".
	Calls []string

	locations    map[metadata.Handle]map[string]int32
	nextLocation int32
	// Uniforms holds the last value written per "program/name"; names listed in Missing resolve to -1.
	Uniforms map[string]interface{}
	Missing  map[string]bool
	byLoc    map[int32]string

	Attributes map[metadata.Handle][]uint32
	Draws      []DrawCall
	Viewports  [][4]int32
	Clears     int
	// FrontBuffer is returned by ReadPixels when set, otherwise a generated gradient.
	FrontBuffer []uint8
}

func NewBackend() *Backend {
	return &Backend{
		Created:       make(map[Key]int),
		Deleted:       make(map[Key]int),
		shaders:       make(map[metadata.Handle]*shaderState),
		programs:      make(map[metadata.Handle]*programState),
		uploads:       make(map[metadata.Handle]TextureUpload),
		BoundTextures: make(map[uint32]metadata.Handle),
		locations:     make(map[metadata.Handle]map[string]int32),
		Uniforms:      make(map[string]interface{}),
		Missing:       make(map[string]bool),
		Refuse:        make(map[metadata.ResourceKind]bool),
		byLoc:         make(map[int32]string),
		Attributes:    make(map[metadata.Handle][]uint32),
	}
}

func (b *Backend) create(kind metadata.ResourceKind, name string) metadata.Handle {
	if b.Refuse[kind] {
		b.Calls = append(b.Calls, name+" refused")
		return metadata.InvalidHandle
	}
	b.next++
	h := b.next
	b.Created[Key{kind, h}]++
	b.Calls = append(b.Calls, fmt.Sprintf("%s %d", name, h))
	return h
}

func (b *Backend) delete(kind metadata.ResourceKind, h metadata.Handle, name string) {
	b.Deleted[Key{kind, h}]++
	b.Calls = append(b.Calls, fmt.Sprintf("%s %d", name, h))
}

func (b *Backend) CreateTexture(kind metadata.TextureKind, width, height int32, pixels []uint8) metadata.Handle {
	h := b.create(metadata.ResourceKindTexture, "CreateTexture")
	b.uploads[h] = TextureUpload{Kind: kind, Width: width, Height: height, Pixels: len(pixels)}
	return h
}

func (b *Backend) BindTexture(unit uint32, kind metadata.TextureKind, texture metadata.Handle) {
	b.BoundTextures[unit] = texture
}

func (b *Backend) DeleteTexture(texture metadata.Handle) {
	b.delete(metadata.ResourceKindTexture, texture, "DeleteTexture")
}

func (b *Backend) CreateShader(kind metadata.ShaderStageKind) metadata.Handle {
	h := b.create(metadata.ResourceKindShader, "CreateShader")
	b.shaders[h] = &shaderState{kind: kind}
	return h
}

func (b *Backend) CompileShader(shader metadata.Handle, source string) (bool, string) {
	s, ok := b.shaders[shader]
	if !ok {
		return false, "ERROR: invalid shader object"
	}
	fails := b.CompileFails
	if fails == nil {
		fails = func(src string) bool { return strings.Contains(src, FailMarker) }
	}
	if fails(source) {
		s.compiled = false
		return false, "ERROR: 0:1: syntax error"
	}
	s.compiled = true
	return true, ""
}

func (b *Backend) DeleteShader(shader metadata.Handle) {
	b.delete(metadata.ResourceKindShader, shader, "DeleteShader")
}

func (b *Backend) CreateProgram() metadata.Handle {
	h := b.create(metadata.ResourceKindProgram, "CreateProgram")
	b.programs[h] = &programState{}
	return h
}

func (b *Backend) AttachShader(program, shader metadata.Handle) {
	if p, ok := b.programs[program]; ok {
		p.attached = append(p.attached, shader)
	}
}

// LinkProgram succeeds when at least one stage is attached and every attached stage compiled.
func (b *Backend) LinkProgram(program metadata.Handle) (bool, string) {
	p, ok := b.programs[program]
	if !ok {
		return false, "ERROR: invalid program object"
	}
	if len(p.attached) == 0 {
		return false, "ERROR: no shaders attached"
	}
	for _, s := range p.attached {
		if st, ok := b.shaders[s]; !ok || !st.compiled {
			p.linked = false
			return false, fmt.Sprintf("ERROR: shader %d is not compiled", s)
		}
	}
	p.linked = true
	return true, ""
}

func (b *Backend) UseProgram(program metadata.Handle) {
	b.BoundProgram = program
	b.UseProgramCalls++
}

func (b *Backend) DeleteProgram(program metadata.Handle) {
	b.delete(metadata.ResourceKindProgram, program, "DeleteProgram")
}

func (b *Backend) UniformLocation(program metadata.Handle, name string) int32 {
	if b.Missing[name] {
		return -1
	}
	locs, ok := b.locations[program]
	if !ok {
		locs = make(map[string]int32)
		b.locations[program] = locs
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := b.nextLocation
	b.nextLocation++
	locs[name] = loc
	b.byLoc[loc] = fmt.Sprintf("%d/%s", program, name)
	return loc
}

func (b *Backend) set(location int32, value interface{}) {
	if key, ok := b.byLoc[location]; ok {
		b.Uniforms[key] = value
	}
}

func (b *Backend) SetUniformInt(location int32, value int32)       { b.set(location, value) }
func (b *Backend) SetUniformFloat(location int32, value float32)   { b.set(location, value) }
func (b *Backend) SetUniformVec3(location int32, value mgl32.Vec3) { b.set(location, value) }
func (b *Backend) SetUniformVec4(location int32, value mgl32.Vec4) { b.set(location, value) }
func (b *Backend) SetUniformMat3(location int32, value mgl32.Mat3) { b.set(location, value) }
func (b *Backend) SetUniformMat4(location int32, value mgl32.Mat4) { b.set(location, value) }

// Uniform returns the last value written to a uniform of a program.
func (b *Backend) Uniform(program metadata.Handle, name string) (interface{}, bool) {
	v, ok := b.Uniforms[fmt.Sprintf("%d/%s", program, name)]
	return v, ok
}

func (b *Backend) CreateVertexArray() metadata.Handle {
	return b.create(metadata.ResourceKindVertexArray, "CreateVertexArray")
}

func (b *Backend) BindVertexArray(vao metadata.Handle) {
	b.BoundVertexArray = vao
}

func (b *Backend) DeleteVertexArray(vao metadata.Handle) {
	b.delete(metadata.ResourceKindVertexArray, vao, "DeleteVertexArray")
}

func (b *Backend) CreateBuffer() metadata.Handle {
	return b.create(metadata.ResourceKindBuffer, "CreateBuffer")
}

func (b *Backend) UploadVertexAttribute(buffer metadata.Handle, slot uint32, components int32, data []float32) {
	b.Attributes[b.BoundVertexArray] = append(b.Attributes[b.BoundVertexArray], slot)
}

func (b *Backend) UploadIndices(buffer metadata.Handle, indices []uint32) {}

func (b *Backend) DeleteBuffer(buffer metadata.Handle) {
	b.delete(metadata.ResourceKindBuffer, buffer, "DeleteBuffer")
}

func (b *Backend) UnbindAll() {
	b.BoundProgram = metadata.InvalidHandle
	b.BoundVertexArray = metadata.InvalidHandle
	b.BoundTextures = make(map[uint32]metadata.Handle)
	b.UnbindAllCalls++
	b.Calls = append(b.Calls, "UnbindAll")
}

func (b *Backend) Viewport(x, y, width, height int32) {
	b.Viewports = append(b.Viewports, [4]int32{x, y, width, height})
}

func (b *Backend) Clear(color mgl32.Vec4) {
	b.Clears++
}

func (b *Backend) DrawIndexed(count int32) {
	b.Draws = append(b.Draws, DrawCall{VertexArray: b.BoundVertexArray, Program: b.BoundProgram, Count: count, Indexed: true})
}

func (b *Backend) DrawArrays(count int32) {
	b.Draws = append(b.Draws, DrawCall{VertexArray: b.BoundVertexArray, Program: b.BoundProgram, Count: count})
}

func (b *Backend) ReadPixels(x, y, width, height int32) []uint8 {
	if b.FrontBuffer != nil {
		return b.FrontBuffer
	}
	pixels := make([]uint8, int(width*height*4))
	for row := int32(0); row < height; row++ {
		for col := int32(0); col < width; col++ {
			i := (row*width + col) * 4
			pixels[i] = uint8(row)
			pixels[i+1] = uint8(col)
			pixels[i+3] = 255
		}
	}
	return pixels
}

// TextureUpload returns what was passed to CreateTexture for a handle.
func (b *Backend) TextureUpload(h metadata.Handle) (TextureUpload, bool) {
	u, ok := b.uploads[h]
	return u, ok
}

// CreatedCount returns how many objects of a kind were created.
func (b *Backend) CreatedCount(kind metadata.ResourceKind) int {
	n := 0
	for k, c := range b.Created {
		if k.Kind == kind {
			n += c
		}
	}
	return n
}

// Leaks lists created objects without a matching delete.
func (b *Backend) Leaks() []Key {
	var out []Key
	for k := range b.Created {
		if b.Deleted[k] == 0 {
			out = append(out, k)
		}
	}
	return sortKeys(out)
}

// DoubleFrees lists objects deleted more than once or deleted without being created.
func (b *Backend) DoubleFrees() []Key {
	var out []Key
	for k, n := range b.Deleted {
		if n > 1 || b.Created[k] == 0 {
			out = append(out, k)
		}
	}
	return sortKeys(out)
}

func sortKeys(keys []Key) []Key {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].Handle < keys[j].Handle
	})
	return keys
}
