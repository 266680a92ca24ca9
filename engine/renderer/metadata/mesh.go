package metadata

import "github.com/google/uuid"

// ShadingMode is the lighting model an imported shape asks for.
type ShadingMode int

const (
	ShadingModeFlat ShadingMode = iota
	ShadingModePhong
	ShadingModeNormalMapping
	ShadingModePBR
)

var shadingModeNames = map[ShadingMode]string{
	ShadingModeFlat:          "Flat Shading",
	ShadingModePhong:         "Phong Shading",
	ShadingModeNormalMapping: "Normal Mapping",
	ShadingModePBR:           "Physically Based Rendering",
}

func (m ShadingMode) String() string {
	if name, ok := shadingModeNames[m]; ok {
		return name
	}
	return "Unknown Shading"
}

// Fixed vertex attribute slots shared by every shape and every shader.
const (
	AttributeSlotPosition uint32 = 0
	AttributeSlotNormal   uint32 = 1
	AttributeSlotTexCoord uint32 = 2
)

/**
 * @brief MeshData is the raw output of the importer for one primitive group.
 * Attribute arrays are flat: 3 floats per position and normal, 2 per texcoord.
 * TexturePaths maps a role key ("diffuse", "diffuse1", ...) to a file path;
 * an empty path means the texture is referenced but not available.
 */
type MeshData struct {
	Name         string
	Positions    []float32
	Normals      []float32
	TexCoords    []float32
	Indices      []uint32
	TexturePaths map[string]string
	ShadingMode  ShadingMode
}

func (m *MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

func (m *MeshData) HasNormals() bool {
	return len(m.Normals) > 0 && len(m.Normals) == len(m.Positions)
}

func (m *MeshData) HasTexCoords() bool {
	return len(m.TexCoords) > 0 && len(m.TexCoords)/2 == m.VertexCount()
}

// ModelData is everything the importer produced for one file.
type ModelData struct {
	Path   string
	Meshes []*MeshData
}

/**
 * @brief RenderShape is one uploaded primitive group of a render object.
 */
type RenderShape struct {
	Name         string
	NumVertices  int32
	NumIndices   int32
	HasNormals   bool
	HasTexcoords bool
	// True iff at least one role resolved to a live texture.
	HasTextures bool
	ShadingMode ShadingMode
	// Role key to texture handle. A zero handle marks a texture that was referenced but could not be loaded.
	Textures    map[string]Handle
	VertexArray *GPUResource
	Buffers     []*GPUResource
}

func (s *RenderShape) VAO() Handle {
	return s.VertexArray.Handle()
}

/**
 * @brief RenderObject groups the shapes imported from one file.
 */
type RenderObject struct {
	ID     uuid.UUID
	Path   string
	Name   string
	Shapes []*RenderShape
}

func (o *RenderObject) NumShapes() int {
	return len(o.Shapes)
}
