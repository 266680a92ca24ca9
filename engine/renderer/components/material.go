package components

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type MaterialType int

const (
	MaterialTypePhong MaterialType = iota
	MaterialTypePBR
)

var materialTypeNames = map[MaterialType]string{
	MaterialTypePhong: "Phong Material",
	MaterialTypePBR:   "PBR Material",
}

// MaterialTypeName returns the display name of a material type.
func MaterialTypeName(t MaterialType) string {
	if name, ok := materialTypeNames[t]; ok {
		return name
	}
	return "Unknown type"
}

func (t MaterialType) String() string {
	return MaterialTypeName(t)
}

type PhongParams struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
}

type PBRParams struct {
	Albedo    mgl32.Vec3
	Metallic  float32
	Roughness float32
	AO        float32
}

/**
 * @brief Surface parameters pushed to the shaders. Only the parameter set
 * matching Type is used; the other one is kept so switching type in the
 * panel does not lose edits.
 */
type Material struct {
	Type  MaterialType
	Phong PhongParams
	PBR   PBRParams
}

func DefaultPhongParams() PhongParams {
	return PhongParams{
		Ambient:   mgl32.Vec3{0.8, 0.8, 0.8},
		Diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess: 32,
	}
}

func DefaultPBRParams() PBRParams {
	return PBRParams{
		Albedo:    mgl32.Vec3{0.5, 0, 0},
		Metallic:  0.5,
		Roughness: 0.5,
		AO:        1,
	}
}

func NewMaterial(t MaterialType) *Material {
	return &Material{
		Type:  t,
		Phong: DefaultPhongParams(),
		PBR:   DefaultPBRParams(),
	}
}

func (m *Material) Label(i int) string {
	return fmt.Sprintf("#%d: %s", i+1, MaterialTypeName(m.Type))
}

// MaterialPreset is a named set of classic Phong parameters.
type MaterialPreset struct {
	Name   string
	Params PhongParams
}

func phong(amb, dif, spec mgl32.Vec3, shininess float32) PhongParams {
	return PhongParams{Ambient: amb, Diffuse: dif, Specular: spec, Shininess: shininess}
}

// MaterialPresets lists the sample Phong materials in display order.
// Values from http://devernay.free.fr/cours/opengl/materials.html
var MaterialPresets = []MaterialPreset{
	{"emerald", phong(mgl32.Vec3{0.0215, 0.1745, 0.0215}, mgl32.Vec3{0.07568, 0.61424, 0.07568}, mgl32.Vec3{0.633, 0.727811, 0.633}, 76.8)},
	{"jade", phong(mgl32.Vec3{0.135, 0.2225, 0.1575}, mgl32.Vec3{0.54, 0.89, 0.63}, mgl32.Vec3{0.316228, 0.316228, 0.316228}, 12.8)},
	{"obsidian", phong(mgl32.Vec3{0.05375, 0.05, 0.06625}, mgl32.Vec3{0.18275, 0.17, 0.22525}, mgl32.Vec3{0.332741, 0.328634, 0.346435}, 38.4)},
	{"pearl", phong(mgl32.Vec3{0.25, 0.20725, 0.20725}, mgl32.Vec3{1.0, 0.829, 0.829}, mgl32.Vec3{0.296648, 0.296648, 0.296648}, 11.264)},
	{"ruby", phong(mgl32.Vec3{0.1745, 0.01175, 0.01175}, mgl32.Vec3{0.61424, 0.04136, 0.04136}, mgl32.Vec3{0.727811, 0.626959, 0.626959}, 76.8)},
	{"turquoise", phong(mgl32.Vec3{0.1, 0.18725, 0.1745}, mgl32.Vec3{0.396, 0.74151, 0.69102}, mgl32.Vec3{0.297254, 0.30829, 0.306678}, 12.8)},
	{"brass", phong(mgl32.Vec3{0.329412, 0.223529, 0.027451}, mgl32.Vec3{0.780392, 0.568627, 0.113725}, mgl32.Vec3{0.992157, 0.941176, 0.807843}, 27.89743616)},
	{"bronze", phong(mgl32.Vec3{0.2125, 0.1275, 0.054}, mgl32.Vec3{0.714, 0.4284, 0.18144}, mgl32.Vec3{0.393548, 0.271906, 0.166721}, 25.6)},
	{"chrome", phong(mgl32.Vec3{0.25, 0.25, 0.25}, mgl32.Vec3{0.4, 0.4, 0.4}, mgl32.Vec3{0.774597, 0.774597, 0.774597}, 76.8)},
	{"copper", phong(mgl32.Vec3{0.19125, 0.0735, 0.0225}, mgl32.Vec3{0.7038, 0.27048, 0.0828}, mgl32.Vec3{0.256777, 0.137622, 0.086014}, 12.8)},
	{"gold", phong(mgl32.Vec3{0.24725, 0.1995, 0.0745}, mgl32.Vec3{0.75164, 0.60648, 0.22648}, mgl32.Vec3{0.628281, 0.555802, 0.366065}, 51.2)},
	{"silver", phong(mgl32.Vec3{0.19225, 0.19225, 0.19225}, mgl32.Vec3{0.50754, 0.50754, 0.50754}, mgl32.Vec3{0.508273, 0.508273, 0.508273}, 51.2)},
	{"black plastic", phong(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.01, 0.01, 0.01}, mgl32.Vec3{0.5, 0.5, 0.5}, 32)},
	{"cyan plastic", phong(mgl32.Vec3{0, 0.1, 0.06}, mgl32.Vec3{0, 0.50980392, 0.50980392}, mgl32.Vec3{0.50196078, 0.50196078, 0.50196078}, 32)},
	{"green plastic", phong(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.1, 0.35, 0.1}, mgl32.Vec3{0.45, 0.55, 0.45}, 32)},
	{"red plastic", phong(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{0.7, 0.6, 0.6}, 32)},
	{"white plastic", phong(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.55, 0.55, 0.55}, mgl32.Vec3{0.7, 0.7, 0.7}, 32)},
	{"yellow plastic", phong(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.5, 0.5, 0}, mgl32.Vec3{0.6, 0.6, 0.5}, 32)},
	{"black rubber", phong(mgl32.Vec3{0.02, 0.02, 0.02}, mgl32.Vec3{0.01, 0.01, 0.01}, mgl32.Vec3{0.4, 0.4, 0.4}, 10)},
	{"cyan rubber", phong(mgl32.Vec3{0, 0.05, 0.05}, mgl32.Vec3{0.4, 0.5, 0.5}, mgl32.Vec3{0.04, 0.7, 0.7}, 10)},
	{"green rubber", phong(mgl32.Vec3{0, 0.05, 0}, mgl32.Vec3{0.4, 0.5, 0.4}, mgl32.Vec3{0.04, 0.7, 0.04}, 10)},
	{"red rubber", phong(mgl32.Vec3{0.05, 0, 0}, mgl32.Vec3{0.5, 0.4, 0.4}, mgl32.Vec3{0.7, 0.04, 0.04}, 10)},
	{"white rubber", phong(mgl32.Vec3{0.05, 0.05, 0.05}, mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0.7, 0.7, 0.7}, 10)},
	{"yellow rubber", phong(mgl32.Vec3{0.05, 0.05, 0}, mgl32.Vec3{0.5, 0.5, 0.4}, mgl32.Vec3{0.7, 0.7, 0.04}, 10)},
}

// FindMaterialPreset looks a preset up by name.
func FindMaterialPreset(name string) (MaterialPreset, bool) {
	for _, p := range MaterialPresets {
		if p.Name == name {
			return p, true
		}
	}
	return MaterialPreset{}, false
}

// ApplyPreset copies a preset into the Phong parameters. The ambient term is
// replaced by the diffuse color since lights carry a single color triplet.
func (m *Material) ApplyPreset(p MaterialPreset) {
	m.Phong = p.Params
	m.Phong.Ambient = m.Phong.Diffuse
}

// NewSampleMaterial builds a material of type t; Phong materials take the
// named preset, unknown names keep the defaults.
func NewSampleMaterial(t MaterialType, preset string) *Material {
	m := NewMaterial(t)
	if t != MaterialTypePhong {
		return m
	}
	if p, ok := FindMaterialPreset(preset); ok {
		m.ApplyPreset(p)
	} else {
		m.Phong.Ambient = m.Phong.Diffuse
	}
	return m
}
