package components

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type LightType int

const (
	LightTypeSpot LightType = iota
	LightTypePoint
	LightTypeDirectional
)

var lightTypeNames = map[LightType]string{
	LightTypeSpot:        "Spot light",
	LightTypePoint:       "Point light",
	LightTypeDirectional: "Directional light",
}

// LightTypeName returns the display name of a light type.
func LightTypeName(t LightType) string {
	if name, ok := lightTypeNames[t]; ok {
		return name
	}
	return "Unknown type"
}

func (t LightType) String() string {
	return LightTypeName(t)
}

/**
 * @brief A light source as exposed to the shaders.
 * Position holds the direction for directional lights.
 */
type Light struct {
	Enabled bool
	Type    LightType

	Position mgl32.Vec3

	// color intensity
	Color   mgl32.Vec3
	Ambient mgl32.Vec3

	// spot light cone
	ConeDirection mgl32.Vec3
	SpotExponent  float32
	SpotCosCutoff float32

	// attenuation for local lights
	ConstantAttenuation  float32
	LinearAttenuation    float32
	QuadraticAttenuation float32
}

// NewLight creates an enabled light of type t at (0,1,0) with white color and a dim ambient term.
func NewLight(t LightType) *Light {
	return &Light{
		Enabled:              true,
		Type:                 t,
		Position:             mgl32.Vec3{0, 1, 0},
		Color:                mgl32.Vec3{1, 1, 1},
		Ambient:              mgl32.Vec3{0.1, 0.1, 0.1},
		ConeDirection:        mgl32.Vec3{0, -1, 0},
		SpotExponent:         1,
		SpotCosCutoff:        1,
		ConstantAttenuation:  1,
		LinearAttenuation:    1,
		QuadraticAttenuation: 1,
	}
}

// IsLocal is false for directional lights, whose Position is a direction.
func (l *Light) IsLocal() bool {
	return l.Type != LightTypeDirectional
}

// Label is the list entry shown for the light at index i.
func (l *Light) Label(i int) string {
	return fmt.Sprintf("#%d: %s", i+1, LightTypeName(l.Type))
}
