package metadata

import "strconv"

// TextureKind selects the texture target a file is uploaded to.
type TextureKind int

const (
	TextureKind2D TextureKind = iota
	// Rectangle textures use unnormalized coordinates and carry no mipmaps.
	TextureKindRectangle
)

func (k TextureKind) String() string {
	switch k {
	case TextureKind2D:
		return "2d"
	case TextureKindRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

/**
 * @brief TextureRecord describes a texture uploaded from a file.
 * Immutable after creation; the resource is released at manager teardown.
 */
type TextureRecord struct {
	Resource *GPUResource
	// File path the texture was loaded from, also its dedup key.
	Path   string
	Kind   TextureKind
	Width  int32
	Height int32
}

func (t *TextureRecord) Handle() Handle {
	if t == nil {
		return InvalidHandle
	}
	return t.Resource.Handle()
}

// TextureRole is the semantic purpose of a texture on a shape.
type TextureRole int

const (
	TextureRoleDiffuse TextureRole = iota
	TextureRoleSpecular
	TextureRoleAmbient
	TextureRoleEmissive
	TextureRoleHeight
	TextureRoleNormals
	TextureRoleShininess
	TextureRoleOpacity
	TextureRoleDisplacement
	TextureRoleLightmap
	TextureRoleReflection
	TextureRoleBaseColor
	TextureRoleMetalness
	TextureRoleDiffuseRoughness
	TextureRoleAmbientOcclusion
	TextureRoleUnknown
)

var textureRoleNames = map[TextureRole]string{
	TextureRoleDiffuse:          "diffuse",
	TextureRoleSpecular:         "specular",
	TextureRoleAmbient:          "ambient",
	TextureRoleEmissive:         "emissive",
	TextureRoleHeight:           "height",
	TextureRoleNormals:          "normals",
	TextureRoleShininess:        "shininess",
	TextureRoleOpacity:          "opacity",
	TextureRoleDisplacement:     "displacement",
	TextureRoleLightmap:         "lightmap",
	TextureRoleReflection:       "reflection",
	TextureRoleBaseColor:        "base_color",
	TextureRoleMetalness:        "metalness",
	TextureRoleDiffuseRoughness: "diffuse_roughness",
	TextureRoleAmbientOcclusion: "ambient_occlusion",
	TextureRoleUnknown:          "unknown",
}

func (r TextureRole) String() string {
	if name, ok := textureRoleNames[r]; ok {
		return name
	}
	return textureRoleNames[TextureRoleUnknown]
}

// TextureRoleKey names the i-th texture of a role on one shape:
// the first keeps the bare role name, later ones get the index appended ("diffuse1").
func TextureRoleKey(role TextureRole, index int) string {
	if index <= 0 {
		return role.String()
	}
	return role.String() + strconv.Itoa(index)
}
