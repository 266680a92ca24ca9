package metadata

import (
	"path/filepath"
	"strings"
)

type AssetType int

const (
	AssetTypeNone AssetType = iota
	AssetTypeImage
	AssetTypeShader
	AssetTypeModel
	AssetTypeMaterial
	AssetTypeConfig
)

var assetTypeNames = map[AssetType]string{
	AssetTypeNone:     "none",
	AssetTypeImage:    "image",
	AssetTypeShader:   "shader",
	AssetTypeModel:    "model",
	AssetTypeMaterial: "material",
	AssetTypeConfig:   "config",
}

func (t AssetType) String() string {
	if name, ok := assetTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// AssetTypeFromPath classifies a file by its extension.
func AssetTypeFromPath(path string) AssetType {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return AssetTypeImage
	case ".obj", ".gltf", ".glb":
		return AssetTypeModel
	case ".mtl":
		return AssetTypeMaterial
	case ".toml":
		return AssetTypeConfig
	}
	if _, ok := shaderStageExtensions[ext]; ok {
		return AssetTypeShader
	}
	return AssetTypeNone
}

/**
 * @brief Asset is what a loader returns for a file on disk.
 * Data holds a *ImageData, a shader source string or a *ModelData
 * depending on Type.
 */
type Asset struct {
	Name     string
	FullPath string
	Type     AssetType
	DataSize uint64
	Data     interface{}
}
