package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

// ModelLoader picks the importer from the file extension.
type ModelLoader struct{}

func (ml *ModelLoader) Load(path string, params interface{}) (*metadata.Asset, error) {
	var (
		model *metadata.ModelData
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		model, err = LoadOBJ(path)
	case ".gltf", ".glb":
		model, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("model `%s`: %w", path, core.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	return &metadata.Asset{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		Type:     metadata.AssetTypeModel,
		DataSize: uint64(len(model.Meshes)),
		Data:     model,
	}, nil
}
