package loaders

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

// ShaderLoader reads GLSL source text.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string, params interface{}) (*metadata.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("shader source `%s`: %w", path, core.ErrFileNotFound)
		}
		return nil, err
	}
	return &metadata.Asset{
		Name:     path,
		FullPath: path,
		Type:     metadata.AssetTypeShader,
		DataSize: uint64(len(data)),
		Data:     string(data),
	}, nil
}
