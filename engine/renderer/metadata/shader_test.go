package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramConfigSources(t *testing.T) {
	cfg := ProgramConfig{
		Name: "phong",
		Stages: []ShaderStageConfig{
			{Path: "shaders/phong.vert"},
			{Kind: "Fragment", Path: "shaders/phong.glsl"},
			{Path: "shaders/extrude.gs"},
		},
	}
	sources, err := cfg.Sources()
	require.NoError(t, err)
	assert.Equal(t, []ShaderStageSource{
		{Kind: ShaderStageVertex, Path: "shaders/phong.vert"},
		{Kind: ShaderStageFragment, Path: "shaders/phong.glsl"},
		{Kind: ShaderStageGeometry, Path: "shaders/extrude.gs"},
	}, sources)
}

func TestProgramConfigSourcesErrors(t *testing.T) {
	_, err := ProgramConfig{Stages: []ShaderStageConfig{{Path: "shader.glsl"}}}.Sources()
	assert.Error(t, err)

	_, err = ProgramConfig{Stages: []ShaderStageConfig{{Kind: "pixel", Path: "a.frag"}}}.Sources()
	assert.Error(t, err)
}

func TestShaderStageKindFromString(t *testing.T) {
	kind, err := ShaderStageKindFromString("tess_evaluation")
	require.NoError(t, err)
	assert.Equal(t, ShaderStageTessEvaluation, kind)
	assert.Equal(t, "compute", ShaderStageCompute.String())
}

func TestAssetTypeFromPath(t *testing.T) {
	cases := map[string]AssetType{
		"a/b/wood.PNG": AssetTypeImage,
		"tex.webp":     AssetTypeImage,
		"cube.obj":     AssetTypeModel,
		"scene.glb":    AssetTypeModel,
		"cube.mtl":     AssetTypeMaterial,
		"viewer.toml":  AssetTypeConfig,
		"phong.frag":   AssetTypeShader,
		"README.md":    AssetTypeNone,
		"no-extension": AssetTypeNone,
	}
	for path, want := range cases {
		assert.Equal(t, want, AssetTypeFromPath(path), path)
	}
	assert.Equal(t, "model", AssetTypeModel.String())
}
