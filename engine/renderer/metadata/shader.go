package metadata

import (
	"fmt"
	"path/filepath"
	"strings"
)

/**
 * @brief The kind of a single compiled shader unit.
 */
type ShaderStageKind int

const (
	ShaderStageVertex ShaderStageKind = iota
	ShaderStageFragment
	ShaderStageGeometry
	ShaderStageTessControl
	ShaderStageTessEvaluation
	ShaderStageCompute
)

var shaderStageNames = map[ShaderStageKind]string{
	ShaderStageVertex:         "vertex",
	ShaderStageFragment:       "fragment",
	ShaderStageGeometry:       "geometry",
	ShaderStageTessControl:    "tess_control",
	ShaderStageTessEvaluation: "tess_evaluation",
	ShaderStageCompute:        "compute",
}

var shaderStageExtensions = map[string]ShaderStageKind{
	".vert": ShaderStageVertex,
	".vs":   ShaderStageVertex,
	".frag": ShaderStageFragment,
	".fs":   ShaderStageFragment,
	".geom": ShaderStageGeometry,
	".gs":   ShaderStageGeometry,
	".tesc": ShaderStageTessControl,
	".tese": ShaderStageTessEvaluation,
	".comp": ShaderStageCompute,
}

func (k ShaderStageKind) String() string {
	if name, ok := shaderStageNames[k]; ok {
		return name
	}
	return "unknown"
}

// ShaderStageKindFromString parses config names such as "vertex" or "fragment".
func ShaderStageKindFromString(s string) (ShaderStageKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for kind, name := range shaderStageNames {
		if name == s {
			return kind, nil
		}
	}
	return ShaderStageVertex, fmt.Errorf("unknown shader stage kind `%s`", s)
}

// ShaderStageKindFromPath infers the stage from the file extension.
func ShaderStageKindFromPath(path string) (ShaderStageKind, bool) {
	kind, ok := shaderStageExtensions[strings.ToLower(filepath.Ext(path))]
	return kind, ok
}

// ShaderStageSource names one stage file of a program to be linked.
type ShaderStageSource struct {
	Kind ShaderStageKind
	Path string
}

/**
 * @brief One compiled shader unit, keyed by its source path.
 * A failed compilation still produces a record; Compiled and InfoLog
 * carry the driver diagnostics.
 */
type ShaderStageRecord struct {
	Resource *GPUResource
	Path     string
	Kind     ShaderStageKind
	Compiled bool
	InfoLog  string
}

func (s *ShaderStageRecord) Handle() Handle {
	if s == nil {
		return InvalidHandle
	}
	return s.Resource.Handle()
}

/**
 * @brief A linked program and the stages attached to it.
 * Linked is false when the driver rejected the program; such a program
 * is kept for inspection but must not be bound for drawing.
 */
type ProgramInfo struct {
	Resource *GPUResource
	Name     string
	Stages   []*ShaderStageRecord
	Linked   bool
	InfoLog  string
}

func (p *ProgramInfo) Handle() Handle {
	if p == nil {
		return InvalidHandle
	}
	return p.Resource.Handle()
}

// ShaderStageConfig is one stage entry of a program in the config file.
type ShaderStageConfig struct {
	Kind string `toml:"kind"`
	Path string `toml:"path"`
}

// ProgramConfig describes a program to link at startup.
type ProgramConfig struct {
	Name   string              `toml:"name"`
	Stages []ShaderStageConfig `toml:"stages"`
}

// Sources resolves the stage kinds. An empty kind is inferred from the file extension.
func (c ProgramConfig) Sources() ([]ShaderStageSource, error) {
	out := make([]ShaderStageSource, 0, len(c.Stages))
	for _, st := range c.Stages {
		var kind ShaderStageKind
		if st.Kind == "" {
			k, ok := ShaderStageKindFromPath(st.Path)
			if !ok {
				return nil, fmt.Errorf("cannot infer the stage kind of `%s`", st.Path)
			}
			kind = k
		} else {
			k, err := ShaderStageKindFromString(st.Kind)
			if err != nil {
				return nil, err
			}
			kind = k
		}
		out = append(out, ShaderStageSource{Kind: kind, Path: st.Path})
	}
	return out, nil
}
