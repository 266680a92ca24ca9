package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

// TextureMap is one texture statement of a material, in file order.
type TextureMap struct {
	Role metadata.TextureRole
	Path string
}

/**
 * @brief MTLMaterial holds the parts of a Wavefront material the viewer uses.
 */
type MTLMaterial struct {
	Name string
	// -1 when the material has no illum statement.
	Illum     int
	Shininess float32
	Opacity   float32
	Maps      []TextureMap
}

var mtlTextureRoles = map[string]metadata.TextureRole{
	"map_kd":   metadata.TextureRoleDiffuse,
	"map_ks":   metadata.TextureRoleSpecular,
	"map_ka":   metadata.TextureRoleAmbient,
	"map_ke":   metadata.TextureRoleEmissive,
	"map_ns":   metadata.TextureRoleShininess,
	"map_d":    metadata.TextureRoleOpacity,
	"map_bump": metadata.TextureRoleNormals,
	"bump":     metadata.TextureRoleNormals,
	"norm":     metadata.TextureRoleNormals,
	"disp":     metadata.TextureRoleDisplacement,
	"refl":     metadata.TextureRoleReflection,
	"map_pr":   metadata.TextureRoleDiffuseRoughness,
	"map_pm":   metadata.TextureRoleMetalness,
}

// TexturePaths names each map by its role key ("diffuse", "diffuse1", ...).
func (m *MTLMaterial) TexturePaths() map[string]string {
	out := make(map[string]string, len(m.Maps))
	seen := make(map[metadata.TextureRole]int)
	for _, tm := range m.Maps {
		out[metadata.TextureRoleKey(tm.Role, seen[tm.Role])] = tm.Path
		seen[tm.Role]++
	}
	return out
}

// ShadingMode picks the lighting model the material asks for.
func (m *MTLMaterial) ShadingMode() metadata.ShadingMode {
	if m.Illum == 0 || m.Illum == 1 {
		return metadata.ShadingModeFlat
	}
	mode := metadata.ShadingModePhong
	for _, tm := range m.Maps {
		switch tm.Role {
		case metadata.TextureRoleDiffuseRoughness, metadata.TextureRoleMetalness:
			return metadata.ShadingModePBR
		case metadata.TextureRoleNormals:
			mode = metadata.ShadingModeNormalMapping
		}
	}
	return mode
}

func ParseMTLFile(path string) (map[string]*MTLMaterial, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("material library `%s`: %w", path, core.ErrFileNotFound)
		}
		return nil, err
	}
	defer file.Close()
	return ParseMTL(file, filepath.Dir(path))
}

// ParseMTL reads a material library. Texture paths are resolved against dir.
func ParseMTL(r io.Reader, dir string) (map[string]*MTLMaterial, error) {
	scanner := bufio.NewScanner(r)
	materials := make(map[string]*MTLMaterial)
	var current *MTLMaterial

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		fields := strings.Fields(line)
		key := strings.ToLower(fields[0])
		args := fields[1:]

		if key == "newmtl" {
			name := strings.Join(args, " ")
			current = &MTLMaterial{Name: name, Illum: -1, Opacity: 1}
			materials[name] = current
			continue
		}
		if current == nil {
			core.LogWarn("mtl line %d: `%s` before any newmtl, skipping", lineNo, key)
			continue
		}

		switch key {
		case "ns", "d":
			if len(args) < 1 {
				return nil, fmt.Errorf("mtl line %d: missing value for %s", lineNo, key)
			}
			f, err := strconv.ParseFloat(args[0], 32)
			if err != nil {
				return nil, fmt.Errorf("mtl line %d: invalid %s value: %s", lineNo, key, args[0])
			}
			if key == "ns" {
				current.Shininess = float32(f)
			} else {
				current.Opacity = float32(f)
			}
		case "illum":
			if len(args) < 1 {
				return nil, fmt.Errorf("mtl line %d: missing illum model", lineNo)
			}
			illum, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, fmt.Errorf("mtl line %d: invalid illum value: %s", lineNo, args[0])
			}
			current.Illum = illum
		default:
			role, ok := mtlTextureRoles[key]
			if !ok {
				// colors and the rest are not used by the viewer
				continue
			}
			current.Maps = append(current.Maps, TextureMap{Role: role, Path: texturePath(args, dir)})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return materials, nil
}

// texturePath takes the last argument of a map statement, options such as
// "-bm 0.5" come before the file name.
func texturePath(args []string, dir string) string {
	if len(args) == 0 {
		return ""
	}
	name := strings.ReplaceAll(args[len(args)-1], "\\", "/")
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(dir, name)
}
