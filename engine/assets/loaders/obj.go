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

type objVertexKey [3]int

// objShape collects the de-indexed vertices of one o/g/usemtl group.
type objShape struct {
	name       string
	material   string
	mesh       *metadata.MeshData
	vertices   map[objVertexKey]uint32
	noNormal   bool
	noTexCoord bool
}

func newObjShape(name, material string) *objShape {
	return &objShape{
		name:     name,
		material: material,
		mesh:     &metadata.MeshData{Name: name},
		vertices: make(map[objVertexKey]uint32),
	}
}

type objParser struct {
	dir       string
	positions [][3]float32
	texcoords [][2]float32
	normals   [][3]float32
	materials map[string]*MTLMaterial
	shapes    []*objShape
	current   *objShape
}

func LoadOBJ(path string) (*metadata.ModelData, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("model `%s`: %w", path, core.ErrFileNotFound)
		}
		return nil, err
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	model, err := ParseOBJ(file, filepath.Dir(path), name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse `%s`: %w", path, err)
	}
	model.Path = path
	return model, nil
}

/**
 * @brief Parses Wavefront OBJ text into one MeshData per group.
 * Polygons are fan triangulated and vertices are de-indexed so that every
 * shape carries flat attribute arrays plus 32 bit indices. Material
 * libraries and texture paths are resolved against dir.
 */
func ParseOBJ(r io.Reader, dir, defaultName string) (*metadata.ModelData, error) {
	p := &objParser{
		dir:       dir,
		materials: make(map[string]*MTLMaterial),
	}
	p.current = newObjShape(defaultName, "")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if err := p.statement(fields[0], fields[1:]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p.finish()

	model := &metadata.ModelData{}
	for _, s := range p.shapes {
		model.Meshes = append(model.Meshes, p.build(s))
	}
	return model, nil
}

func (p *objParser) statement(key string, args []string) error {
	switch key {
	case "v":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, [3]float32{v[0], v[1], v[2]})
	case "vn":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, [3]float32{v[0], v[1], v[2]})
	case "vt":
		// v defaults to 0
		if len(args) == 1 {
			args = append(args, "0")
		}
		v, err := parseFloats(args, 2)
		if err != nil {
			return err
		}
		p.texcoords = append(p.texcoords, [2]float32{v[0], v[1]})
	case "f":
		return p.face(args)
	case "o", "g":
		name := strings.Join(args, " ")
		if name == "" {
			name = p.current.name
		}
		p.finish()
		p.current = newObjShape(name, p.current.material)
	case "usemtl":
		material := strings.Join(args, " ")
		if material == p.current.material {
			return nil
		}
		name := p.current.name
		p.finish()
		p.current = newObjShape(name, material)
	case "mtllib":
		for _, lib := range args {
			materials, err := ParseMTLFile(filepath.Join(p.dir, lib))
			if err != nil {
				core.LogWarn("material library `%s` could not be read: %s", lib, err)
				continue
			}
			for name, m := range materials {
				p.materials[name] = m
			}
		}
	}
	// s, l, p and the other statements carry nothing the viewer renders
	return nil
}

// finish closes the current shape; shapes without faces are dropped.
func (p *objParser) finish() {
	if p.current != nil && len(p.current.mesh.Indices) > 0 {
		p.shapes = append(p.shapes, p.current)
	}
	p.current = newObjShape(p.current.name, p.current.material)
}

func (p *objParser) face(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face with %d vertices", len(args))
	}
	corners := make([]uint32, len(args))
	for i, a := range args {
		key, err := p.vertexKey(a)
		if err != nil {
			return err
		}
		corners[i] = p.vertex(key)
	}
	for i := 1; i+1 < len(corners); i++ {
		p.current.mesh.Indices = append(p.current.mesh.Indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// vertexKey parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero based indices, -1 when absent.
func (p *objParser) vertexKey(s string) (objVertexKey, error) {
	key := objVertexKey{-1, -1, -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return key, fmt.Errorf("invalid face vertex `%s`", s)
	}
	sizes := [3]int{len(p.positions), len(p.texcoords), len(p.normals)}
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return key, fmt.Errorf("face vertex `%s` has no position", s)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return key, fmt.Errorf("invalid face index `%s`", part)
		}
		if n < 0 {
			n = sizes[i] + n
		} else {
			n--
		}
		if n < 0 || n >= sizes[i] {
			return key, fmt.Errorf("face index `%s` out of range", part)
		}
		key[i] = n
	}
	return key, nil
}

func (p *objParser) vertex(key objVertexKey) uint32 {
	s := p.current
	if idx, ok := s.vertices[key]; ok {
		return idx
	}
	idx := uint32(len(s.mesh.Positions) / 3)
	s.vertices[key] = idx

	pos := p.positions[key[0]]
	s.mesh.Positions = append(s.mesh.Positions, pos[0], pos[1], pos[2])
	if key[1] >= 0 {
		tc := p.texcoords[key[1]]
		s.mesh.TexCoords = append(s.mesh.TexCoords, tc[0], tc[1])
	} else {
		s.noTexCoord = true
		s.mesh.TexCoords = append(s.mesh.TexCoords, 0, 0)
	}
	if key[2] >= 0 {
		n := p.normals[key[2]]
		s.mesh.Normals = append(s.mesh.Normals, n[0], n[1], n[2])
	} else {
		s.noNormal = true
		s.mesh.Normals = append(s.mesh.Normals, 0, 0, 0)
	}
	return idx
}

// build drops partially specified attributes and attaches the material.
func (p *objParser) build(s *objShape) *metadata.MeshData {
	mesh := s.mesh
	if s.noNormal {
		mesh.Normals = nil
	}
	if s.noTexCoord {
		mesh.TexCoords = nil
	}
	mesh.TexturePaths = map[string]string{}
	mesh.ShadingMode = metadata.ShadingModePhong
	if !mesh.HasNormals() {
		mesh.ShadingMode = metadata.ShadingModeFlat
	}
	if s.material == "" {
		return mesh
	}
	m, ok := p.materials[s.material]
	if !ok {
		core.LogWarn("shape `%s` uses unknown material `%s`", s.name, s.material)
		return mesh
	}
	mesh.TexturePaths = m.TexturePaths()
	mesh.ShadingMode = m.ShadingMode()
	return mesh
}

func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(args))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number `%s`", args[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}
