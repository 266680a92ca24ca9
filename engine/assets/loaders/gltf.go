package loaders

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

// LoadGLTF imports every triangle primitive of a .gltf or .glb file as one mesh.
func LoadGLTF(path string) (*metadata.ModelData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("model `%s`: %w", path, core.ErrFileNotFound)
		}
		return nil, fmt.Errorf("open gltf `%s`: %w", path, err)
	}

	dir := filepath.Dir(path)
	model := &metadata.ModelData{Path: path}
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				core.LogWarn("gltf `%s`: mesh %d primitive %d is not a triangle list, skipping", path, mi, pi)
				continue
			}
			data, err := loadPrimitive(doc, prim, dir)
			if err != nil {
				return nil, fmt.Errorf("gltf `%s` mesh %d primitive %d: %w", path, mi, pi, err)
			}
			data.Name = mesh.Name
			if data.Name == "" {
				data.Name = fmt.Sprintf("mesh %d", mi)
			}
			if len(mesh.Primitives) > 1 {
				data.Name = fmt.Sprintf("%s.%d", data.Name, pi)
			}
			model.Meshes = append(model.Meshes, data)
		}
	}
	return model, nil
}

func loadPrimitive(doc *gltf.Document, prim *gltf.Primitive, dir string) (*metadata.MeshData, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	data := &metadata.MeshData{
		Positions:    make([]float32, 0, len(positions)*3),
		TexturePaths: map[string]string{},
		ShadingMode:  metadata.ShadingModePBR,
	}
	for _, p := range positions {
		data.Positions = append(data.Positions, p[0], p[1], p[2])
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err == nil && len(normals) == len(positions) {
			for _, n := range normals {
				data.Normals = append(data.Normals, n[0], n[1], n[2])
			}
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err == nil && len(uvs) == len(positions) {
			for _, uv := range uvs {
				// glTF puts the uv origin at the top left
				data.TexCoords = append(data.TexCoords, uv[0], 1-uv[1])
			}
		}
	}
	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		data.Indices = indices
	}

	if prim.Material != nil && *prim.Material < len(doc.Materials) {
		addMaterialTextures(doc, doc.Materials[*prim.Material], dir, data.TexturePaths)
	}
	return data, nil
}

func addMaterialTextures(doc *gltf.Document, m *gltf.Material, dir string, out map[string]string) {
	add := func(role metadata.TextureRole, texture int) {
		key := metadata.TextureRoleKey(role, 0)
		for i := 1; ; i++ {
			if _, taken := out[key]; !taken {
				break
			}
			key = metadata.TextureRoleKey(role, i)
		}
		out[key] = imagePath(doc, texture, dir)
	}
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			add(metadata.TextureRoleDiffuse, pbr.BaseColorTexture.Index)
		}
		if pbr.MetallicRoughnessTexture != nil {
			add(metadata.TextureRoleMetalness, pbr.MetallicRoughnessTexture.Index)
		}
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		add(metadata.TextureRoleNormals, *m.NormalTexture.Index)
	}
	if m.OcclusionTexture != nil && m.OcclusionTexture.Index != nil {
		add(metadata.TextureRoleAmbientOcclusion, *m.OcclusionTexture.Index)
	}
	if m.EmissiveTexture != nil {
		add(metadata.TextureRoleEmissive, m.EmissiveTexture.Index)
	}
}

// imagePath resolves a texture to a file next to the document. Embedded
// images have no file and resolve to "".
func imagePath(doc *gltf.Document, texture int, dir string) string {
	if texture < 0 || texture >= len(doc.Textures) || doc.Textures[texture].Source == nil {
		return ""
	}
	src := *doc.Textures[texture].Source
	if src < 0 || src >= len(doc.Images) {
		return ""
	}
	img := doc.Images[src]
	if img.URI == "" || img.IsEmbeddedResource() {
		return ""
	}
	uri := img.URI
	if unescaped, err := url.PathUnescape(uri); err == nil {
		uri = unescaped
	}
	return filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(uri, "./")))
}
