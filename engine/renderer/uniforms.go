package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/components"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

// Uniform names shared with the shaders under assets/shaders.
const (
	UniformModel      = "Model"
	UniformView       = "View"
	UniformProjection = "Projection"
	UniformNormal     = "Normal"

	UniformEyePosition   = "uEyePosition"
	UniformLightPosition = "uLightPosition"
	UniformLightColor    = "uLightColor"
	UniformObjectColor   = "uObjectColor"
	UniformShininess     = "uShininess"
	UniformHasTextures   = "uHasTextures"

	DefaultLightUniform         = "uLight"
	DefaultLightArrayUniform    = "uLights"
	DefaultMaterialUniform      = "uMaterial"
	DefaultMaterialArrayUniform = "uMaterials"
	TextureSamplerPrefix        = "uTextures."
)

// ArrayUniformName returns "name[index]".
func ArrayUniformName(name string, index int) string {
	return fmt.Sprintf("%s[%d]", name, index)
}

// SetMatrices pushes the model, view and projection matrices and the normal matrix derived from model.
func (c *RenderContext) SetMatrices(program *metadata.ProgramInfo, model, view, projection mgl32.Mat4) error {
	normal := model.Inv().Transpose()
	return errors.Join(
		c.SetMat4(program, UniformModel, model),
		c.SetMat4(program, UniformView, view),
		c.SetMat4(program, UniformProjection, projection),
		c.SetMat4(program, UniformNormal, normal),
	)
}

// SetLight pushes every field of a light into the struct uniform uName.
func (c *RenderContext) SetLight(program *metadata.ProgramInfo, light *components.Light, uName string) error {
	return errors.Join(
		c.SetBool(program, uName+".isEnabled", light.Enabled),
		c.SetBool(program, uName+".isLocal", light.IsLocal()),
		c.SetVec3(program, uName+".position", light.Position),
		c.SetVec3(program, uName+".color", light.Color),
		c.SetVec3(program, uName+".ambient", light.Ambient),
		c.SetVec3(program, uName+".coneDirection", light.ConeDirection),
		c.SetFloat(program, uName+".spotExponent", light.SpotExponent),
		c.SetFloat(program, uName+".spotCosCutoff", light.SpotCosCutoff),
		c.SetFloat(program, uName+".constantAttenuation", light.ConstantAttenuation),
		c.SetFloat(program, uName+".linearAttenuation", light.LinearAttenuation),
		c.SetFloat(program, uName+".quadraticAttenuation", light.QuadraticAttenuation),
	)
}

func (c *RenderContext) SetLightInArray(program *metadata.ProgramInfo, light *components.Light, uArrayName string, index int) error {
	return c.SetLight(program, light, ArrayUniformName(uArrayName, index))
}

// SetMaterial pushes the parameter set matching the material type into the struct uniform uName.
func (c *RenderContext) SetMaterial(program *metadata.ProgramInfo, material *components.Material, uName string) error {
	switch material.Type {
	case components.MaterialTypePhong:
		return errors.Join(
			c.SetVec3(program, uName+".ambient", material.Phong.Ambient),
			c.SetVec3(program, uName+".diffuse", material.Phong.Diffuse),
			c.SetVec3(program, uName+".specular", material.Phong.Specular),
			c.SetFloat(program, uName+".shininess", material.Phong.Shininess),
		)
	case components.MaterialTypePBR:
		return errors.Join(
			c.SetVec3(program, uName+".albedo", material.PBR.Albedo),
			c.SetFloat(program, uName+".metallic", material.PBR.Metallic),
			c.SetFloat(program, uName+".roughness", material.PBR.Roughness),
			c.SetFloat(program, uName+".ao", material.PBR.AO),
		)
	}
	return nil
}

func (c *RenderContext) SetMaterialInArray(program *metadata.ProgramInfo, material *components.Material, uArrayName string, index int) error {
	return c.SetMaterial(program, material, ArrayUniformName(uArrayName, index))
}

// SetBlinnPhong pushes the flat uniform set used by the simple Blinn-Phong shader.
func (c *RenderContext) SetBlinnPhong(program *metadata.ProgramInfo, eye mgl32.Vec3, light *components.Light, material *components.Material) error {
	return errors.Join(
		c.SetVec3(program, UniformEyePosition, eye),
		c.SetVec3(program, UniformLightPosition, light.Position),
		c.SetVec3(program, UniformLightColor, light.Color),
		c.SetVec3(program, UniformObjectColor, material.Phong.Diffuse),
		c.SetInt(program, UniformShininess, int32(material.Phong.Shininess)),
	)
}
