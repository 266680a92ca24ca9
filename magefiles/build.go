//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds the viewer binary into bin/.
func (Build) Viewer() error {
	if _, err := executeCmd("go", withArgs("mod", "download"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima-viewer", "."), withStream()); err != nil {
		return err
	}
	return nil
}

type Check mg.Namespace

// Validates the GLSL sources with glslangValidator, when it is installed.
func (Check) Shaders() error {
	if !hasCommand("glslangValidator") {
		fmt.Println("glslangValidator not found, skipping shader check")
		return nil
	}
	shaders, err := shaderSources()
	if err != nil {
		return err
	}
	for _, s := range shaders {
		if _, err := executeCmd("glslangValidator", withArgs(s)); err != nil {
			return err
		}
	}
	return nil
}
