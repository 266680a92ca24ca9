//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the viewer with the config named by VIEWER_CONFIG, or the default one.
func (Run) Viewer() error {
	mg.Deps(Check.Shaders)

	config := os.Getenv("VIEWER_CONFIG")
	if config == "" {
		config = "assets/viewer.toml"
	}
	fmt.Println("Run viewer...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", config), withStream()); err != nil {
		return err
	}
	return nil
}

type Test mg.Namespace

// Runs every package test.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
