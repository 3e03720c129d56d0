//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the sample crown and exports it in every format into out/.
func (Run) Export() error {
	fmt.Println("Exporting crown...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "assets/crown.toml", "-out", "out", "-formats", "obj,glb,bin,uv", "-frames", "1"), withStream()); err != nil {
		return err
	}
	return nil
}

// Rebuilds the sample crown every time assets/crown.toml is saved.
func (Run) Watch() error {
	mg.Deps(Build.Binary)
	if _, err := executeCmd("bin/crown", withArgs("-config", "assets/crown.toml", "-out", "out", "-watch", "-log-level", "debug"), withStream()); err != nil {
		return err
	}
	return nil
}
