package engine

import (
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
	"github.com/spaghettifunk/crown/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnBoot            Boot
	FnInitialize      Initialize
	FnOnBuild         OnBuild
	FnRender          Render
	FnShutdown        Shutdown
}

type Boot func() error
type Initialize func() error

// OnBuild is called after every successful build, once the mesh is uploaded.
type OnBuild func(mesh *metadata.Mesh) error
type Render func(packet *metadata.RenderPacket, deltaTime float64) error
type Shutdown func() error
