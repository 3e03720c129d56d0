package testbed

import (
	"fmt"

	"github.com/spaghettifunk/crown/engine"
	"github.com/spaghettifunk/crown/engine/assets/exporters"
	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	builds         uint32
	framesRendered uint64
	lastMesh       string
}

// DefaultApplicationConfig is the sample crown exported as OBJ and GLB.
func DefaultApplicationConfig() *engine.ApplicationConfig {
	return &engine.ApplicationConfig{
		Name:        "Crown Mesh Toolkit",
		LogLevel:    core.InfoLevel,
		ConfigPath:  "assets/crown.toml",
		OutputDir:   "out",
		Formats:     []exporters.Format{exporters.FormatOBJ, exporters.FormatGLB},
		Frames:      1,
		UVImageSize: exporters.DefaultUVImageSize,
	}
}

func NewTestGame(config *engine.ApplicationConfig) (*TestGame, error) {
	if config == nil {
		config = DefaultApplicationConfig()
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	tg.FnBoot = tg.Boot
	tg.FnInitialize = tg.Initialize
	tg.FnOnBuild = tg.OnBuild
	tg.FnRender = tg.Render
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Boot() error {
	core.LogInfo("booting testbed...")

	config := g.ApplicationConfig
	if config.Watch && config.ConfigPath == "" {
		return fmt.Errorf("watch mode needs a crown config file")
	}
	if len(config.Formats) > 0 && config.OutputDir == "" {
		return fmt.Errorf("exporting %v needs an output directory", config.Formats)
	}
	if config.UVImageSize <= 0 {
		config.UVImageSize = exporters.DefaultUVImageSize
	}
	return nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers ")
	}
	return nil
}

func (g *TestGame) OnBuild(mesh *metadata.Mesh) error {
	state := g.State.(*gameState)
	state.builds++
	state.lastMesh = mesh.Name

	vertices, indices := mesh.Counts()
	core.LogInfo("Build #%d of '%s': %d nodes, %d vertices, %d triangles.", state.builds, mesh.Name, len(mesh.Nodes), vertices, indices/3)

	for _, node := range mesh.Nodes {
		for _, s := range node.Config.Surfaces {
			texture := ""
			if m := g.SystemManager.MaterialSystem.Get(s.MaterialName); m != nil {
				texture = m.DiffuseMapName
			}
			core.LogDebug("  %s/%s -> %s (%s), %d indices", node.Name, s.Name, s.MaterialName, texture, len(s.Indices))
		}
	}
	return nil
}

func (g *TestGame) Render(packet *metadata.RenderPacket, deltaTime float64) error {
	state := g.State.(*gameState)
	state.framesRendered++
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	builds, vertices, indices, frames, drawCalls, buildAVG := core.MetricsSnapshot()
	core.LogInfo("Testbed done: %d builds of '%s' (avg %s, %d vertices, %d indices), %d frames, %d draw calls.",
		builds, state.lastMesh, buildAVG, vertices, indices, frames, drawCalls)
	return nil
}
