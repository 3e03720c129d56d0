package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/crown/engine/assets"
	"github.com/spaghettifunk/crown/engine/assets/exporters"
	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer"
	"github.com/spaghettifunk/crown/engine/renderer/headless"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
	"github.com/spaghettifunk/crown/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const (
	defaultMaxMaterialCount uint32 = 64
	defaultMaxGeometryCount uint32 = 256
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	renderer      *renderer.Renderer
	backend       *headless.Backend
	clock         *core.Clock

	// The crown currently uploaded, replaced on every rebuild
	mesh *metadata.Mesh
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		err := fmt.Errorf("engine.New - game and application config are required")
		core.LogError("%s", err)
		return nil, err
	}
	config := g.ApplicationConfig

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	backend := headless.New()
	r, err := renderer.New(backend, metadata.RendererBackendConfig{ApplicationName: config.Name})
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	smc := systems.SystemManagerConfig{
		MaxMaterialCount: config.MaxMaterialCount,
		MaxGeometryCount: config.MaxGeometryCount,
	}
	if smc.MaxMaterialCount == 0 {
		smc.MaxMaterialCount = defaultMaxMaterialCount
	}
	if smc.MaxGeometryCount == 0 {
		smc.MaxGeometryCount = defaultMaxGeometryCount
	}
	sm, err := systems.NewSystemManager(smc, r)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	g.SystemManager = sm

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		assetManager:  am,
		systemManager: sm,
		renderer:      r,
		backend:       backend,
		clock:         core.NewClock(),
	}, nil
}

func (e *Engine) Boot() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine cannot boot in stage %d", e.currentStage)
	}
	e.currentStage = EngineStageBooting

	core.SetLogLevel(e.gameInstance.ApplicationConfig.LogLevel)
	if e.gameInstance.FnBoot != nil {
		if err := e.gameInstance.FnBoot(); err != nil {
			core.LogError("game boot failed: %s", err)
			return err
		}
	}

	e.currentStage = EngineStageBootComplete
	return nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return fmt.Errorf("engine cannot initialize in stage %d", e.currentStage)
	}
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	if err := e.renderer.Initialize(); err != nil {
		return err
	}

	if config.ConfigPath != "" {
		if err := e.assetManager.Initialize(filepath.Dir(config.ConfigPath)); err != nil {
			core.LogError("failed to index assets next to '%s': %s", config.ConfigPath, err)
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

/**
 * @brief Builds, draws and exports the crown once. In watch mode the crown is
 * rebuilt after every change of the config file until ctx is done; a failing
 * rebuild is logged and the previous crown stays loaded.
 */
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine cannot run in stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	config := e.gameInstance.ApplicationConfig

	err := e.rebuild()
	if !config.Watch {
		return err
	}
	if config.ConfigPath == "" {
		return fmt.Errorf("watch mode needs a config path")
	}

	events, werr := e.assetManager.Watch(ctx, config.ConfigPath)
	if werr != nil {
		return werr
	}
	for {
		select {
		case <-ctx.Done():
			core.LogInfo("Stopped watching '%s'.", config.ConfigPath)
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			core.LogInfo("'%s' changed (%s), rebuilding.", ev.Path, ev.Op)
			if err := e.rebuild(); err != nil {
				core.LogWarn("rebuild failed, keeping the previous crown: %s", err)
			}
		}
	}
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err)
		}
	}
	if e.mesh != nil {
		e.systemManager.MeshSystem.Unload(e.mesh)
		e.mesh = nil
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	return e.assetManager.Shutdown()
}

// Mesh returns the crown currently loaded, or nil before the first build.
func (e *Engine) Mesh() *metadata.Mesh {
	return e.mesh
}

// Backend returns the headless backend the renderer draws into.
func (e *Engine) Backend() *headless.Backend {
	return e.backend
}

func (e *Engine) loadCrownConfig() (metadata.CrownConfig, error) {
	path := e.gameInstance.ApplicationConfig.ConfigPath
	if path == "" {
		return metadata.CrownConfigDefault(), nil
	}
	res, err := e.assetManager.LoadAsset(path, nil)
	if err != nil {
		return metadata.CrownConfig{}, err
	}
	defer e.assetManager.UnloadAsset(res)

	cfg, ok := res.Data.(*metadata.CrownConfig)
	if !ok {
		return metadata.CrownConfig{}, fmt.Errorf("'%s' is not a crown description: %w", path, core.ErrInvalidResource)
	}
	return *cfg, nil
}

func (e *Engine) rebuild() error {
	config := e.gameInstance.ApplicationConfig

	cfg, err := e.loadCrownConfig()
	if err != nil {
		return err
	}
	mesh, err := e.systemManager.CrownSystem.Build(cfg)
	if err != nil {
		return err
	}
	if err := e.systemManager.MeshSystem.Load(mesh); err != nil {
		return err
	}

	previous := e.mesh
	e.mesh = mesh
	if previous != nil {
		e.systemManager.MeshSystem.Unload(previous)
	}

	if e.gameInstance.FnOnBuild != nil {
		if err := e.gameInstance.FnOnBuild(mesh); err != nil {
			return err
		}
	}

	if err := e.renderFrames(config.Frames); err != nil {
		return err
	}

	if config.OutputDir == "" || len(config.Formats) == 0 {
		return nil
	}
	paths, err := exporters.ExportToDir(config.OutputDir, mesh, config.Formats, exporters.Options{
		Materials:   e.systemManager.MaterialSystem.Get,
		UVImageSize: config.UVImageSize,
	})
	if err != nil {
		return err
	}
	core.LogInfo("Exported '%s' to %d files in '%s'.", mesh.Name, len(paths), config.OutputDir)
	return nil
}

func (e *Engine) renderFrames(count uint32) error {
	e.clock.Start()
	var lastTime float64
	for i := uint32(0); i < count; i++ {
		e.clock.Update()
		currentTime := renderer.FrameDelta(e.clock.Elapsed())
		delta := currentTime - lastTime
		lastTime = currentTime

		packet := &metadata.RenderPacket{
			DeltaTime: delta,
			Meshes:    []*metadata.Mesh{e.mesh},
		}
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(packet, delta); err != nil {
				core.LogError("Game render failed.")
				return err
			}
		}
		if err := e.renderer.DrawFrame(packet); err != nil {
			return err
		}
	}
	e.clock.Stop()

	if last := e.backend.LastFrame(); last != nil {
		core.LogDebug("Frame %d issued %d draw calls.", last.Number, len(last.Draws))
	}
	return nil
}
