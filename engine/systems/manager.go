package systems

import (
	"github.com/spaghettifunk/crown/engine/renderer"
)

type SystemManagerConfig struct {
	MaxMaterialCount uint32
	MaxGeometryCount uint32
}

type SystemManager struct {
	MaterialSystem *MaterialSystem
	GeometrySystem *GeometrySystem
	MeshSystem     *MeshSystem
	CrownSystem    *CrownSystem
}

func NewSystemManager(config SystemManagerConfig, renderer *renderer.Renderer) (*SystemManager, error) {
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: config.MaxMaterialCount,
	})
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxGeometryCount: config.MaxGeometryCount,
	}, ms, renderer)
	if err != nil {
		return nil, err
	}
	mls, err := NewMeshSystem(gs)
	if err != nil {
		return nil, err
	}
	cs, err := NewCrownSystem(ms)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		MaterialSystem: ms,
		GeometrySystem: gs,
		MeshSystem:     mls,
		CrownSystem:    cs,
	}, nil
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.CrownSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MeshSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.GeometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MaterialSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
