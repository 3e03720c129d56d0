package systems

import (
	"fmt"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

type MeshSystem struct {
	geometrySystem *GeometrySystem
}

func NewMeshSystem(gs *GeometrySystem) (*MeshSystem, error) {
	if gs == nil {
		err := fmt.Errorf("func NewMeshSystem - geometry system must not be nil")
		core.LogError("%s", err)
		return nil, err
	}
	return &MeshSystem{
		geometrySystem: gs,
	}, nil
}

func (ms *MeshSystem) Shutdown() error {
	return nil
}

/**
 * @brief Uploads every node of the mesh. Nodes sharing a config share one
 * geometry, which holds one reference per node.
 */
func (ms *MeshSystem) Load(mesh *metadata.Mesh) error {
	uploaded := make(map[*metadata.GeometryConfig]*metadata.Geometry, len(mesh.Nodes))
	for _, node := range mesh.Nodes {
		if g, ok := uploaded[node.Config]; ok {
			acquired, err := ms.geometrySystem.AcquireByID(g.ID)
			if err != nil {
				ms.Unload(mesh)
				return err
			}
			node.Geometry = acquired
			continue
		}

		g, err := ms.geometrySystem.AcquireFromConfig(node.Config, true)
		if err != nil {
			core.LogError("failed to load node '%s' of mesh '%s'.", node.Name, mesh.Name)
			ms.Unload(mesh)
			return err
		}
		uploaded[node.Config] = g
		node.Geometry = g
	}
	mesh.Generation++

	core.LogDebug("Successfully loaded mesh '%s' (%d nodes, %d geometries).", mesh.Name, len(mesh.Nodes), len(uploaded))
	return nil
}

/**
 * @brief Releases every geometry held by the mesh nodes.
 */
func (ms *MeshSystem) Unload(mesh *metadata.Mesh) {
	for _, node := range mesh.Nodes {
		if node.Geometry != nil {
			ms.geometrySystem.Release(node.Geometry)
			node.Geometry = nil
		}
	}
}
