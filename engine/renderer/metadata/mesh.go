package metadata

import (
	"github.com/spaghettifunk/crown/engine/math"
)

/**
 * @brief A geometry placed in the mesh by a transform.
 */
type MeshNode struct {
	Name      string
	Config    *GeometryConfig
	Transform *math.Transform
	/** @brief Set once the node's config has been uploaded to a renderer. */
	Geometry *Geometry
}

/**
 * @brief A collection of placed geometries, e.g. a whole crown.
 */
type Mesh struct {
	UniqueID   string
	Name       string
	Generation uint8
	Nodes      []*MeshNode
}

// AddNode appends a geometry placed by transform and returns the node.
func (m *Mesh) AddNode(name string, config *GeometryConfig, transform *math.Transform) *MeshNode {
	if transform == nil {
		transform = math.TransformCreate()
	}
	n := &MeshNode{Name: name, Config: config, Transform: transform}
	m.Nodes = append(m.Nodes, n)
	return n
}

// Node returns the first node with the given name, or nil.
func (m *Mesh) Node(name string) *MeshNode {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Counts returns the totals of vertices and indices across every node.
func (m *Mesh) Counts() (vertices, indices uint64) {
	for _, n := range m.Nodes {
		vertices += uint64(n.Config.VertexCount())
		indices += uint64(n.Config.IndexCount())
	}
	return vertices, indices
}
