package metadata

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/crown/engine/math"
)

/**
 * @brief The fixed order and set of attributes of a packed vertex.
 */
type VertexLayout uint8

const (
	/** @brief x, y, z. Stride 3. */
	LayoutPosition VertexLayout = iota
	/** @brief x, y, z, u, v. Stride 5. */
	LayoutPositionTexcoord
	/** @brief x, y, z, nx, ny, nz, u, v. Stride 8. */
	LayoutPositionNormalTexcoord
)

/** @brief The layout every crown part uses unless configured otherwise. */
const DefaultVertexLayout = LayoutPositionTexcoord

/**
 * @brief Describes one attribute inside a packed vertex.
 */
type VertexAttribute struct {
	/** @brief The shader location of the attribute. */
	Location uint32
	/** @brief Number of float components. */
	Components uint32
	/** @brief Offset from the start of the vertex in bytes. */
	Offset uint32
}

// Stride returns the number of floats per vertex.
func (l VertexLayout) Stride() uint32 {
	switch l {
	case LayoutPosition:
		return 3
	case LayoutPositionNormalTexcoord:
		return 8
	default:
		return 5
	}
}

// StrideBytes returns the size of a packed vertex in bytes.
func (l VertexLayout) StrideBytes() uint32 {
	return l.Stride() * 4
}

func (l VertexLayout) HasNormal() bool {
	return l == LayoutPositionNormalTexcoord
}

func (l VertexLayout) HasTexcoord() bool {
	return l != LayoutPosition
}

// Attributes returns the attribute records in packing order.
func (l VertexLayout) Attributes() []VertexAttribute {
	attrs := []VertexAttribute{{Location: 0, Components: 3, Offset: 0}}
	offset := uint32(12)
	location := uint32(1)
	if l.HasNormal() {
		attrs = append(attrs, VertexAttribute{Location: location, Components: 3, Offset: offset})
		offset += 12
		location++
	}
	if l.HasTexcoord() {
		attrs = append(attrs, VertexAttribute{Location: location, Components: 2, Offset: offset})
	}
	return attrs
}

// Pack interleaves the vertices into one flat float slice.
func (l VertexLayout) Pack(vertices []math.Vertex3D) []float32 {
	out := make([]float32, 0, len(vertices)*int(l.Stride()))
	for _, v := range vertices {
		out = append(out, v.Position.X, v.Position.Y, v.Position.Z)
		if l.HasNormal() {
			out = append(out, v.Normal.X, v.Normal.Y, v.Normal.Z)
		}
		if l.HasTexcoord() {
			out = append(out, v.Texcoord.X, v.Texcoord.Y)
		}
	}
	return out
}

func (l VertexLayout) String() string {
	switch l {
	case LayoutPosition:
		return "position"
	case LayoutPositionTexcoord:
		return "position_texcoord"
	case LayoutPositionNormalTexcoord:
		return "position_normal_texcoord"
	default:
		return fmt.Sprintf("layout(%d)", uint8(l))
	}
}

// ParseVertexLayout maps a layout name to its value. An empty name means the default.
func ParseVertexLayout(name string) (VertexLayout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultVertexLayout, nil
	case "position":
		return LayoutPosition, nil
	case "position_texcoord":
		return LayoutPositionTexcoord, nil
	case "position_normal_texcoord":
		return LayoutPositionNormalTexcoord, nil
	default:
		return DefaultVertexLayout, fmt.Errorf("unknown vertex layout %q", name)
	}
}
