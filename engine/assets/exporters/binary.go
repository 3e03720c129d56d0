package exporters

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/** @brief The file extension of binary mesh resources. */
const BinaryMeshExtension = ".crm"

/**
 * @brief Writes the mesh as a binary resource the binary loader reads back.
 */
type BinaryExporter struct{}

func (e *BinaryExporter) Format() Format {
	return FormatBinary
}

func (e *BinaryExporter) Export(dir string, mesh *metadata.Mesh, opts Options) ([]string, error) {
	path := filepath.Join(dir, fileName(mesh.Name)+BinaryMeshExtension)
	if err := createFile(path, func(f *os.File) error {
		return WriteBinaryMesh(f, mesh)
	}); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

type binaryWriter struct {
	w   *bufio.Writer
	err error
}

func (bw *binaryWriter) write(v interface{}) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *binaryWriter) string(s string) {
	bw.write(uint32(len(s)))
	if len(s) > 0 {
		bw.write([]byte(s))
	}
}

/**
 * @brief Encodes a mesh, little-endian:
 *
 *	ResourceHeader
 *	string unique id, string name
 *	u32 geometry count, then per geometry:
 *	    string name, u8 layout, u32 vertex count, vertices (8 x f32 each),
 *	    u32 surface count, then per surface: string name, string material, u32 index count, u32 indices
 *	u32 node count, then per node: string name, BinaryNodeRecord
 *
 * Strings are a u32 byte length followed by the bytes. Nodes sharing a config
 * share one geometry entry.
 */
func WriteBinaryMesh(w io.Writer, mesh *metadata.Mesh) error {
	bw := &binaryWriter{w: bufio.NewWriter(w)}

	bw.write(metadata.ResourceHeader{
		MagicNumber:  metadata.ResourceMagic,
		ResourceType: uint8(metadata.ResourceTypeMesh),
		Version:      metadata.ResourceVersion,
	})
	bw.string(mesh.UniqueID)
	bw.string(mesh.Name)

	configs, nodeConfig := uniqueConfigs(mesh)
	bw.write(uint32(len(configs)))
	for _, c := range configs {
		bw.string(c.Name)
		bw.write(uint8(c.Layout))
		bw.write(uint32(len(c.Vertices)))
		if len(c.Vertices) > 0 {
			bw.write(c.Vertices)
		}
		bw.write(uint32(len(c.Surfaces)))
		for _, s := range c.Surfaces {
			bw.string(s.Name)
			bw.string(s.MaterialName)
			bw.write(uint32(len(s.Indices)))
			if len(s.Indices) > 0 {
				bw.write(s.Indices)
			}
		}
	}

	bw.write(uint32(len(mesh.Nodes)))
	for i, n := range mesh.Nodes {
		bw.string(n.Name)
		t := n.Transform
		bw.write(metadata.BinaryNodeRecord{
			GeometryIndex: uint32(nodeConfig[i]),
			Position:      t.Position,
			Rotation:      t.Rotation,
			Scale:         t.Scale,
		})
	}

	if bw.err != nil {
		return bw.err
	}
	return bw.w.Flush()
}
