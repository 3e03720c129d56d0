package loaders

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/math"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/**
 * @brief Loads a mesh written by the binary exporter. The resource Data is a
 * *metadata.Mesh whose nodes share configs the way the written mesh did.
 */
type BinaryLoader struct{}

func (bl *BinaryLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	mesh, err := ReadBinaryMesh(bytes.NewReader(buf))
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		core.LogError("%s", err)
		return nil, err
	}

	return &metadata.Resource{
		Name:     mesh.Name,
		FullPath: path,
		Type:     metadata.ResourceTypeMesh,
		DataSize: uint64(len(buf)),
		Data:     mesh,
	}, nil
}

func (bl *BinaryLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return core.ErrInvalidResource
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

type binaryReader struct {
	r   *bytes.Reader
	err error
}

func (br *binaryReader) read(v interface{}) {
	if br.err != nil {
		return
	}
	br.err = binary.Read(br.r, binary.LittleEndian, v)
}

// count reads an element count and checks the remaining input can hold it.
func (br *binaryReader) count(elementSize int) uint32 {
	var n uint32
	br.read(&n)
	if br.err == nil && uint64(n)*uint64(elementSize) > uint64(br.r.Len()) {
		br.err = fmt.Errorf("count %d overruns the remaining %d bytes", n, br.r.Len())
		return 0
	}
	return n
}

func (br *binaryReader) string() string {
	n := br.count(1)
	if br.err != nil || n == 0 {
		return ""
	}
	b := make([]byte, n)
	br.read(b)
	return string(b)
}

/**
 * @brief Decodes a binary mesh resource: a ResourceHeader, the mesh name, a
 * geometry table and the nodes placing those geometries.
 */
func ReadBinaryMesh(r *bytes.Reader) (*metadata.Mesh, error) {
	br := &binaryReader{r: r}

	var header metadata.ResourceHeader
	br.read(&header)
	if br.err != nil {
		return nil, fmt.Errorf("%w: short header: %s", core.ErrInvalidResource, br.err)
	}
	if header.MagicNumber != metadata.ResourceMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", core.ErrInvalidResource, header.MagicNumber)
	}
	if header.ResourceType != uint8(metadata.ResourceTypeMesh) {
		return nil, fmt.Errorf("%w: resource type %d is not a mesh", core.ErrInvalidResource, header.ResourceType)
	}
	if header.Version != metadata.ResourceVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", core.ErrInvalidResource, header.Version)
	}

	mesh := &metadata.Mesh{}
	mesh.UniqueID = br.string()
	mesh.Name = br.string()

	geometryCount := br.count(1)
	configs := make([]*metadata.GeometryConfig, 0, geometryCount)
	for i := uint32(0); i < geometryCount && br.err == nil; i++ {
		config := &metadata.GeometryConfig{}
		config.Name = br.string()

		var layout uint8
		br.read(&layout)
		config.Layout = metadata.VertexLayout(layout)
		if br.err == nil && config.Layout > metadata.LayoutPositionNormalTexcoord {
			br.err = fmt.Errorf("geometry '%s' has unknown vertex layout %d", config.Name, layout)
			break
		}

		vertexCount := br.count(binary.Size(math.Vertex3D{}))
		if br.err != nil {
			break
		}
		config.Vertices = make([]math.Vertex3D, vertexCount)
		if vertexCount > 0 {
			br.read(config.Vertices)
		}

		surfaceCount := br.count(1)
		for s := uint32(0); s < surfaceCount && br.err == nil; s++ {
			surface := metadata.Surface{}
			surface.Name = br.string()
			surface.MaterialName = br.string()
			indexCount := br.count(4)
			if br.err != nil {
				break
			}
			surface.Indices = make([]uint32, indexCount)
			if indexCount > 0 {
				br.read(surface.Indices)
			}
			for _, index := range surface.Indices {
				if br.err == nil && index >= vertexCount {
					br.err = fmt.Errorf("geometry '%s' surface '%s' references vertex %d of %d", config.Name, surface.Name, index, vertexCount)
				}
			}
			config.Surfaces = append(config.Surfaces, surface)
		}
		config.UpdateExtents()
		configs = append(configs, config)
	}

	nodeCount := br.count(1)
	for i := uint32(0); i < nodeCount && br.err == nil; i++ {
		name := br.string()
		var record metadata.BinaryNodeRecord
		br.read(&record)
		if br.err != nil {
			break
		}
		if record.GeometryIndex >= uint32(len(configs)) {
			br.err = fmt.Errorf("node '%s' references geometry %d of %d", name, record.GeometryIndex, len(configs))
			break
		}
		transform := math.TransformCreate()
		transform.SetPositionRotationScale(record.Position, record.Rotation, record.Scale)
		mesh.AddNode(name, configs[record.GeometryIndex], transform)
	}

	if br.err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidResource, br.err)
	}
	return mesh, nil
}
