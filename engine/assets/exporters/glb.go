package exporters

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/crown/engine/math"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/** @brief The generator string written into exported glTF assets. */
const GLTFGenerator = "crown"

/**
 * @brief Writes a binary glTF 2.0 container. Each distinct geometry becomes a
 * glTF mesh with one primitive per surface; nodes reference those meshes and
 * carry their transform as a matrix. Textures are referenced by file name.
 */
type GLBExporter struct{}

func (e *GLBExporter) Format() Format {
	return FormatGLB
}

func (e *GLBExporter) Export(dir string, mesh *metadata.Mesh, opts Options) ([]string, error) {
	path := filepath.Join(dir, fileName(mesh.Name)+".glb")
	if err := createFile(path, func(f *os.File) error {
		return WriteGLB(f, mesh, opts)
	}); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func intPtr(v int) *int {
	return &v
}

type glbBuilder struct {
	doc       gltfDocument
	bin       bytes.Buffer
	materials map[string]int
	images    map[string]int
	opts      Options
}

// view appends data to the binary chunk and returns the index of its buffer view.
func (b *glbBuilder) view(data interface{}, target int) (int, error) {
	offset := b.bin.Len()
	if err := binary.Write(&b.bin, binary.LittleEndian, data); err != nil {
		return 0, err
	}
	b.doc.BufferViews = append(b.doc.BufferViews, gltfBufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: b.bin.Len() - offset,
		Target:     intPtr(target),
	})
	return len(b.doc.BufferViews) - 1, nil
}

func (b *glbBuilder) accessor(a gltfAccessor) int {
	b.doc.Accessors = append(b.doc.Accessors, a)
	return len(b.doc.Accessors) - 1
}

func (b *glbBuilder) material(name string) int {
	if idx, ok := b.materials[name]; ok {
		return idx
	}

	colour := [4]float32{1, 1, 1, 1}
	m := b.opts.material(name)
	if m != nil {
		colour = [4]float32{m.DiffuseColour.X, m.DiffuseColour.Y, m.DiffuseColour.Z, 1}
	}
	metallic, roughness := float32(0), float32(1)
	pbr := &gltfPbrMetallicRoughness{
		BaseColorFactor: &colour,
		MetallicFactor:  &metallic,
		RoughnessFactor: &roughness,
	}
	if m != nil && m.DiffuseMapName != "" {
		pbr.BaseColorTexture = &gltfTextureInfo{Index: b.texture(m.DiffuseMapName)}
	}

	b.doc.Materials = append(b.doc.Materials, gltfMaterial{Name: name, PbrMetallicRoughness: pbr})
	idx := len(b.doc.Materials) - 1
	b.materials[name] = idx
	return idx
}

// texture returns the texture index for an image file, adding it when new.
func (b *glbBuilder) texture(uri string) int {
	if idx, ok := b.images[uri]; ok {
		return idx
	}
	if len(b.doc.Samplers) == 0 {
		// 9729 = LINEAR, 10497 = REPEAT
		b.doc.Samplers = append(b.doc.Samplers, gltfSampler{
			MagFilter: intPtr(9729), MinFilter: intPtr(9729), WrapS: intPtr(10497), WrapT: intPtr(10497),
		})
	}
	b.doc.Images = append(b.doc.Images, gltfImage{Name: uri, URI: uri})
	b.doc.Textures = append(b.doc.Textures, gltfTexture{Sampler: intPtr(0), Source: intPtr(len(b.doc.Images) - 1)})
	idx := len(b.doc.Textures) - 1
	b.images[uri] = idx
	return idx
}

/**
 * @brief Appends config as a glTF mesh and returns its index, or -1 when no
 * surface has indices since glTF requires at least one primitive per mesh.
 */
func (b *glbBuilder) geometry(config *metadata.GeometryConfig) (int, error) {
	drawable := false
	for _, s := range config.Surfaces {
		if len(s.Indices) > 0 {
			drawable = true
			break
		}
	}
	if !drawable {
		return -1, nil
	}

	count := len(config.Vertices)
	positions := make([]math.Vec3, count)
	normals := make([]math.Vec3, count)
	texcoords := make([]math.Vec2, count)
	for i, v := range config.Vertices {
		positions[i] = v.Position
		normals[i] = v.Normal
		// glTF puts the texture origin at the top left.
		texcoords[i] = math.NewVec2(v.Texcoord.X, 1-v.Texcoord.Y)
	}

	primitive := func() gltfPrimitive {
		return gltfPrimitive{Attributes: map[string]int{}, Mode: intPtr(gltfPrimitiveModeTriangles)}
	}
	attributes := primitive().Attributes
	if count > 0 {
		pv, err := b.view(positions, gltfTargetArrayBuffer)
		if err != nil {
			return -1, err
		}
		ext, _ := math.GeometryComputeExtents(config.Vertices)
		attributes["POSITION"] = b.accessor(gltfAccessor{
			BufferView: intPtr(pv), ComponentType: gltfComponentTypeFloat, Count: count, Type: gltfAccessorTypeVec3,
			Min: []float32{ext.Min.X, ext.Min.Y, ext.Min.Z},
			Max: []float32{ext.Max.X, ext.Max.Y, ext.Max.Z},
		})
		if config.Layout.HasNormal() {
			nv, err := b.view(normals, gltfTargetArrayBuffer)
			if err != nil {
				return -1, err
			}
			attributes["NORMAL"] = b.accessor(gltfAccessor{
				BufferView: intPtr(nv), ComponentType: gltfComponentTypeFloat, Count: count, Type: gltfAccessorTypeVec3,
			})
		}
		if config.Layout.HasTexcoord() {
			tv, err := b.view(texcoords, gltfTargetArrayBuffer)
			if err != nil {
				return -1, err
			}
			attributes["TEXCOORD_0"] = b.accessor(gltfAccessor{
				BufferView: intPtr(tv), ComponentType: gltfComponentTypeFloat, Count: count, Type: gltfAccessorTypeVec2,
			})
		}
	}

	m := gltfMesh{Name: config.Name, Primitives: []gltfPrimitive{}}
	for _, s := range config.Surfaces {
		if len(s.Indices) == 0 {
			continue
		}
		iv, err := b.view(s.Indices, gltfTargetElementArrayBuffer)
		if err != nil {
			return -1, err
		}
		p := primitive()
		for k, v := range attributes {
			p.Attributes[k] = v
		}
		p.Indices = intPtr(b.accessor(gltfAccessor{
			Name: s.Name, BufferView: intPtr(iv), ComponentType: gltfComponentTypeUnsignedInt, Count: len(s.Indices), Type: gltfAccessorTypeScalar,
		}))
		p.Material = intPtr(b.material(s.MaterialName))
		m.Primitives = append(m.Primitives, p)
	}
	b.doc.Meshes = append(b.doc.Meshes, m)
	return len(b.doc.Meshes) - 1, nil
}

/**
 * @brief Encodes the mesh as GLB: a 12 byte header, a JSON chunk padded with
 * spaces and a BIN chunk padded with zeros, both to 4 bytes.
 */
func WriteGLB(w io.Writer, mesh *metadata.Mesh, opts Options) error {
	b := &glbBuilder{
		doc: gltfDocument{
			Asset:  gltfAsset{Version: "2.0", Generator: GLTFGenerator},
			Scene:  intPtr(0),
			Scenes: []gltfScene{{Name: mesh.Name, Nodes: []int{}}},
		},
		materials: map[string]int{},
		images:    map[string]int{},
		opts:      opts,
	}

	configs, nodeConfig := uniqueConfigs(mesh)
	meshIndex := make([]int, len(configs))
	for i, c := range configs {
		idx, err := b.geometry(c)
		if err != nil {
			return fmt.Errorf("geometry '%s': %w", c.Name, err)
		}
		meshIndex[i] = idx
	}

	identity := math.NewMat4Identity()
	for i, n := range mesh.Nodes {
		node := gltfNode{Name: n.Name}
		if idx := meshIndex[nodeConfig[i]]; idx >= 0 {
			node.Mesh = intPtr(idx)
		}
		// Row-major row-vector data reads as the column-major column-vector matrix glTF expects.
		world := n.Transform.GetWorld()
		if world != identity {
			matrix := world.Data
			node.Matrix = &matrix
		}
		b.doc.Nodes = append(b.doc.Nodes, node)
		b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, i)
	}

	binChunk := pad(b.bin.Bytes(), 0x00)
	if len(binChunk) > 0 {
		b.doc.Buffers = []gltfBuffer{{ByteLength: b.bin.Len()}}
	}

	jsonData, err := json.Marshal(b.doc)
	if err != nil {
		return err
	}
	jsonChunk := pad(jsonData, ' ')

	total := 12 + 8 + len(jsonChunk)
	if len(binChunk) > 0 {
		total += 8 + len(binChunk)
	}

	out := &bytes.Buffer{}
	out.Grow(total)
	_ = binary.Write(out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	_ = binary.Write(out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonChunk)), ChunkType: gltfGLBChunkJSON})
	out.Write(jsonChunk)
	if len(binChunk) > 0 {
		_ = binary.Write(out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(binChunk)), ChunkType: gltfGLBChunkBIN})
		out.Write(binChunk)
	}

	_, err = w.Write(out.Bytes())
	return err
}

// pad extends data to a multiple of 4 bytes with the given filler.
func pad(data []byte, filler byte) []byte {
	for len(data)%4 != 0 {
		data = append(data, filler)
	}
	return data
}
