package headless

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/math"
	"github.com/spaghettifunk/crown/engine/renderer"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

func newGeometry() *metadata.Geometry {
	return &metadata.Geometry{ID: 0, InternalID: core.InvalidID, Generation: core.InvalidIDUint16}
}

func quadConfig() *metadata.GeometryConfig {
	config := &metadata.GeometryConfig{
		Name:   "quad",
		Layout: metadata.LayoutPositionTexcoord,
		Vertices: []math.Vertex3D{
			{Position: math.NewVec3(0, 0, 0)},
			{Position: math.NewVec3(1, 0, 0)},
			{Position: math.NewVec3(1, 1, 0)},
			{Position: math.NewVec3(0, 1, 0)},
		},
		Surfaces: []metadata.Surface{
			{Name: "front", MaterialName: "a", Indices: []uint32{0, 1, 2}},
			{Name: "back", MaterialName: "b", Indices: []uint32{2, 3, 0}},
		},
	}
	config.UpdateExtents()
	return config
}

func TestCreateGeometryCopiesBuffers(t *testing.T) {
	b := New()
	if err := b.Initialize("test"); err != nil {
		t.Fatal(err)
	}
	vertices := []float32{0, 0, 0, 1, 0, 0, 1, 1, 0}
	surfaces := [][]uint32{{0, 1, 2}}
	g := newGeometry()
	if err := b.CreateGeometry(g, vertices, 3, surfaces); err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}
	vertices[0] = 42
	surfaces[0][0] = 2

	data := b.Geometry(g.InternalID)
	if data == nil {
		t.Fatal("uploaded geometry not found")
	}
	if data.Vertices[0] != 0 || data.Surfaces[0][0] != 0 {
		t.Errorf("backend shares caller buffers")
	}
	if data.VertexCount != 3 {
		t.Errorf("VertexCount = %d, want 3", data.VertexCount)
	}

	b.DestroyGeometry(g)
	if g.InternalID != core.InvalidID || b.Geometry(0) != nil {
		t.Errorf("DestroyGeometry did not release the slot")
	}
}

func TestCreateGeometryRejectsBadData(t *testing.T) {
	b := New()
	_ = b.Initialize("test")

	tests := []struct {
		name     string
		vertices []float32
		stride   uint32
		surfaces [][]uint32
	}{
		{"ragged vertices", []float32{0, 0, 0, 1}, 3, nil},
		{"zero stride", []float32{0, 0, 0}, 0, nil},
		{"index out of range", []float32{0, 0, 0, 1, 1, 1}, 3, [][]uint32{{0, 1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.CreateGeometry(newGeometry(), tt.vertices, tt.stride, tt.surfaces); err == nil {
				t.Errorf("CreateGeometry() should fail")
			}
		})
	}
}

func TestCreateGeometryBeforeInitialize(t *testing.T) {
	b := New()
	err := b.CreateGeometry(newGeometry(), []float32{0, 0, 0}, 3, nil)
	if !errors.Is(err, core.ErrBackendNotReady) {
		t.Errorf("error = %v, want ErrBackendNotReady", err)
	}
}

func TestRendererDrawsOneCallPerSurface(t *testing.T) {
	b := New()
	r, err := renderer.New(b, metadata.RendererBackendConfig{ApplicationName: "test"})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer r.Shutdown()

	config := quadConfig()
	g := newGeometry()
	if err := r.CreateGeometry(g, config); err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}
	gold := &metadata.Material{Name: "a", DiffuseMapName: "goldi.jpg"}
	g.Surfaces[0].Material = gold

	mesh := &metadata.Mesh{Name: "m"}
	mesh.AddNode("quad", config, nil).Geometry = g

	for i := 0; i < 3; i++ {
		if err := r.DrawFrame(&metadata.RenderPacket{DeltaTime: 1.0 / 60.0, Meshes: []*metadata.Mesh{mesh}}); err != nil {
			t.Fatalf("DrawFrame() error = %v", err)
		}
	}

	if r.FrameNumber() != 3 || len(b.Frames()) != 3 {
		t.Fatalf("frames = %d/%d, want 3", r.FrameNumber(), len(b.Frames()))
	}
	frame := b.LastFrame()
	if len(frame.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(frame.Draws))
	}
	if frame.Draws[0].SurfaceName != "front" || frame.Draws[0].DiffuseMap != "goldi.jpg" {
		t.Errorf("first draw = %+v", frame.Draws[0])
	}
	if frame.Draws[1].MaterialName != metadata.DefaultMaterialName {
		t.Errorf("unbound surface drew with %q", frame.Draws[1].MaterialName)
	}
	if gold.RenderFrameNumber != 3 {
		t.Errorf("RenderFrameNumber = %d, want 3", gold.RenderFrameNumber)
	}
}

func TestFrameHistoryIsBounded(t *testing.T) {
	b := New()
	_ = b.Initialize("test")
	for i := 0; i < FrameHistorySize+5; i++ {
		if err := b.BeginFrame(0); err != nil {
			t.Fatal(err)
		}
		if err := b.EndFrame(0); err != nil {
			t.Fatal(err)
		}
	}
	frames := b.Frames()
	if len(frames) != FrameHistorySize {
		t.Fatalf("history = %d, want %d", len(frames), FrameHistorySize)
	}
	if frames[0].Number != 6 {
		t.Errorf("oldest kept frame = %d, want 6", frames[0].Number)
	}
}

func TestCreateGeometryReportsCapacity(t *testing.T) {
	b := New()
	if err := b.Initialize("test"); err != nil {
		t.Fatal(err)
	}
	vertices := []float32{0, 0, 0, 0, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1, 1}
	surfaces := [][]uint32{{0, 1, 2}}
	for i := uint32(0); i < MaxGeometryCount; i++ {
		if err := b.CreateGeometry(newGeometry(), vertices, 5, surfaces); err != nil {
			t.Fatalf("CreateGeometry() #%d error = %v", i, err)
		}
	}

	g := newGeometry()
	err := b.CreateGeometry(g, vertices, 5, surfaces)
	if !errors.Is(err, core.ErrGeometryCapacity) {
		t.Fatalf("CreateGeometry() past capacity error = %v, want ErrGeometryCapacity", err)
	}
	if g.InternalID != core.InvalidID {
		t.Errorf("InternalID = %d, want InvalidID", g.InternalID)
	}
}
