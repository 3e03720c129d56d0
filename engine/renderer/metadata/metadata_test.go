package metadata

import (
	"errors"
	"strings"
	"testing"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/math"
)

func testVertex(i float32) math.Vertex3D {
	return math.Vertex3D{
		Position: math.NewVec3(i, i+1, i+2),
		Normal:   math.NewVec3(0, 1, 0),
		Texcoord: math.NewVec2(i/10, 1-i/10),
	}
}

func TestLayoutPack(t *testing.T) {
	vertices := []math.Vertex3D{testVertex(0), testVertex(1)}
	tests := []struct {
		layout VertexLayout
		want   []float32
	}{
		{LayoutPosition, []float32{0, 1, 2, 1, 2, 3}},
		{LayoutPositionTexcoord, []float32{0, 1, 2, 0, 1, 1, 2, 3, 0.1, 0.9}},
		{LayoutPositionNormalTexcoord, []float32{0, 1, 2, 0, 1, 0, 0, 1, 1, 2, 3, 0, 1, 0, 0.1, 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			got := tt.layout.Pack(vertices)
			if uint32(len(got)) != tt.layout.Stride()*2 {
				t.Fatalf("packed %d floats, want %d", len(got), tt.layout.Stride()*2)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("float %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLayoutAttributes(t *testing.T) {
	attrs := LayoutPositionNormalTexcoord.Attributes()
	if len(attrs) != 3 || attrs[1].Offset != 12 || attrs[2].Offset != 24 || attrs[2].Location != 2 {
		t.Errorf("attributes = %+v", attrs)
	}
	attrs = LayoutPositionTexcoord.Attributes()
	if len(attrs) != 2 || attrs[1].Offset != 12 || attrs[1].Components != 2 {
		t.Errorf("attributes = %+v", attrs)
	}
	if LayoutPositionTexcoord.StrideBytes() != 20 {
		t.Errorf("stride bytes = %d", LayoutPositionTexcoord.StrideBytes())
	}
}

func TestParseVertexLayout(t *testing.T) {
	for _, l := range []VertexLayout{LayoutPosition, LayoutPositionTexcoord, LayoutPositionNormalTexcoord} {
		got, err := ParseVertexLayout(strings.ToUpper(l.String()))
		if err != nil || got != l {
			t.Errorf("ParseVertexLayout(%s) = %v, %v", l, got, err)
		}
	}
	if got, err := ParseVertexLayout(""); err != nil || got != DefaultVertexLayout {
		t.Errorf("empty name = %v, %v", got, err)
	}
	if _, err := ParseVertexLayout("tangent"); err == nil {
		t.Errorf("unknown layout should fail")
	}
}

func TestGeometryConfigSurfaces(t *testing.T) {
	c := &GeometryConfig{
		Name:     "quad",
		Layout:   LayoutPositionTexcoord,
		Vertices: []math.Vertex3D{testVertex(-1), testVertex(0), testVertex(1), testVertex(2)},
		Surfaces: []Surface{
			{Name: "front", Indices: []uint32{0, 1, 2}},
			{Name: "back", Indices: []uint32{2, 3, 0}},
		},
	}
	if c.VertexCount() != 4 || c.IndexCount() != 6 {
		t.Errorf("counts = %d/%d", c.VertexCount(), c.IndexCount())
	}
	if want := []uint32{0, 1, 2, 2, 3, 0}; len(c.CombinedIndices()) != len(want) {
		t.Errorf("combined = %v", c.CombinedIndices())
	}
	if s := c.Surface("back"); s == nil || s.Indices[0] != 2 {
		t.Errorf("Surface(back) = %v", s)
	}
	if c.Surface("side") != nil {
		t.Errorf("Surface(side) should be nil")
	}
	if got := c.SurfaceIndices(); len(got) != 2 || &got[1][0] != &c.Surfaces[1].Indices[0] {
		t.Errorf("SurfaceIndices should alias the surfaces")
	}

	c.UpdateExtents()
	if c.Extents.Min != math.NewVec3(-1, 0, 1) || c.Extents.Max != math.NewVec3(2, 3, 4) {
		t.Errorf("extents = %+v", c.Extents)
	}
	if c.Center != math.NewVec3(0.5, 1.5, 2.5) {
		t.Errorf("center = %+v", c.Center)
	}
}

func TestMeshNodes(t *testing.T) {
	shared := &GeometryConfig{Name: "spike", Vertices: []math.Vertex3D{testVertex(0)}, Surfaces: []Surface{{Indices: []uint32{0, 0, 0}}}}
	m := &Mesh{Name: "m"}
	a := m.AddNode("a", shared, nil)
	m.AddNode("b", shared, math.TransformFromPosition(math.NewVec3(1, 0, 0)))

	if a.Transform == nil || a.Transform.GetWorld() != math.NewMat4Identity() {
		t.Errorf("nil transform should become identity")
	}
	if m.Node("b") == nil || m.Node("c") != nil {
		t.Errorf("Node lookup failed")
	}
	if v, i := m.Counts(); v != 2 || i != 6 {
		t.Errorf("Counts = %d, %d", v, i)
	}
}

func TestCrownConfigDefault(t *testing.T) {
	cfg := CrownConfigDefault()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Band.Sectors != 36 || cfg.Band.OuterRadius != 1.2 || cfg.Band.InnerRadius != 1.1 || cfg.Band.Height != 1.2 {
		t.Errorf("band = %+v", cfg.Band)
	}
	if cfg.Cross.Width != 0.4 || cfg.Cross.Height != 0.7 || cfg.Cross.Thickness != 0.1 || cfg.Cross.Offset != [3]float32{0, 0.55, 1.8} {
		t.Errorf("cross = %+v", cfg.Cross)
	}
	if cfg.Materials.Outer != "goldi.jpg" || cfg.Materials.Inner != "heyy.jpg" {
		t.Errorf("materials = %+v", cfg.Materials)
	}
}

func TestCrownConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *CrownConfig)
		field  string
	}{
		{"empty name", func(c *CrownConfig) { c.Name = "" }, "name"},
		{"bad layout", func(c *CrownConfig) { c.VertexLayout = "bogus" }, "vertex_layout"},
		{"inner zero", func(c *CrownConfig) { c.Band.InnerRadius = 0 }, "band.inner_radius"},
		{"outer not above inner", func(c *CrownConfig) { c.Band.OuterRadius = c.Band.InnerRadius }, "band.outer_radius"},
		{"flat band", func(c *CrownConfig) { c.Band.Height = 0 }, "band.height"},
		{"too few sectors", func(c *CrownConfig) { c.Band.Sectors = 2 }, "band.sectors"},
		{"cross without width", func(c *CrownConfig) { c.Cross.Width = 0 }, "cross"},
		{"spike without height", func(c *CrownConfig) { c.Spikes.Height = -1 }, "spikes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := CrownConfigDefault()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, core.ErrInvalidCrownConfig) {
				t.Fatalf("error = %v, want ErrInvalidCrownConfig", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}

	cfg := CrownConfigDefault()
	cfg.Cross.Enabled = false
	cfg.Cross.Width = 0
	cfg.Spikes.Count = 0
	cfg.Spikes.Width = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled parts should not be validated: %v", err)
	}
}
