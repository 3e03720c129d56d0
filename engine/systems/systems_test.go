package systems

import (
	"errors"
	"strings"
	"testing"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/math"
	"github.com/spaghettifunk/crown/engine/renderer"
	"github.com/spaghettifunk/crown/engine/renderer/headless"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

func newTestManager(t *testing.T, maxGeometries uint32) (*SystemManager, *renderer.Renderer, *headless.Backend) {
	t.Helper()
	backend := headless.New()
	r, err := renderer.New(backend, metadata.RendererBackendConfig{ApplicationName: "systems-test"})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Initialize(); err != nil {
		t.Fatal(err)
	}
	sm, err := NewSystemManager(SystemManagerConfig{MaxMaterialCount: 16, MaxGeometryCount: maxGeometries}, r)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = sm.Shutdown()
		_ = r.Shutdown()
	})
	return sm, r, backend
}

func TestNewSystemsRejectZeroCapacity(t *testing.T) {
	if _, err := NewMaterialSystem(&MaterialSystemConfig{}); err == nil {
		t.Error("NewMaterialSystem with zero capacity should fail")
	}
	if _, err := NewGeometrySystem(&GeometrySystemConfig{}, nil, nil); err == nil {
		t.Error("NewGeometrySystem with zero capacity should fail")
	}
}

func TestMaterialSystemFallsBackToDefault(t *testing.T) {
	ms, err := NewMaterialSystem(&MaterialSystemConfig{MaxMaterialCount: 2})
	if err != nil {
		t.Fatal(err)
	}
	if m := ms.Acquire("missing"); m != ms.GetDefault() {
		t.Errorf("Acquire(missing) = %+v, want default", m)
	}

	m, err := ms.Register(metadata.MaterialConfig{Name: metadata.MaterialCrownOuter, DiffuseMapName: "goldi.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ms.Acquire(metadata.MaterialCrownOuter); got != m || got.DiffuseMapName != "goldi.jpg" {
		t.Errorf("Acquire returned %+v", got)
	}
	if ms.ReferenceCount(metadata.MaterialCrownOuter) != 1 {
		t.Errorf("reference count = %d, want 1", ms.ReferenceCount(metadata.MaterialCrownOuter))
	}

	// Registering again updates in place.
	again, err := ms.Register(metadata.MaterialConfig{Name: metadata.MaterialCrownOuter, DiffuseMapName: "heyy.jpg"})
	if err != nil || again != m || m.DiffuseMapName != "heyy.jpg" || m.Generation != 1 {
		t.Errorf("re-register = %+v, %v", again, err)
	}

	if _, err := ms.Register(metadata.MaterialConfig{Name: "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Register(metadata.MaterialConfig{Name: "c"}); err == nil {
		t.Error("Register past capacity should fail")
	}
	if _, err := ms.Register(metadata.MaterialConfig{Name: metadata.DefaultMaterialName}); err == nil {
		t.Error("Register of the default name should fail")
	}
}

func TestMaterialSystemAutoRelease(t *testing.T) {
	ms, _ := NewMaterialSystem(&MaterialSystemConfig{MaxMaterialCount: 1})
	if _, err := ms.Register(metadata.MaterialConfig{Name: "temp", AutoRelease: true}); err != nil {
		t.Fatal(err)
	}
	ms.Acquire("temp")
	ms.Release("temp")
	if m := ms.Acquire("temp"); m != ms.GetDefault() {
		t.Errorf("auto released material is still registered")
	}
	// The slot is free again.
	if _, err := ms.Register(metadata.MaterialConfig{Name: "other"}); err != nil {
		t.Errorf("slot was not reclaimed: %v", err)
	}
}

func TestGeometrySystemAcquireAndRelease(t *testing.T) {
	sm, _, backend := newTestManager(t, 2)
	gs := sm.GeometrySystem

	config := GenerateHollowCylinderConfig(1, 0.9, 1, 4, "band")
	g, err := gs.AcquireFromConfig(config, true)
	if err != nil {
		t.Fatal(err)
	}
	if g.ID != 0 || g.InternalID == core.InvalidID || len(g.Surfaces) != 4 {
		t.Fatalf("geometry = %+v", g)
	}
	data := backend.Geometry(g.InternalID)
	if data == nil || data.Stride != 5 || data.VertexCount != 20 || len(data.Surfaces) != 4 {
		t.Fatalf("uploaded data = %+v", data)
	}
	for _, s := range g.Surfaces {
		if s.Material != sm.MaterialSystem.GetDefault() {
			t.Errorf("surface %s bound to %+v, want default", s.Name, s.Material)
		}
	}

	same, err := gs.AcquireByID(g.ID)
	if err != nil || same != g || gs.ReferenceCount(g.ID) != 2 {
		t.Fatalf("AcquireByID = %+v, %v (refs %d)", same, err, gs.ReferenceCount(g.ID))
	}
	gs.Release(g)
	if backend.Geometry(data.ID) == nil {
		t.Fatal("geometry destroyed while still referenced")
	}
	internalID := g.InternalID
	gs.Release(g)
	if backend.Geometry(internalID) != nil || g.ID != core.InvalidID {
		t.Error("geometry not destroyed after last release")
	}

	if _, err := gs.AcquireByID(7); !errors.Is(err, core.ErrInvalidGeometryID) {
		t.Errorf("AcquireByID(7) error = %v", err)
	}
}

func TestGeometrySystemCapacity(t *testing.T) {
	sm, _, _ := newTestManager(t, 1)
	config := GenerateCrossConfig(0.4, 0.7, 0.1, "cross")
	if _, err := sm.GeometrySystem.AcquireFromConfig(config, false); err != nil {
		t.Fatal(err)
	}
	if _, err := sm.GeometrySystem.AcquireFromConfig(config, false); !errors.Is(err, core.ErrGeometryCapacity) {
		t.Errorf("error = %v, want ErrGeometryCapacity", err)
	}
}

func TestCrownBuildRejectsInvalidConfig(t *testing.T) {
	sm, _, _ := newTestManager(t, 8)
	tests := []struct {
		name   string
		mutate func(c *metadata.CrownConfig)
		field  string
	}{
		{"inverted radii", func(c *metadata.CrownConfig) { c.Band.InnerRadius = 2 }, "band.outer_radius"},
		{"zero inner", func(c *metadata.CrownConfig) { c.Band.InnerRadius = 0 }, "band.inner_radius"},
		{"flat band", func(c *metadata.CrownConfig) { c.Band.Height = 0 }, "band.height"},
		{"too few sectors", func(c *metadata.CrownConfig) { c.Band.Sectors = 2 }, "band.sectors"},
		{"flat cross", func(c *metadata.CrownConfig) { c.Cross.Width = 0 }, "cross"},
		{"flat spikes", func(c *metadata.CrownConfig) { c.Spikes.Height = -1 }, "spikes"},
		{"unknown layout", func(c *metadata.CrownConfig) { c.VertexLayout = "rgba" }, "vertex_layout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := metadata.CrownConfigDefault()
			tt.mutate(&cfg)
			_, err := sm.CrownSystem.Build(cfg)
			if !errors.Is(err, core.ErrInvalidCrownConfig) {
				t.Fatalf("error = %v, want ErrInvalidCrownConfig", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestCrownBuildDefault(t *testing.T) {
	sm, _, _ := newTestManager(t, 8)
	cfg := metadata.CrownConfigDefault()
	mesh, err := sm.CrownSystem.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(mesh.Nodes), 2+int(cfg.Spikes.Count); got != want {
		t.Fatalf("nodes = %d, want %d", got, want)
	}
	if mesh.UniqueID != core.IdentifierFromName(cfg.Name).String() {
		t.Errorf("UniqueID = %s", mesh.UniqueID)
	}

	band := mesh.Node(CrownNodeBand)
	if band == nil || band.Config.VertexCount() != 4*37 {
		t.Fatalf("band = %+v", band)
	}
	wantMaterials := map[string]string{
		SurfaceOuter:  metadata.MaterialCrownOuter,
		SurfaceInner:  metadata.MaterialCrownInner,
		SurfaceTop:    metadata.MaterialCrownCap,
		SurfaceBottom: metadata.MaterialCrownCap,
	}
	for surface, material := range wantMaterials {
		if got := band.Config.Surface(surface).MaterialName; got != material {
			t.Errorf("%s material = %q, want %q", surface, got, material)
		}
	}

	cross := mesh.Node(CrownNodeCross)
	if cross == nil {
		t.Fatal("missing cross node")
	}
	wantCross := math.NewVec3(0, 0.6+0.35+0.55, 1.8)
	if !cross.Transform.Position.Compare(wantCross, tolerance) {
		t.Errorf("cross at %v, want %v", cross.Transform.Position, wantCross)
	}

	if m := sm.MaterialSystem.Acquire(metadata.MaterialCrownInner); m.DiffuseMapName != "heyy.jpg" {
		t.Errorf("inner material texture = %q, want heyy.jpg", m.DiffuseMapName)
	}
}

func TestCrownSpikesLandOnTheRim(t *testing.T) {
	sm, _, _ := newTestManager(t, 8)
	cfg := metadata.CrownConfigDefault()
	cfg.Spikes.Count = 6
	cfg.Spikes.Phase = 0
	mesh, err := sm.CrownSystem.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	radius := (cfg.Band.OuterRadius + cfg.Band.InnerRadius) / 2
	var shared *metadata.GeometryConfig
	for k := uint32(0); k < cfg.Spikes.Count; k++ {
		node := mesh.Node(CrownSpikeNodeName(k))
		if node == nil {
			t.Fatalf("missing %s", CrownSpikeNodeName(k))
		}
		if shared == nil {
			shared = node.Config
		} else if node.Config != shared {
			t.Errorf("%s does not share the spike config", node.Name)
		}

		world := node.Transform.GetWorld()
		base := math.NewVec3Zero().Transform(world)
		r := base.Sub(math.NewVec3(0, base.Y, 0)).Length()
		if !near(r, radius) || !near(base.Y, cfg.Band.Height/2) {
			t.Errorf("%s base at %v, radius %v", node.Name, base, r)
		}
		// The front face looks away from the axis.
		facing := math.NewVec3(0, 0, 1).TransformDirection(world)
		radial := math.NewVec3(base.X, 0, base.Z).Normalized()
		if !facing.Compare(radial, 1e-4) {
			t.Errorf("%s faces %v, want %v", node.Name, facing, radial)
		}
	}
}

func TestCrownWithoutCrossOrSpikes(t *testing.T) {
	sm, _, _ := newTestManager(t, 8)
	cfg := metadata.CrownConfigDefault()
	cfg.Cross.Enabled = false
	cfg.Spikes.Count = 0
	mesh, err := sm.CrownSystem.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Nodes) != 1 || mesh.Nodes[0].Name != CrownNodeBand {
		t.Errorf("nodes = %d", len(mesh.Nodes))
	}
}

func TestMeshSystemLoadDrawUnload(t *testing.T) {
	sm, r, backend := newTestManager(t, 8)
	mesh, err := sm.CrownSystem.Build(metadata.CrownConfigDefault())
	if err != nil {
		t.Fatal(err)
	}
	if err := sm.MeshSystem.Load(mesh); err != nil {
		t.Fatal(err)
	}

	spike := mesh.Node(CrownSpikeNodeName(0)).Geometry
	if spike == nil || spike != mesh.Node(CrownSpikeNodeName(1)).Geometry {
		t.Fatal("spike nodes should share one geometry")
	}
	if refs := sm.GeometrySystem.ReferenceCount(spike.ID); refs != 8 {
		t.Errorf("spike references = %d, want 8", refs)
	}

	if err := r.DrawFrame(&metadata.RenderPacket{Meshes: []*metadata.Mesh{mesh}}); err != nil {
		t.Fatal(err)
	}
	frame := backend.LastFrame()
	// band: 4 surfaces, cross: 1, spikes: 8 x 1
	if len(frame.Draws) != 13 {
		t.Fatalf("draws = %d, want 13", len(frame.Draws))
	}
	textures := map[string]string{}
	for _, d := range frame.Draws {
		textures[d.GeometryName+"/"+d.SurfaceName] = d.DiffuseMap
	}
	if textures["crown.band/outer"] != "goldi.jpg" || textures["crown.band/inner"] != "heyy.jpg" {
		t.Errorf("band textures = %v", textures)
	}

	spikeInternalID := spike.InternalID
	sm.MeshSystem.Unload(mesh)
	if backend.Geometry(spikeInternalID) != nil {
		t.Error("spike geometry still uploaded after unload")
	}
	for _, n := range mesh.Nodes {
		if n.Geometry != nil {
			t.Errorf("%s still holds a geometry", n.Name)
		}
	}
}
