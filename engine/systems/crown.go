package systems

import (
	"fmt"
	gomath "math"

	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/math"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/** @brief Node names of a built crown. Spikes are named spike.00, spike.01, ... */
const (
	CrownNodeBand  = "band"
	CrownNodeCross = "cross"
)

// CrownSpikeNodeName returns the node name of the k-th spike.
func CrownSpikeNodeName(k uint32) string {
	return fmt.Sprintf("spike.%02d", k)
}

type CrownSystem struct {
	materialSystem *MaterialSystem
	generation     uint8
}

func NewCrownSystem(ms *MaterialSystem) (*CrownSystem, error) {
	if ms == nil {
		err := fmt.Errorf("func NewCrownSystem - material system must not be nil")
		core.LogError("%s", err)
		return nil, err
	}
	return &CrownSystem{materialSystem: ms}, nil
}

func (cs *CrownSystem) Shutdown() error {
	return nil
}

/**
 * @brief Builds the geometry of a crown: the hollow band at the origin, the
 * cross above its front and the spikes around its rim.
 *
 * The crown materials are (re)registered with the diffuse maps named by the
 * config, so every surface resolves to a texture when drawn.
 *
 * @param cfg The crown description.
 * @return The crown mesh, or an error wrapping core.ErrInvalidCrownConfig.
 */
func (cs *CrownSystem) Build(cfg metadata.CrownConfig) (*metadata.Mesh, error) {
	clock := core.NewClock()
	clock.Start()

	if err := cfg.Validate(); err != nil {
		core.LogError("crown '%s' rejected: %s", cfg.Name, err)
		return nil, err
	}
	layout, err := metadata.ParseVertexLayout(cfg.VertexLayout)
	if err != nil {
		return nil, err
	}
	if err := cs.registerMaterials(cfg.Materials); err != nil {
		return nil, err
	}

	cs.generation++
	mesh := &metadata.Mesh{
		UniqueID:   core.IdentifierFromName(cfg.Name).String(),
		Name:       cfg.Name,
		Generation: cs.generation,
	}

	band := cfg.Band
	bandConfig := GenerateHollowCylinderConfig(band.OuterRadius, band.InnerRadius, band.Height, band.Sectors, cfg.Name+"."+CrownNodeBand)
	bandConfig.Layout = layout
	bindMaterial(bandConfig, SurfaceOuter, metadata.MaterialCrownOuter)
	bindMaterial(bandConfig, SurfaceInner, metadata.MaterialCrownInner)
	bindMaterial(bandConfig, SurfaceTop, metadata.MaterialCrownCap)
	bindMaterial(bandConfig, SurfaceBottom, metadata.MaterialCrownCap)
	mesh.AddNode(CrownNodeBand, bandConfig, nil)

	halfHeight := band.Height * 0.5

	if cfg.Cross.Enabled {
		cross := cfg.Cross
		crossConfig := GenerateCrossConfig(cross.Width, cross.Height, cross.Thickness, cfg.Name+"."+CrownNodeCross)
		crossConfig.Layout = layout
		bindMaterial(crossConfig, SurfaceCross, metadata.MaterialCrownCross)

		position := math.NewVec3(0, halfHeight+cross.Height*0.5, 0).
			Add(math.NewVec3(cross.Offset[0], cross.Offset[1], cross.Offset[2]))
		mesh.AddNode(CrownNodeCross, crossConfig, math.TransformFromPosition(position))
	}

	if spikes := cfg.Spikes; spikes.Count > 0 {
		// One config shared by every spike node; each node only differs by its transform.
		spikeConfig := GenerateSpikeConfig(spikes.Width, spikes.Height, spikes.Thickness, cfg.Name+".spike")
		spikeConfig.Layout = layout
		bindMaterial(spikeConfig, SurfaceSpike, metadata.MaterialCrownSpike)

		radius := (band.OuterRadius + band.InnerRadius) * 0.5
		for k := uint32(0); k < spikes.Count; k++ {
			transform := CrownSpikeTransform(k, spikes.Count, spikes.Phase, radius, halfHeight)
			mesh.AddNode(CrownSpikeNodeName(k), spikeConfig, transform)
		}
	}

	clock.Update()
	vertices, indices := mesh.Counts()
	core.MetricsBuild(clock.Elapsed(), vertices, indices)
	clock.Stop()

	core.LogInfo("Built crown '%s': %d nodes, %d vertices, %d indices in %s.", cfg.Name, len(mesh.Nodes), vertices, indices, clock.Elapsed())
	return mesh, nil
}

/**
 * @brief Places spike k of count on a ring of the given radius at height y.
 * The spike is turned about Y so its +Z face looks away from the axis.
 */
func CrownSpikeTransform(k, count uint32, phaseDegrees, radius, y float32) *math.Transform {
	angle := float64(k)*(2*gomath.Pi/float64(count)) + float64(math.DegToRad(phaseDegrees))
	position := math.NewVec3(radius*math.Cos(angle), y, radius*math.Sin(angle))
	yaw := float32(gomath.Pi/2 - angle)
	return math.TransformFromPositionRotation(position, math.NewVec3(0, yaw, 0))
}

func (cs *CrownSystem) registerMaterials(materials metadata.CrownMaterials) error {
	configs := []metadata.MaterialConfig{
		{Name: metadata.MaterialCrownOuter, DiffuseMapName: materials.Outer},
		{Name: metadata.MaterialCrownInner, DiffuseMapName: materials.Inner},
		{Name: metadata.MaterialCrownCap, DiffuseMapName: materials.Cap},
		{Name: metadata.MaterialCrownCross, DiffuseMapName: materials.Cross},
		{Name: metadata.MaterialCrownSpike, DiffuseMapName: materials.Spike},
	}
	for _, c := range configs {
		c.DiffuseColour = math.NewVec3One()
		if _, err := cs.materialSystem.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func bindMaterial(config *metadata.GeometryConfig, surface, material string) {
	if s := config.Surface(surface); s != nil {
		s.MaterialName = material
	}
}
