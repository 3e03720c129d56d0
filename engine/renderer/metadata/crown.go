package metadata

import (
	"fmt"

	"github.com/spaghettifunk/crown/engine/core"
)

/**
 * @brief Dimensions of the hollow band of the crown.
 */
type BandConfig struct {
	OuterRadius float32 `toml:"outer_radius"`
	InnerRadius float32 `toml:"inner_radius"`
	Height      float32 `toml:"height"`
	/** @brief Angular subdivisions of the band. */
	Sectors uint32 `toml:"sectors"`
}

/**
 * @brief The cross standing on top of the band.
 */
type CrossConfig struct {
	Enabled   bool    `toml:"enabled"`
	Width     float32 `toml:"width"`
	Height    float32 `toml:"height"`
	Thickness float32 `toml:"thickness"`
	/** @brief Added to the resting position (0, band height/2 + cross height/2, 0). */
	Offset [3]float32 `toml:"offset"`
}

/**
 * @brief The decorative spikes around the rim.
 */
type SpikeConfig struct {
	Count     uint32  `toml:"count"`
	Width     float32 `toml:"width"`
	Height    float32 `toml:"height"`
	Thickness float32 `toml:"thickness"`
	/** @brief Angle of the first spike, in degrees. */
	Phase float32 `toml:"phase"`
}

/**
 * @brief Diffuse texture names per crown part.
 */
type CrownMaterials struct {
	Outer string `toml:"outer"`
	Inner string `toml:"inner"`
	Cap   string `toml:"cap"`
	Cross string `toml:"cross"`
	Spike string `toml:"spike"`
}

/**
 * @brief Full description of a crown, usually loaded from a TOML file.
 */
type CrownConfig struct {
	Name         string         `toml:"name"`
	VertexLayout string         `toml:"vertex_layout"`
	Band         BandConfig     `toml:"band"`
	Cross        CrossConfig    `toml:"cross"`
	Spikes       SpikeConfig    `toml:"spikes"`
	Materials    CrownMaterials `toml:"materials"`
}

// CrownConfigDefault returns the reference crown: a 36 sector band
// with radii 1.2/1.1 and height 1.2, a 0.4 x 0.7 cross in front of it, and
// eight spikes around the rim.
func CrownConfigDefault() CrownConfig {
	return CrownConfig{
		Name:         "crown",
		VertexLayout: DefaultVertexLayout.String(),
		Band: BandConfig{
			OuterRadius: 1.2,
			InnerRadius: 1.1,
			Height:      1.2,
			Sectors:     36,
		},
		Cross: CrossConfig{
			Enabled:   true,
			Width:     0.4,
			Height:    0.7,
			Thickness: 0.1,
			Offset:    [3]float32{0, 0.55, 1.8},
		},
		Spikes: SpikeConfig{
			Count:     8,
			Width:     0.25,
			Height:    0.4,
			Thickness: 0.05,
			Phase:     22.5,
		},
		Materials: CrownMaterials{
			Outer: "goldi.jpg",
			Inner: "heyy.jpg",
			Cap:   "goldi.jpg",
			Cross: "goldi.jpg",
			Spike: "goldi.jpg",
		},
	}
}

func invalidCrown(field string, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s %s", core.ErrInvalidCrownConfig, field, fmt.Sprintf(format, args...))
}

// Validate checks the geometric preconditions the generators rely on.
func (c *CrownConfig) Validate() error {
	if c.Name == "" {
		return invalidCrown("name", "must not be empty")
	}
	if _, err := ParseVertexLayout(c.VertexLayout); err != nil {
		return invalidCrown("vertex_layout", "%s", err.Error())
	}

	b := c.Band
	if b.InnerRadius <= 0 {
		return invalidCrown("band.inner_radius", "must be > 0, got %v", b.InnerRadius)
	}
	if b.OuterRadius <= b.InnerRadius {
		return invalidCrown("band.outer_radius", "must be > inner_radius (%v), got %v", b.InnerRadius, b.OuterRadius)
	}
	if b.Height <= 0 {
		return invalidCrown("band.height", "must be > 0, got %v", b.Height)
	}
	if b.Sectors < 3 {
		return invalidCrown("band.sectors", "must be >= 3, got %d", b.Sectors)
	}

	if c.Cross.Enabled {
		if c.Cross.Width <= 0 || c.Cross.Height <= 0 || c.Cross.Thickness <= 0 {
			return invalidCrown("cross", "width, height and thickness must be > 0")
		}
	}

	if c.Spikes.Count > 0 {
		if c.Spikes.Width <= 0 || c.Spikes.Height <= 0 || c.Spikes.Thickness <= 0 {
			return invalidCrown("spikes", "width, height and thickness must be > 0")
		}
	}
	return nil
}
