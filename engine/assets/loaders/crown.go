package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/** @brief Loads a crown description from a TOML file. */
type CrownLoader struct{}

func (cl *CrownLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		core.LogError("failed to read crown config '%s': %s", path, err)
		return nil, err
	}

	cfg, err := ParseCrownConfig(bytes.NewReader(data))
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		core.LogError("%s", err)
		return nil, err
	}

	return &metadata.Resource{
		Name:     cfg.Name,
		FullPath: path,
		Type:     metadata.ResourceTypeCrown,
		DataSize: uint64(len(data)),
		Data:     &cfg,
	}, nil
}

func (cl *CrownLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return core.ErrInvalidResource
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

/**
 * @brief Decodes a crown description on top of CrownConfigDefault, so a file
 * only has to name what it changes. Unknown keys are rejected.
 *
 * @param r The TOML document.
 * @return The decoded config or an error wrapping core.ErrInvalidCrownConfig.
 */
func ParseCrownConfig(r io.Reader) (metadata.CrownConfig, error) {
	cfg := metadata.CrownConfigDefault()

	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var decodeErr *toml.DecodeError
		var strictErr *toml.StrictMissingError
		switch {
		case errors.As(err, &decodeErr):
			row, col := decodeErr.Position()
			return cfg, fmt.Errorf("%w: line %d column %d: %s", core.ErrInvalidCrownConfig, row, col, decodeErr.Error())
		case errors.As(err, &strictErr):
			return cfg, fmt.Errorf("%w: unknown keys:\n%s", core.ErrInvalidCrownConfig, strictErr.String())
		default:
			return cfg, fmt.Errorf("%w: %s", core.ErrInvalidCrownConfig, err)
		}
	}
	return cfg, nil
}
