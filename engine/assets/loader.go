package assets

import "github.com/spaghettifunk/crown/engine/renderer/metadata"

type Loader interface {
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) // `interface{}` here allows loaders to take loader specific options
	Unload(*metadata.Resource) error
}
