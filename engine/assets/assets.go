package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/crown/engine/assets/loaders"
	"github.com/spaghettifunk/crown/engine/core"
	"github.com/spaghettifunk/crown/engine/renderer/metadata"
)

/** @brief How long a watched file has to stay quiet before a reload is reported. */
const DefaultDebounce = 150 * time.Millisecond

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

/**
 * @brief Reported by Watch once a watched file settled after a change.
 */
type AssetEvent struct {
	Path string
	Type metadata.ResourceType
	/** @brief Every operation seen since the previous event. */
	Op   fsnotify.Op
	Time time.Time
}

type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	Debounce time.Duration

	fsnotify *fsnotify.Watcher
	isClosed bool
	watching bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		Debounce: DefaultDebounce,
		fsnotify: fsWatch,
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypeCrown, &loaders.CrownLoader{})
	am.registerLoader(metadata.ResourceTypeMesh, &loaders.BinaryLoader{})
	return am, nil
}

// Initialize indexes every known asset below assetsDir.
func (am *AssetManager) Initialize(assetsDir string) error {
	if am.isClosed {
		return errors.New("asset manager already shut down")
	}
	return filepath.Walk(assetsDir, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	return am.fsnotify.Close()
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Assets returns the indexed assets of the given type.
func (am *AssetManager) Assets(assetType metadata.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	out := []AssetInfo{}
	for _, a := range am.assets {
		if a.Type == assetType {
			out = append(out, a)
		}
	}
	return out
}

// Load an asset using the loader registered for its extension
func (am *AssetManager) LoadAsset(path string, params interface{}) (*metadata.Resource, error) {
	assetType := DetermineAssetType(path)
	loader, loaderExists := am.loaders[assetType]
	if !loaderExists {
		err := fmt.Errorf("no loader registered for asset '%s' (type %d): %w", path, assetType, core.ErrInvalidResource)
		core.LogError("%s", err)
		return nil, err
	}

	res, err := loader.Load(path, assetType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[path] = AssetInfo{Path: path, Type: assetType, LastLoaded: time.Now()}
	am.mutex.Unlock()
	return res, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	if asset == nil {
		return core.ErrInvalidResource
	}
	loader, ok := am.loaders[asset.Type]
	if !ok {
		return fmt.Errorf("no loader registered for type %d: %w", asset.Type, core.ErrInvalidResource)
	}
	return loader.Unload(asset)
}

/**
 * @brief Watches a single file and reports an event each time it was created
 * or written and then stayed untouched for Debounce. The directory is watched
 * rather than the file, so editors that replace the file on save are seen too.
 *
 * The returned channel is closed once ctx is done. Only one Watch may be
 * active per manager.
 */
func (am *AssetManager) Watch(ctx context.Context, path string) (<-chan AssetEvent, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil, errors.New("asset manager already shut down")
	}
	if am.watching {
		am.mutex.Unlock()
		return nil, errors.New("asset manager is already watching")
	}
	am.watching = true
	am.mutex.Unlock()

	dir := filepath.Dir(target)
	if err := am.fsnotify.Add(dir); err != nil {
		am.mutex.Lock()
		am.watching = false
		am.mutex.Unlock()
		core.LogError("failed to watch '%s': %s", dir, err)
		return nil, err
	}
	core.LogInfo("Watching '%s' for changes.", target)

	out := make(chan AssetEvent, 1)
	go am.watch(ctx, target, dir, out)
	return out, nil
}

func (am *AssetManager) watch(ctx context.Context, target, dir string, out chan<- AssetEvent) {
	defer func() {
		// The watcher may already be closed by Shutdown.
		_ = am.fsnotify.Remove(dir)
		am.mutex.Lock()
		am.watching = false
		am.mutex.Unlock()
		close(out)
	}()

	timer := time.NewTimer(am.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var pending fsnotify.Op

	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(e.Name)
			if err != nil || name != target {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			core.LogDebug("asset event %s on '%s'", e.Op, e.Name)
			pending |= e.Op
			timer.Reset(am.Debounce)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-timer.C:
			am.handleFileEvent(target)
			event := AssetEvent{Path: target, Type: DetermineAssetType(target), Op: pending, Time: time.Now()}
			pending = 0
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	assetType := DetermineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
}

func DetermineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case ".toml":
		return metadata.ResourceTypeCrown
	case ".crm":
		return metadata.ResourceTypeMesh
	case ".png", ".jpg":
		return metadata.ResourceTypeImage
	default:
		return metadata.ResourceTypeNone
	}
}
