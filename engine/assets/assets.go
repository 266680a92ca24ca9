package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-viewer/engine/assets/loaders"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

const eventBufferSize = 64

type AssetInfo struct {
	Path       string
	Type       metadata.AssetType
	LastSeen   time.Time
	LastLoaded time.Time
}

type AssetOp int

const (
	AssetCreated AssetOp = iota
	AssetModified
	AssetRemoved
)

func (op AssetOp) String() string {
	switch op {
	case AssetCreated:
		return "created"
	case AssetModified:
		return "modified"
	case AssetRemoved:
		return "removed"
	}
	return "unknown"
}

// AssetEvent reports a change of a cataloged file.
type AssetEvent struct {
	Path string
	Type metadata.AssetType
	Op   AssetOp
}

/**
 * @brief AssetManager catalogs the files under the asset root by type,
 * keeps the catalog current through fsnotify and dispatches loads to the
 * registered loaders.
 */
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.AssetType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	events   chan AssetEvent
}

func NewAssetManager(maxTextureSize int) *AssetManager {
	am := &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.AssetType]Loader),
		events:  make(chan AssetEvent, eventBufferSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	// Register loaders
	am.registerLoader(metadata.AssetTypeShader, &loaders.ShaderLoader{})
	am.registerLoader(metadata.AssetTypeImage, &loaders.TextureLoader{MaxSize: maxTextureSize})
	am.registerLoader(metadata.AssetTypeModel, &loaders.ModelLoader{})

	return am
}

// Initialize catalogs assetsDir recursively and starts watching it.
func (am *AssetManager) Initialize(assetsDir string) error {
	am.mutex.RLock()
	closed := am.isClosed
	am.mutex.RUnlock()
	if closed {
		return ErrClosed
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.fsnotify = fsWatch

	if err := am.watchRecursive(assetsDir); err != nil {
		fsWatch.Close()
		am.fsnotify = nil
		return err
	}
	go am.start()

	core.LogInfo("asset catalog initialized with %d files under `%s`", am.Count(), assetsDir)
	return nil
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	if am.fsnotify == nil {
		return nil
	}
	close(am.done)
	<-am.stopped
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.AssetType, loader Loader) {
	am.loaders[assetType] = loader
}

// Events delivers catalog changes. Events are dropped when nobody drains the channel.
func (am *AssetManager) Events() <-chan AssetEvent {
	return am.events
}

func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

func (am *AssetManager) Has(path string) bool {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	_, ok := am.assets[filepath.Clean(path)]
	return ok
}

// List returns the cataloged paths of one type in lexical order.
func (am *AssetManager) List(assetType metadata.AssetType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	var out []string
	for path, info := range am.assets {
		if info.Type == assetType {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

/**
 * @brief Loads a file with the loader registered for its type.
 * The file does not need to be cataloged: a file created after the last
 * scan loads as well.
 */
func (am *AssetManager) LoadAsset(path string, assetType metadata.AssetType, params interface{}) (*metadata.Asset, error) {
	if assetType == metadata.AssetTypeNone {
		assetType = metadata.AssetTypeFromPath(path)
	}
	loader, ok := am.loaders[assetType]
	if !ok {
		return nil, fmt.Errorf("no loader registered for asset type %s: %w", assetType, core.ErrUnsupportedFormat)
	}

	asset, err := loader.Load(path, params)
	if err != nil {
		return nil, err
	}

	clean := filepath.Clean(path)
	am.mutex.Lock()
	if info, ok := am.assets[clean]; ok {
		info.LastLoaded = time.Now()
		am.assets[clean] = info
	}
	am.mutex.Unlock()
	return asset, nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			if err := am.fsnotify.Close(); err != nil {
				core.LogError(err.Error())
			}
			close(am.events)
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	if e.Op&fsnotify.Create != 0 {
		if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
			if err := am.watchRecursive(e.Name); err != nil {
				core.LogWarn("failed to watch `%s`: %s", e.Name, err)
			}
			return
		}
	}

	switch {
	case e.Op&fsnotify.Create != 0:
		if t, ok := am.handleFileEvent(e.Name); ok {
			am.notify(AssetEvent{Path: filepath.Clean(e.Name), Type: t, Op: AssetCreated})
		}
	case e.Op&fsnotify.Write != 0:
		if t, ok := am.handleFileEvent(e.Name); ok {
			am.notify(AssetEvent{Path: filepath.Clean(e.Name), Type: t, Op: AssetModified})
		}
	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if t, ok := am.removeAsset(e.Name); ok {
			am.notify(AssetEvent{Path: filepath.Clean(e.Name), Type: t, Op: AssetRemoved})
		}
	}
}

// notify never blocks the watcher goroutine.
func (am *AssetManager) notify(e AssetEvent) {
	select {
	case am.events <- e:
	default:
		core.LogWarn("asset event queue full, dropping %s event for `%s`", e.Op, e.Path)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and catalogs the files found on the way.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (metadata.AssetType, bool) {
	assetType := metadata.AssetTypeFromPath(path)
	if assetType == metadata.AssetTypeNone {
		return assetType, false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	clean := filepath.Clean(path)
	info := am.assets[clean]
	info.Path = clean
	info.Type = assetType
	info.LastSeen = time.Now()
	am.assets[clean] = info
	return assetType, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) (metadata.AssetType, bool) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	clean := filepath.Clean(path)
	info, ok := am.assets[clean]
	if !ok {
		// may have been a directory; fsnotify drops removed watches itself
		return metadata.AssetTypeNone, false
	}
	delete(am.assets, clean)
	return info.Type, true
}

// ErrClosed is returned when the manager was shut down.
var ErrClosed = errors.New("asset manager already closed")
