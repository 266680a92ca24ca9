package systems

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spaghettifunk/anima-viewer/engine/assets"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

type TextureSystemConfig struct {
	/** @brief Largest width or height uploaded; bigger images are downscaled. 0 disables the limit. */
	MaxTextureSize int
}

/**
 * @brief TextureSystem uploads image files once per path and keeps them in
 * load order. Only LoadTexture touches the backend; prefetch jobs decode on
 * the job system and park the pixels until the next load of that path.
 */
type TextureSystem struct {
	Config *TextureSystemConfig
	// Loaded textures in load order.
	textures []*metadata.TextureRecord
	// Path to position in textures.
	textureTable map[string]int

	pendingMutex sync.Mutex
	pending      map[string]*metadata.ImageData
	inFlight     map[string]bool

	// sub systems
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
	context      *renderer.RenderContext
	tracker      *metadata.ResourceTracker
}

func NewTextureSystem(config *TextureSystemConfig, js *JobSystem, am *assets.AssetManager, ctx *renderer.RenderContext, tracker *metadata.ResourceTracker) (*TextureSystem, error) {
	if config == nil || config.MaxTextureSize < 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureSize must be >= 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:       config,
		textureTable: make(map[string]int),
		pending:      make(map[string]*metadata.ImageData),
		inFlight:     make(map[string]bool),
		jobSystem:    js,
		assetManager: am,
		context:      ctx,
		tracker:      tracker,
	}, nil
}

func textureKey(path string) string {
	return filepath.Clean(path)
}

/**
 * @brief Returns the texture for path, uploading it on first use.
 * A missing or undecodable file yields InvalidHandle and is not cached,
 * so a later call retries.
 */
func (ts *TextureSystem) Load(path string, kind metadata.TextureKind) (metadata.Handle, error) {
	key := textureKey(path)
	if idx, ok := ts.textureTable[key]; ok {
		return ts.textures[idx].Handle(), nil
	}

	if _, err := os.Stat(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// decoded pixels of a deleted file must not be uploaded later
			ts.takePending(key)
			core.LogError("texture file `%s` does not exist", path)
			return metadata.InvalidHandle, fmt.Errorf("texture `%s`: %w", path, core.ErrFileNotFound)
		}
		core.LogError("cannot access texture file `%s`: %s", path, err)
		return metadata.InvalidHandle, err
	}

	img := ts.takePending(key)
	if img == nil {
		asset, err := ts.assetManager.LoadAsset(key, metadata.AssetTypeImage, &metadata.ImageParams{FlipY: true, MaxSize: ts.Config.MaxTextureSize})
		if err != nil {
			core.LogError("failed to load texture `%s`: %s", path, err)
			return metadata.InvalidHandle, err
		}
		img = asset.Data.(*metadata.ImageData)
	}

	backend := ts.context.Backend()
	h := backend.CreateTexture(kind, img.Width, img.Height, img.Pixels)
	if !h.Valid() {
		err := fmt.Errorf("driver refused texture `%s`", path)
		core.LogError(err.Error())
		return metadata.InvalidHandle, err
	}

	record := &metadata.TextureRecord{
		Resource: ts.tracker.Acquire(metadata.ResourceKindTexture, h, backend.DeleteTexture),
		Path:     key,
		Kind:     kind,
		Width:    img.Width,
		Height:   img.Height,
	}
	ts.textureTable[key] = len(ts.textures)
	ts.textures = append(ts.textures, record)

	core.LogDebug("texture `%s` loaded (%dx%d, %s)", key, img.Width, img.Height, kind)
	return h, nil
}

/**
 * @brief Decodes the given files on the job system ahead of their upload.
 * Paths that are already uploaded or in flight are skipped. The returned
 * channel is closed once every submitted decode finished.
 */
func (ts *TextureSystem) Prefetch(paths ...string) <-chan struct{} {
	done := make(chan struct{})
	var wg sync.WaitGroup

	for _, path := range paths {
		key := textureKey(path)
		if _, ok := ts.textureTable[key]; ok {
			continue
		}
		ts.pendingMutex.Lock()
		_, parked := ts.pending[key]
		busy := ts.inFlight[key] || parked
		if !busy {
			ts.inFlight[key] = true
		}
		ts.pendingMutex.Unlock()
		if busy {
			continue
		}

		wg.Add(1)
		err := ts.jobSystem.Submit(metadata.JobTask{
			Name: "decode " + key,
			Run: func() (interface{}, error) {
				asset, err := ts.assetManager.LoadAsset(key, metadata.AssetTypeImage, &metadata.ImageParams{FlipY: true, MaxSize: ts.Config.MaxTextureSize})
				if err != nil {
					return nil, err
				}
				return asset.Data, nil
			},
			OnComplete: func(result interface{}) {
				ts.pendingMutex.Lock()
				ts.pending[key] = result.(*metadata.ImageData)
				ts.pendingMutex.Unlock()
			},
			OnCompletionCallback: func() {
				ts.pendingMutex.Lock()
				delete(ts.inFlight, key)
				ts.pendingMutex.Unlock()
				wg.Done()
			},
		})
		if err != nil {
			core.LogWarn("cannot prefetch `%s`: %s", key, err)
			ts.pendingMutex.Lock()
			delete(ts.inFlight, key)
			ts.pendingMutex.Unlock()
			wg.Done()
		}
	}

	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

func (ts *TextureSystem) takePending(key string) *metadata.ImageData {
	ts.pendingMutex.Lock()
	defer ts.pendingMutex.Unlock()
	img, ok := ts.pending[key]
	if !ok {
		return nil
	}
	delete(ts.pending, key)
	return img
}

// Pending reports how many decoded images wait for upload.
func (ts *TextureSystem) Pending() int {
	ts.pendingMutex.Lock()
	defer ts.pendingMutex.Unlock()
	return len(ts.pending)
}

func (ts *TextureSystem) Count() int {
	return len(ts.textures)
}

// At returns the i-th loaded texture or nil.
func (ts *TextureSystem) At(i int) *metadata.TextureRecord {
	if i < 0 || i >= len(ts.textures) {
		return nil
	}
	return ts.textures[i]
}

func (ts *TextureSystem) ByPath(path string) *metadata.TextureRecord {
	idx, ok := ts.textureTable[textureKey(path)]
	if !ok {
		return nil
	}
	return ts.textures[idx]
}

func (ts *TextureSystem) Names() []string {
	names := make([]string, len(ts.textures))
	for i, t := range ts.textures {
		names[i] = t.Path
	}
	return names
}

// Reset forgets every record. The driver objects are owned by the tracker.
func (ts *TextureSystem) Reset() {
	ts.textures = nil
	ts.textureTable = make(map[string]int)
	ts.pendingMutex.Lock()
	ts.pending = make(map[string]*metadata.ImageData)
	ts.pendingMutex.Unlock()
}
