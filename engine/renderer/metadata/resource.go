package metadata

/**
 * @brief Handle is an object name returned by the graphics driver.
 * A zero handle means "not allocated" and is never drawn with.
 */
type Handle uint32

const InvalidHandle Handle = 0

func (h Handle) Valid() bool {
	return h != InvalidHandle
}

// ResourceKind identifies the driver object type behind a handle.
// Declaration order is the release order used at teardown.
type ResourceKind uint8

const (
	ResourceKindBuffer ResourceKind = iota
	ResourceKindVertexArray
	ResourceKindProgram
	ResourceKindShader
	ResourceKindTexture
	resourceKindCount
)

var resourceKindNames = [resourceKindCount]string{
	ResourceKindBuffer:      "buffer",
	ResourceKindVertexArray: "vertex array",
	ResourceKindProgram:     "program",
	ResourceKindShader:      "shader",
	ResourceKindTexture:     "texture",
}

func (k ResourceKind) String() string {
	if k >= resourceKindCount {
		return "unknown"
	}
	return resourceKindNames[k]
}

// ReleaseFunc deletes the driver object behind a handle.
type ReleaseFunc func(Handle)

/**
 * @brief GPUResource owns one driver object. Release issues the matching
 * delete call exactly once; afterwards Handle reports InvalidHandle.
 */
type GPUResource struct {
	kind     ResourceKind
	handle   Handle
	release  ReleaseFunc
	released bool
}

func NewGPUResource(kind ResourceKind, handle Handle, release ReleaseFunc) *GPUResource {
	return &GPUResource{
		kind:    kind,
		handle:  handle,
		release: release,
	}
}

// Handle is nil-safe so records with a missing resource read as "not allocated".
func (r *GPUResource) Handle() Handle {
	if r == nil || r.released {
		return InvalidHandle
	}
	return r.handle
}

func (r *GPUResource) Kind() ResourceKind {
	return r.kind
}

func (r *GPUResource) Released() bool {
	return r == nil || r.released
}

// Release deletes the driver object. It reports whether a delete call was issued.
func (r *GPUResource) Release() bool {
	if r == nil || r.released {
		return false
	}
	r.released = true
	if r.handle.Valid() && r.release != nil {
		r.release(r.handle)
	}
	return true
}

/**
 * @brief ResourceTracker records every resource acquired by the resource
 * systems and tears them down in an order that is safe for the driver:
 * bindings are cleared first, then buffers, vertex arrays, programs, shader
 * stages and textures are released.
 */
type ResourceTracker struct {
	owned [resourceKindCount][]*GPUResource
}

func NewResourceTracker() *ResourceTracker {
	return &ResourceTracker{}
}

// Acquire wraps a freshly created handle and starts tracking it.
// A zero handle is not tracked and yields nil.
func (t *ResourceTracker) Acquire(kind ResourceKind, handle Handle, release ReleaseFunc) *GPUResource {
	if !handle.Valid() || kind >= resourceKindCount {
		return nil
	}
	r := NewGPUResource(kind, handle, release)
	t.owned[kind] = append(t.owned[kind], r)
	return r
}

// Count returns how many live resources of a kind are tracked.
func (t *ResourceTracker) Count(kind ResourceKind) int {
	if kind >= resourceKindCount {
		return 0
	}
	n := 0
	for _, r := range t.owned[kind] {
		if !r.Released() {
			n++
		}
	}
	return n
}

// ReleaseAll runs unbind, then releases every tracked resource once.
// It returns the number of delete calls issued.
func (t *ResourceTracker) ReleaseAll(unbind func()) int {
	if unbind != nil {
		unbind()
	}
	released := 0
	for kind := ResourceKind(0); kind < resourceKindCount; kind++ {
		for _, r := range t.owned[kind] {
			if r.Release() {
				released++
			}
		}
		t.owned[kind] = nil
	}
	return released
}
