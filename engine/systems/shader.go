package systems

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/anima-viewer/engine/assets"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
)

/**
 * @brief ShaderSystem compiles every stage file once and links programs
 * under unique names. Programs are kept in load order.
 */
type ShaderSystem struct {
	// Compiled stages keyed by source path.
	stages map[string]*metadata.ShaderStageRecord
	// Linked programs in load order.
	programs []*metadata.ProgramInfo
	// A lookup table for program name -> position in programs.
	lookup map[string]int
	// sub systems
	assetManager *assets.AssetManager
	context      *renderer.RenderContext
	tracker      *metadata.ResourceTracker
}

func NewShaderSystem(am *assets.AssetManager, ctx *renderer.RenderContext, tracker *metadata.ResourceTracker) (*ShaderSystem, error) {
	if ctx == nil || tracker == nil {
		err := fmt.Errorf("NewShaderSystem - a render context and a resource tracker are required")
		core.LogError(err.Error())
		return nil, err
	}
	return &ShaderSystem{
		stages:       make(map[string]*metadata.ShaderStageRecord),
		lookup:       make(map[string]int),
		assetManager: am,
		context:      ctx,
		tracker:      tracker,
	}, nil
}

/**
 * @brief Compiles the stage at path, or returns the cached one.
 * A stage that fails to compile is cached with Compiled false; its handle
 * is returned along with an ErrCompileFailed error.
 */
func (ss *ShaderSystem) LoadStage(path string, kind metadata.ShaderStageKind) (metadata.Handle, error) {
	key := filepath.Clean(path)
	if s, ok := ss.stages[key]; ok {
		if s.Kind != kind {
			core.LogWarn("shader `%s` was compiled as %s, requested as %s", key, s.Kind, kind)
		}
		return s.Handle(), nil
	}

	if _, err := os.Stat(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			core.LogError("shader file `%s` does not exist", path)
			return metadata.InvalidHandle, fmt.Errorf("shader `%s`: %w", path, core.ErrFileNotFound)
		}
		core.LogError("cannot access shader file `%s`: %s", path, err)
		return metadata.InvalidHandle, err
	}
	asset, err := ss.assetManager.LoadAsset(key, metadata.AssetTypeShader, nil)
	if err != nil {
		core.LogError("failed to read shader `%s`: %s", path, err)
		return metadata.InvalidHandle, err
	}

	backend := ss.context.Backend()
	h := backend.CreateShader(kind)
	if !h.Valid() {
		err := fmt.Errorf("driver refused a %s shader for `%s`", kind, path)
		core.LogError(err.Error())
		return metadata.InvalidHandle, err
	}
	compiled, infoLog := backend.CompileShader(h, asset.Data.(string))

	ss.stages[key] = &metadata.ShaderStageRecord{
		Resource: ss.tracker.Acquire(metadata.ResourceKindShader, h, backend.DeleteShader),
		Path:     key,
		Kind:     kind,
		Compiled: compiled,
		InfoLog:  infoLog,
	}
	if !compiled {
		core.LogWarn("%s shader `%s` failed to compile:\n%s", kind, key, infoLog)
		return h, fmt.Errorf("shader `%s`: %w", key, core.ErrCompileFailed)
	}
	if infoLog != "" {
		core.LogWarn("%s shader `%s`: %s", kind, key, infoLog)
	}
	return h, nil
}

// resolveName returns the storage name for a new program.
func (ss *ShaderSystem) resolveName(name string) (string, error) {
	if name != "" {
		if _, taken := ss.lookup[name]; taken {
			return "", fmt.Errorf("program `%s`: %w", name, core.ErrDuplicateName)
		}
		return name, nil
	}
	for n := len(ss.programs); ; n++ {
		candidate := fmt.Sprintf("program %d", n)
		if _, taken := ss.lookup[candidate]; !taken {
			return candidate, nil
		}
	}
}

/**
 * @brief Links the given stages into a program stored under name.
 * An empty name is replaced by "program N". A missing stage file aborts
 * before any program object exists. A program that fails to link is still
 * stored, with Linked false, and its handle comes back with ErrLinkFailed.
 */
func (ss *ShaderSystem) LoadProgram(stages []metadata.ShaderStageSource, name string) (metadata.Handle, error) {
	resolved, err := ss.resolveName(name)
	if err != nil {
		core.LogError(err.Error())
		return metadata.InvalidHandle, err
	}
	if len(stages) == 0 {
		err := fmt.Errorf("program `%s` has no stages: %w", resolved, core.ErrInvalidConfig)
		core.LogError(err.Error())
		return metadata.InvalidHandle, err
	}

	records := make([]*metadata.ShaderStageRecord, 0, len(stages))
	for _, st := range stages {
		if _, err := ss.LoadStage(st.Path, st.Kind); err != nil && !errors.Is(err, core.ErrCompileFailed) {
			core.LogError("program `%s` not created: %s", resolved, err)
			return metadata.InvalidHandle, err
		}
		records = append(records, ss.stages[filepath.Clean(st.Path)])
	}

	backend := ss.context.Backend()
	h := backend.CreateProgram()
	if !h.Valid() {
		err := fmt.Errorf("driver refused program `%s`", resolved)
		core.LogError(err.Error())
		return metadata.InvalidHandle, err
	}
	for _, r := range records {
		backend.AttachShader(h, r.Handle())
	}
	linked, infoLog := backend.LinkProgram(h)

	ctx := ss.context
	program := &metadata.ProgramInfo{
		Resource: ss.tracker.Acquire(metadata.ResourceKindProgram, h, func(p metadata.Handle) {
			ctx.Forget(p)
			backend.DeleteProgram(p)
		}),
		Name:    resolved,
		Stages:  records,
		Linked:  linked,
		InfoLog: infoLog,
	}
	ss.lookup[resolved] = len(ss.programs)
	ss.programs = append(ss.programs, program)

	if !linked {
		core.LogWarn("program `%s` failed to link:\n%s", resolved, infoLog)
		return h, fmt.Errorf("program `%s`: %w", resolved, core.ErrLinkFailed)
	}
	core.LogDebug("program `%s` linked from %d stages", resolved, len(records))
	return h, nil
}

func (ss *ShaderSystem) StageByPath(path string) *metadata.ShaderStageRecord {
	return ss.stages[filepath.Clean(path)]
}

func (ss *ShaderSystem) Count() int {
	return len(ss.programs)
}

func (ss *ShaderSystem) At(i int) *metadata.ProgramInfo {
	if i < 0 || i >= len(ss.programs) {
		return nil
	}
	return ss.programs[i]
}

func (ss *ShaderSystem) ByName(name string) *metadata.ProgramInfo {
	idx, ok := ss.lookup[name]
	if !ok {
		return nil
	}
	return ss.programs[idx]
}

func (ss *ShaderSystem) Names() []string {
	names := make([]string, len(ss.programs))
	for i, p := range ss.programs {
		names[i] = p.Name
	}
	return names
}

// Reset forgets every record. The driver objects are owned by the tracker.
func (ss *ShaderSystem) Reset() {
	ss.stages = make(map[string]*metadata.ShaderStageRecord)
	ss.programs = nil
	ss.lookup = make(map[string]int)
}
