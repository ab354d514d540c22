// Package scene loads the 3D scene stand-ins that guide steps place on the
// stage. A scene is a YAML descriptor naming an entity tree and the
// notification triggers it exposes.
//
// Built-in scenes are embedded in the binary. A user assets directory can be
// layered on top, so a file there with the same name replaces the built-in.
package scene

import (
	"context"
	"embed"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/logging"
)

// Ext is the scene descriptor file extension.
const Ext = ".yaml"

// DefaultPreloadWorkers bounds concurrent loads in Preload.
const DefaultPreloadWorkers = 4

//go:embed scenes/*.yaml
var builtinScenes embed.FS

// BuiltinFs returns the embedded scenes as a read-only afero filesystem.
func BuiltinFs() afero.Fs {
	sub, err := fs.Sub(builtinScenes, "scenes")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return afero.NewReadOnlyFs(afero.FromIOFS{FS: sub})
}

// Library resolves scene names to descriptors. It is safe for concurrent use.
type Library struct {
	fs      afero.Fs
	sources []afero.Fs
	workers int
	logger  *logging.Logger

	mu    sync.Mutex
	cache map[string]*Descriptor
}

// Option configures a Library.
type Option func(*Library)

// WithWorkers sets the Preload concurrency.
func WithWorkers(n int) Option {
	return func(l *Library) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets the library logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Library) { l.logger = logger }
}

// NewLibrary creates a library reading descriptors from fsys.
func NewLibrary(fsys afero.Fs, opts ...Option) *Library {
	l := &Library{
		fs:      fsys,
		sources: []afero.Fs{fsys},
		workers: DefaultPreloadWorkers,
		logger:  logging.NopLogger(),
		cache:   make(map[string]*Descriptor),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewDefaultLibrary creates a library over the built-in scenes, overlaid by
// assetsDir when it names an existing directory.
func NewDefaultLibrary(assetsDir string, opts ...Option) *Library {
	base := BuiltinFs()
	if assetsDir == "" {
		return NewLibrary(base, opts...)
	}
	info, err := os.Stat(assetsDir)
	if err != nil || !info.IsDir() {
		l := NewLibrary(base, opts...)
		l.logger.Warn("assets directory unavailable, using built-in scenes", "dir", assetsDir)
		return l
	}

	user := afero.NewBasePathFs(afero.NewOsFs(), assetsDir)
	l := NewLibrary(afero.NewCopyOnWriteFs(base, user), opts...)
	l.sources = []afero.Fs{base, user}
	return l
}

// Names lists every scene the library can load, sorted.
func (l *Library) Names() ([]string, error) {
	set := make(map[string]bool)
	for _, src := range l.sources {
		entries, err := afero.ReadDir(src, ".")
		if err != nil {
			return nil, errors.Wrap(err, "listing scenes")
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
				continue
			}
			set[strings.TrimSuffix(e.Name(), Ext)] = true
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Describe returns the parsed descriptor for name.
func (l *Library) Describe(name string) (*Descriptor, error) {
	l.mu.Lock()
	if d, ok := l.cache[name]; ok {
		l.mu.Unlock()
		return d, nil
	}
	l.mu.Unlock()

	d, err := l.read(name)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[name] = d
	l.mu.Unlock()
	return d, nil
}

func (l *Library) read(name string) (*Descriptor, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return nil, errors.NewAssetError("invalid scene name", errors.ErrAssetNotFound).WithScene(name)
	}
	file := path.Clean(name + Ext)

	data, err := afero.ReadFile(l.fs, file)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewAssetError("loading scene", errors.ErrAssetNotFound).
				WithScene(name).
				WithPath(file)
		}
		return nil, errors.NewAssetError("reading scene", errors.Join(errors.ErrAssetLoadFailed, err)).
			WithScene(name).
			WithPath(file).
			WithRetryable(true)
	}

	d, err := parseDescriptor(data, name)
	if err != nil {
		return nil, errors.NewAssetError("parsing scene", errors.Join(errors.ErrAssetLoadFailed, err)).
			WithScene(name).
			WithPath(file)
	}
	return d, nil
}

// LoadScene returns a fresh handle for the named scene. Each call creates a
// new handle, so collision state and trigger counts are per load.
func (l *Library) LoadScene(name string) (*Handle, error) {
	d, err := l.Describe(name)
	if err != nil {
		l.logger.Warn("scene load failed", "scene", name, "error", err.Error())
		return nil, err
	}
	l.logger.Debug("scene loaded", "scene", name)
	return newHandle(d), nil
}

// Preload parses every named scene concurrently so later loads hit the
// cache. A read that fails with a retryable error is tried once more. All
// failures are returned joined.
func (l *Library) Preload(ctx context.Context, names []string) error {
	p := pool.New().WithMaxGoroutines(l.workers).WithErrors().WithContext(ctx)
	for _, name := range dedupe(names) {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := l.Describe(name)
			if errors.IsRetryable(err) {
				l.logger.Debug("retrying scene read", "scene", name, "error", err.Error())
				_, err = l.Describe(name)
			}
			return err
		})
	}
	return p.Wait()
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
