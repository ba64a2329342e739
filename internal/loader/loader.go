package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/specialistvlad/algogrid/internal/ctxlog"
	"github.com/specialistvlad/algogrid/internal/fsutil"
	"github.com/specialistvlad/algogrid/internal/mapfile"
	"github.com/specialistvlad/algogrid/internal/registry"
)

// ErrUnsupportedSource is returned for a source whose extension no loader
// handles.
var ErrUnsupportedSource = errors.New("unsupported source type")

// Loader loads source files into a registry.
type Loader struct {
	reg *registry.Registry

	mu     sync.Mutex
	loaded map[string]error
}

// New creates a Loader that registers into reg.
func New(reg *registry.Registry) *Loader {
	return &Loader{reg: reg, loaded: make(map[string]error)}
}

// Load implements module.Loader. A directory path loads every .lua and .so
// file below it.
func (l *Loader) Load(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return l.loadDir(ctx, abs)
	}
	return l.loadOnce(ctx, abs)
}

// loadDir loads every source file below dir in lexical order, stopping at
// the first failure. Callers must hold l.mu.
func (l *Loader) loadDir(ctx context.Context, dir string) error {
	files, err := fsutil.FindFilesByExtension(dir, sourceExtensions...)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%s: %w: directory has no %s files", dir, ErrUnsupportedSource, strings.Join(sourceExtensions, " or "))
	}
	for _, f := range files {
		if err := l.loadOnce(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// loadOnce loads a single file unless its outcome is already known. Callers
// must hold l.mu.
func (l *Loader) loadOnce(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)

	if err, ok := l.loaded[path]; ok {
		logger.Debug("Source already loaded.", "path", path, "failed", err != nil)
		return err
	}

	err := l.load(ctx, path)
	l.loaded[path] = err
	if err != nil {
		logger.Debug("Source failed to load.", "path", path, "error", err)
		return err
	}
	logger.Debug("Source loaded.", "path", path, "registered_total", l.reg.Len())
	return nil
}

var sourceExtensions = []string{".lua", ".so"}

func (l *Loader) load(ctx context.Context, path string) error {
	if !mapfile.IsLocalFile(path) {
		return fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".lua":
		return l.loadLua(ctx, path)
	case ".so":
		return l.loadPlugin(ctx, path)
	default:
		return fmt.Errorf("%s: %w %q", path, ErrUnsupportedSource, ext)
	}
}
