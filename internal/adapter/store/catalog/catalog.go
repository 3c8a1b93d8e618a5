// Package catalog indexes a directory tree of VSOP87 model files in either
// the standard or the compact format.
package catalog

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"go.ngs.io/vsop87/internal/adapter/store"
	"go.ngs.io/vsop87/internal/adapter/store/trunc"
	"go.ngs.io/vsop87/internal/adapter/store/vsop87"
	"go.ngs.io/vsop87/internal/domain"
)

// maxHeaderLen bounds how much of a file is read to recognize it.
const maxHeaderLen = 512

// Catalog serves models found under a data directory. Loaded models are
// cached and shared between callers, who must not modify them.
type Catalog struct {
	dataDir string
	index   []store.ModelInfo        // Nil until the next scan.
	cache   map[string]*domain.Model // Loaded models by path.
	gen     uint64                   // Bumped whenever index or cache is dropped.
	mu      sync.RWMutex             // Protect index, cache and gen.

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a catalog over dataDir. Nothing is read until first use.
func New(dataDir string) *Catalog {
	return &Catalog{
		dataDir: dataDir,
		cache:   make(map[string]*domain.Model),
	}
}

// Sniff reads the first line of path and reports which model it holds.
// ok is false for files in neither format.
func Sniff(path string) (info store.ModelInfo, ok bool, err error) {
	//nolint:gosec // G304: path comes from walking the data directory or from the caller.
	file, err := os.Open(path)
	if err != nil {
		return store.ModelInfo{}, false, domain.IOErrorf(path, fmt.Errorf("failed to open model file: %w", err))
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, maxHeaderLen), maxHeaderLen)
	if !scanner.Scan() {
		return store.ModelInfo{}, false, nil
	}
	line := scanner.Text()

	info.Path = path
	switch {
	case strings.HasPrefix(line, trunc.Magic):
		info.Format = store.FormatCompact
		info.Version, info.Body, ok = trunc.Identify(line)
	case strings.HasPrefix(line, vsop87.HeaderMarker):
		info.Format = store.FormatStandard
		info.Version, info.Body, ok = vsop87.Identify(line)
	}
	return info, ok, nil
}

// LoadFile loads a model file in whichever format it is written.
func LoadFile(path string) (*domain.Model, error) {
	info, ok, err := Sniff(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.FormatErrorf(path, 1, "not a VSOP87 model file")
	}
	if info.Format == store.FormatCompact {
		return trunc.LoadModel(path)
	}
	return vsop87.LoadModel(path)
}

// ListModels returns every recognized model file, sorted by path.
func (c *Catalog) ListModels() ([]store.ModelInfo, error) {
	index, gen := c.snapshot()
	if index != nil {
		return append([]store.ModelInfo(nil), index...), nil
	}

	// The scan runs unlocked; a change seen meanwhile discards its result.
	index, err := c.scan()
	if err != nil {
		return nil, err
	}
	c.publish(index, gen)

	return append([]store.ModelInfo(nil), index...), nil
}

func (c *Catalog) snapshot() ([]store.ModelInfo, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index, c.gen
}

// publish stores index unless the catalog was invalidated after gen was
// taken. It reports whether index was stored.
func (c *Catalog) publish(index []store.ModelInfo, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.index = index
	return true
}

func (c *Catalog) scan() ([]store.ModelInfo, error) {
	if _, err := os.Stat(c.dataDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("model data directory does not exist: %s", c.dataDir)
	}

	index := make([]store.ModelInfo, 0)
	err := filepath.WalkDir(c.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		info, ok, err := Sniff(path)
		if err != nil {
			return err
		}
		if ok {
			index = append(index, info)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk model directory: %w", err)
	}

	sort.Slice(index, func(i, j int) bool { return index[i].Path < index[j].Path })
	return index, nil
}

// LoadModel returns the model for body in the given version. A compact file
// is preferred over a standard one when both exist.
func (c *Catalog) LoadModel(body domain.Body, version domain.Version) (*domain.Model, error) {
	index, err := c.ListModels()
	if err != nil {
		return nil, err
	}

	var match *store.ModelInfo
	for i := range index {
		info := &index[i]
		if info.Body != body || info.Version != version {
			continue
		}
		if match == nil || (match.Format != store.FormatCompact && info.Format == store.FormatCompact) {
			match = info
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s %s", store.ErrModelNotFound, body, version)
	}

	// Check cache first.
	c.mu.RLock()
	m, ok := c.cache[match.Path]
	gen := c.gen
	c.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err = LoadFile(match.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %s: %w", body, version, err)
	}

	c.mu.Lock()
	if c.gen == gen {
		c.cache[match.Path] = m
	}
	c.mu.Unlock()

	return m, nil
}

// Invalidate drops the index and every cached model.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.index = nil
	c.cache = make(map[string]*domain.Model)
	c.mu.Unlock()
}

func (c *Catalog) forget(path string) {
	c.mu.Lock()
	c.gen++
	c.index = nil
	delete(c.cache, path)
	c.mu.Unlock()
}
