package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"diagramd/internal/common/fsutil"
	"diagramd/pkg/types"
)

const ggufExt = ".gguf"

// Registry resolves model names to GGUF files under a directory. The
// directory is rescanned on every call so newly downloaded files are picked up
// without a restart.
type Registry struct {
	dir string
}

// New returns a registry rooted at dir ('~' is expanded on scan).
func New(dir string) *Registry { return &Registry{dir: dir} }

// Dir returns the configured models directory.
func (r *Registry) Dir() string { return r.dir }

// Available reports whether the models directory exists.
func (r *Registry) Available() bool {
	dir, err := fsutil.ExpandHome(r.dir)
	return err == nil && fsutil.PathExists(dir)
}

// List scans the models directory.
func (r *Registry) List() ([]types.ModelFile, error) { return LoadDir(r.dir) }

// Resolve finds the GGUF file for a model name. Hub-style names such as
// "jost/mistral7b_plantuml" match on their last path element; the match is
// case-insensitive and accepts quantization suffixes in the filename
// (mistral7b_plantuml.Q4_K_M.gguf). Exact filename matches win.
func (r *Registry) Resolve(name string) (types.ModelFile, error) {
	models, err := r.List()
	if err != nil {
		return types.ModelFile{}, err
	}
	m, ok := Match(models, name)
	if !ok {
		return types.ModelFile{}, fmt.Errorf("no gguf file for model %q in %s", name, r.dir)
	}
	return m, nil
}

// Match picks the best model file for name from models.
func Match(models []types.ModelFile, name string) (types.ModelFile, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.ModelFile{}, false
	}
	for _, m := range models {
		if m.ID == name || m.Path == name {
			return m, true
		}
	}
	want := strings.ToLower(name)
	if i := strings.LastIndex(want, "/"); i >= 0 {
		want = want[i+1:]
	}
	want = strings.TrimSuffix(want, ggufExt)
	for _, m := range models {
		if strings.ToLower(m.Name) == want {
			return m, true
		}
	}
	for _, m := range models {
		if strings.HasPrefix(strings.ToLower(m.Name), want+".") {
			return m, true
		}
	}
	return types.ModelFile{}, false
}

// LoadDir scans a directory for *.gguf files and builds a sorted list from
// filenames. ID is the filename, Name drops the extension, Path is absolute.
func LoadDir(dir string) ([]types.ModelFile, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.ModelFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ggufExt) {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		models = append(models, types.ModelFile{
			ID:        name,
			Name:      name[:len(name)-len(ggufExt)],
			Path:      filepath.Join(abs, name),
			SizeBytes: size,
		})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}
