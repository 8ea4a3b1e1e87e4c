// Package loader turns the eligible source files under a root directory
// into loaded modules, one independent result per file.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phobologic/docsgen/internal/discover"
	"github.com/phobologic/docsgen/internal/model"
)

// DefaultMaxFileSize is the size above which files are skipped.
const DefaultMaxFileSize = 1_000_000 // 1 MB

// Backend executes or parses one source file and reports its top-level
// bindings.
type Backend interface {
	Load(ctx context.Context, root, rel string) ([]model.Binding, error)
}

// Result is the outcome of loading one file. Exactly one of Module and Err
// is set.
type Result struct {
	Module *model.Module
	Err    error
}

// Loader discovers and loads modules.
type Loader struct {
	Backend     Backend
	Discover    discover.Options
	MaxFileSize int64
	// Warn receives skipped files and load failures. May be nil.
	Warn func(format string, args ...any)
}

// Load returns one result per eligible file under root, in traversal
// order. Failures of individual files are recorded in their result and do
// not stop loading; only an unreadable root is an error.
func (l *Loader) Load(ctx context.Context, root string) ([]Result, error) {
	files, err := discover.Files(root, l.Discover)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	files = l.filterBySize(root, files)

	results := make([]Result, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		bindings, err := l.Backend.Load(ctx, root, f.Path)
		if err != nil {
			l.warn("could not load module %s: %v", f.Module, err)
			results = append(results, Result{Err: fmt.Errorf("module %s: %w", f.Module, err)})
			continue
		}
		results = append(results, Result{Module: &model.Module{
			Name:     f.Module,
			Root:     root,
			Path:     f.Path,
			Bindings: bindings,
		}})
	}
	return results, nil
}

func (l *Loader) filterBySize(root string, files []discover.FileEntry) []discover.FileEntry {
	if l.MaxFileSize <= 0 {
		return files
	}
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // the backend reports it
			continue
		}
		if fi.Size() > l.MaxFileSize {
			l.warn("%s: skipped (>%d bytes)", f.Path, l.MaxFileSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func (l *Loader) warn(format string, args ...any) {
	if l.Warn != nil {
		l.Warn(format, args...)
	}
}

// Loaded returns the successfully loaded modules of results, in order.
func Loaded(results []Result) []*model.Module {
	var mods []*model.Module
	for _, r := range results {
		if r.Module != nil {
			mods = append(mods, r.Module)
		}
	}
	return mods
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
