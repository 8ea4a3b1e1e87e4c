// Package discover finds the source files of a library directory.
package discover

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/docsgen/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path   string // Relative to the scan root
	Module string // Dotted module path
}

// Options control which files are discovered.
type Options struct {
	// Gitignore skips files matched by the root .gitignore.
	Gitignore bool
	// SkipTests skips test modules and test directories.
	SkipTests bool
}

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	"venv":          {},
	"site-packages": {},
}

// Files discovers eligible source files under root in traversal order:
// directories top-down, entries within a directory in lexical order.
func Files(root string, opts Options) ([]FileEntry, error) {
	var gi *ignore.GitIgnore
	if opts.Gitignore {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable entries
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".egg-info") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if !lang.Python.IsEligible(name) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gi != nil && gi.MatchesPath(filepath.ToSlash(rel)) {
			return nil
		}

		if opts.SkipTests && IsTestFile(rel) {
			return nil
		}

		results = append(results, FileEntry{Path: rel, Module: ModuleName(rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// ModuleName derives the dotted module path of a root-relative file path:
// directory separators become dots and the extension is dropped. The root
// itself contributes no segment.
func ModuleName(rel string) string {
	rel = filepath.ToSlash(filepath.Clean(rel))
	parts := strings.Split(rel, "/")
	parts[len(parts)-1] = lang.Python.TrimExtension(parts[len(parts)-1])

	kept := parts[:0]
	for _, p := range parts {
		if p != "" && p != "." {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ".")
}

var testDirs = map[string]struct{}{
	"tests":   {},
	"test":    {},
	"testing": {},
}

// IsTestFile reports whether a root-relative path belongs to a test suite:
// any file under a test directory, or a test_*.py / *_test.py module.
func IsTestFile(rel string) bool {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, dir := range parts[:len(parts)-1] {
		if _, ok := testDirs[dir]; ok {
			return true
		}
	}
	name := parts[len(parts)-1]
	return strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.py")
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
