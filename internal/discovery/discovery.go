// Package discovery finds Fortran source files under the paths given on the
// command line.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options controls how file discovery behaves.
type Options struct {
	// Paths are the files and directories to check. Defaults to ".".
	Paths []string

	// Root anchors exclude patterns that contain a '/'. Defaults to ".".
	Root string

	// Extensions are the file suffixes, without the dot, that directory
	// walks pick up. Matching is case-sensitive.
	Extensions []string

	// Exclude and ExtendExclude are doublestar patterns. A pattern without
	// '/' matches any path component; otherwise it matches the path relative
	// to Root.
	Exclude       []string
	ExtendExclude []string

	// ForceExclude applies the exclusions to Paths themselves too.
	ForceExclude bool
}

// Discover walks Paths and returns the files to check, deduplicated and
// sorted. A file named directly in Paths is kept whatever its extension.
func Discover(opts Options) ([]string, error) {
	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	m, err := newMatcher(absRoot, slices.Concat(opts.Exclude, opts.ExtendExclude))
	if err != nil {
		return nil, err
	}

	w := &walker{
		matcher:    m,
		extensions: opts.Extensions,
		seen:       make(map[string]bool),
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", p, err)
		}
		if opts.ForceExclude && m.excluded(p, "") {
			continue
		}
		if !info.IsDir() {
			w.addFile(p)
			continue
		}
		w.walkRoot = p
		if err := filepath.WalkDir(p, w.visit); err != nil {
			return nil, err
		}
	}

	slices.Sort(w.result)
	return w.result, nil
}

// HasExtension reports whether path ends in one of exts.
func HasExtension(path string, exts []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ext != "" && slices.Contains(exts, ext)
}

// walker holds state for the directory walk.
type walker struct {
	matcher    *matcher
	extensions []string
	walkRoot   string
	seen       map[string]bool
	result     []string
}

// visit is the fs.WalkDirFunc callback. The root of each walk is never
// excluded by the walk itself; Discover handles that through ForceExclude.
func (w *walker) visit(path string, d fs.DirEntry, walkErr error) error {
	if walkErr != nil {
		return walkErr
	}
	if d.IsDir() {
		if path != w.walkRoot && w.matcher.excluded(path, w.walkRoot) {
			return filepath.SkipDir
		}
		return nil
	}
	if w.matcher.excluded(path, w.walkRoot) || !HasExtension(path, w.extensions) {
		return nil
	}
	w.addFile(path)
	return nil
}

// addFile adds a file to the result set if not already seen.
func (w *walker) addFile(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	if !w.seen[absPath] {
		w.seen[absPath] = true
		w.result = append(w.result, filepath.Clean(path))
	}
}

// matcher applies exclude patterns.
type matcher struct {
	absRoot   string
	component []string
	anchored  []string
}

func newMatcher(absRoot string, patterns []string) (*matcher, error) {
	m := &matcher{absRoot: absRoot}
	for _, p := range patterns {
		p = strings.TrimSuffix(filepath.ToSlash(strings.TrimSpace(p)), "/")
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
		if strings.Contains(p, "/") {
			m.anchored = append(m.anchored, strings.TrimPrefix(p, "./"))
		} else {
			m.component = append(m.component, p)
		}
	}
	return m, nil
}

// excluded reports whether path matches any pattern. Paths inside the root
// are matched relative to it, others as given. When base is set, component
// patterns only look at the components below base, so walking an excluded
// directory named on the command line still finds its files.
func (m *matcher) excluded(path, base string) bool {
	rel := filepath.Clean(path)
	if abs, err := filepath.Abs(path); err == nil {
		if r, err := filepath.Rel(m.absRoot, abs); err == nil && r != ".." && !strings.HasPrefix(r, "../") {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return false
	}

	parts := strings.Split(rel, "/")
	if base != "" {
		if r, err := filepath.Rel(base, path); err == nil {
			parts = strings.Split(filepath.ToSlash(r), "/")
		}
	}
	for _, p := range m.component {
		for _, part := range parts {
			if ok, _ := doublestar.Match(p, part); ok {
				return true
			}
		}
	}
	for _, p := range m.anchored {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		// A pattern naming a directory excludes everything below it.
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}
