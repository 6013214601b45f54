// Package filesvc finds .bru request files on disk.
package filesvc

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const extBru = ".bru"

// collection-level files carry no request and would only report a missing
// method block.
var skippedNames = map[string]struct{}{
	"collection.bru": {},
	"folder.bru":     {},
}

const environmentsDir = "environments"

type FileEntry struct {
	Name string
	Path string
}

func IsBruFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == extBru
}

// IsRequestFile reports whether a .bru file found while walking a collection
// describes a request.
func IsRequestFile(path string) bool {
	if !IsBruFile(path) {
		return false
	}
	_, skip := skippedNames[strings.ToLower(filepath.Base(path))]
	return !skip
}

// ListRequestFiles walks root and returns its request files sorted by their
// path relative to root. Hidden directories and the environments directory
// are skipped.
func ListRequestFiles(root string) ([]FileEntry, error) {
	var entries []FileEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || d.Name() == environmentsDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsRequestFile(d.Name()) {
			return nil
		}
		rel := d.Name()
		if r, relErr := filepath.Rel(root, path); relErr == nil {
			rel = r
		}
		entries = append(entries, FileEntry{Name: rel, Path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Collect expands command line arguments: files are kept as given, whatever
// their name, and directories are replaced by their request files. Errors
// are joined and the paths that could be resolved are still returned.
func Collect(args []string) ([]string, error) {
	var (
		out  []string
		errs []error
	)
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := ListRequestFiles(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, e := range entries {
			out = append(out, e.Path)
		}
	}
	return out, errors.Join(errs...)
}
