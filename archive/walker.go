// Package archive builds Walk abstraction on top of "archive/zip" for bundles
// of template files.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"tmplpatch/markup"
)

// WalkFunc is the type of the function called for each template in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. The file argument is the zip.File structure for template file in
// archive which satisfies match condition. If an error is returned,
// processing stops.
type WalkFunc func(archive string, file *zip.File) error

// IsArchive reports whether source should be processed as template bundle.
func IsArchive(name string) bool {
	return strings.EqualFold(path.Ext(name), ".zip")
}

// IsTemplate reports whether archive entry has extension of known markup
// format.
func IsTemplate(name string) bool {
	_, err := markup.ParseFormat(strings.TrimPrefix(path.Ext(name), "."))
	return err == nil
}

// Walk walks all template files in the archive which satisfy match condition
// in natural name order, calling walkFn for each item. Archives with path
// traversal components ("..") or absolute paths in entry names are rejected
// to prevent Zip Slip attacks.
func Walk(archive, pattern string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, pattern) && IsTemplate(name) {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return natural.Less(files[i].Name, files[j].Name)
	})

	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
