// Package export writes finalized meshes to glTF, GLB and colour STL files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is an output file format
type Format int

const (
	FormatGLTF Format = iota
	FormatGLB
	FormatSTL
)

func (f Format) String() string {
	switch f {
	case FormatGLB:
		return "glb"
	case FormatSTL:
		return "stl"
	}
	return "gltf"
}

// DefaultExtension is appended to output paths without a known extension
const DefaultExtension = ".gltf"

var extensions = map[string]Format{
	".gltf": FormatGLTF,
	".glb":  FormatGLB,
	".stl":  FormatSTL,
}

// EnsureExtension returns path unchanged when it ends in a known mesh
// extension, compared case-insensitively, and appends DefaultExtension
// otherwise
func EnsureExtension(path string) string {
	if _, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return path
	}
	return path + DefaultExtension
}

// FormatFor returns the format selected by the extension of path
func FormatFor(path string) (Format, error) {
	format, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return 0, fmt.Errorf("unknown mesh extension %q", filepath.Ext(path))
	}
	return format, nil
}

// writeAtomic creates the parent directories of path, lets write fill a
// temporary file next to it and renames the result into place. Nothing is
// left behind when write fails.
func writeAtomic(path string, write func(tmp string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := write(tmpName); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
