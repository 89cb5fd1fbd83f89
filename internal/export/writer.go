package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/philipparndt/goifc/internal/mesh"
)

// Writer serializes meshes in the format chosen by the output extension
type Writer struct {
	log *zap.Logger
}

// NewWriter creates a writer
func NewWriter(log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{log: log}
}

// Write stores buf at path. Parent directories are created as needed.
func (w *Writer) Write(buf *mesh.Buffer, path string) error {
	if buf == nil || len(buf.Triangles) == 0 {
		return fmt.Errorf("failed to write %s: %w", path, mesh.ErrEmptyMesh)
	}
	if len(buf.Colors) != len(buf.Vertices) {
		return fmt.Errorf("failed to write %s: %d colours for %d vertices", path, len(buf.Colors), len(buf.Vertices))
	}

	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch format {
	case FormatGLB:
		err = writeGLTF(buf, path, name, true)
	case FormatSTL:
		err = writeSTL(buf, path, name)
	default:
		err = writeGLTF(buf, path, name, false)
	}
	if err != nil {
		return err
	}

	w.log.Debug("mesh written",
		zap.String("path", path),
		zap.Stringer("format", format),
		zap.Int("vertices", buf.VertexCount()),
		zap.Int("triangles", buf.TriangleCount()))
	return nil
}
