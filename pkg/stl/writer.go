package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	headerSize = 80
	recordSize = 50
)

// Write encodes the model as binary STL. Facet colours are written to the
// attribute word when the model has them.
func Write(w io.Writer, m *Model) error {
	if m.Colors != nil && len(m.Colors) != len(m.Triangles) {
		return fmt.Errorf("failed to write STL: %d colours for %d triangles", len(m.Colors), len(m.Triangles))
	}

	bw := bufio.NewWriter(w)

	header := make([]byte, headerSize)
	copy(header, headerText(m.Name))
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	record := make([]byte, recordSize)
	for i, triangle := range m.Triangles {
		put := func(offset int, p [3]float32) {
			for k, f := range p {
				binary.LittleEndian.PutUint32(record[offset+4*k:], math.Float32bits(f))
			}
		}
		put(0, triangle.Normal.Float32())
		put(12, triangle.V1.Float32())
		put(24, triangle.V2.Float32())
		put(36, triangle.V3.Float32())

		var attr uint16
		if m.Colors != nil {
			attr = encodeColor(m.Colors[i])
		}
		binary.LittleEndian.PutUint16(record[48:], attr)

		if _, err := bw.Write(record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush STL: %w", err)
	}
	return nil
}

// WriteFile writes the model as binary STL to filename
func WriteFile(filename string, m *Model) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, m); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// headerText keeps binary files from being detected as ASCII
func headerText(name string) string {
	text := "binary STL " + name
	if len(text) > headerSize {
		text = text[:headerSize]
	}
	return text
}
