package tessellate

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/goifc/internal/mesh"
)

// parseOBJ reads a Wavefront OBJ stream and returns one soup per group or
// object name. Polygons are split into fans. Vertices are renumbered per
// group.
func parseOBJ(r io.Reader) (map[string]*mesh.Geometry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var positions [][3]float32
	groups := make(map[string]*mesh.Geometry)
	remap := make(map[string]map[int]uint32)

	current := ""
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex with %d coordinates", line, len(fields)-1)
			}
			var p [3]float32
			for k := 0; k < 3; k++ {
				f, err := strconv.ParseFloat(fields[k+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				p[k] = float32(f)
			}
			positions = append(positions, p)

		case "g", "o":
			current = strings.Join(fields[1:], " ")

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face with %d vertices", line, len(fields)-1)
			}

			g, ok := groups[current]
			if !ok {
				g = &mesh.Geometry{}
				groups[current] = g
				remap[current] = make(map[int]uint32)
			}
			local := remap[current]

			face := make([]uint32, 0, len(fields)-1)
			for _, field := range fields[1:] {
				global, err := faceIndex(field, len(positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				index, ok := local[global]
				if !ok {
					index = uint32(g.VertexCount())
					p := positions[global]
					g.Positions = append(g.Positions, p[0], p[1], p[2])
					local[global] = index
				}
				face = append(face, index)
			}

			for k := 1; k+1 < len(face); k++ {
				g.Indices = append(g.Indices, face[0], face[k], face[k+1])
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}
	return groups, nil
}

// faceIndex resolves the vertex part of v, v/vt or v/vt/vn to a 0-based
// index. Negative indices count back from the last vertex.
func faceIndex(field string, count int) (int, error) {
	if slash := strings.IndexByte(field, '/'); slash >= 0 {
		field = field[:slash]
	}
	i, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q", field)
	}

	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return 0, fmt.Errorf("face index %d outside %d vertices", i, count)
}
