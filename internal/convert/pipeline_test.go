package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipparndt/goifc/internal/appearance"
	"github.com/philipparndt/goifc/internal/export"
	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/internal/tessellate"
	"github.com/philipparndt/goifc/pkg/ifc"
)

const fixture = "../../testdata/house.ifc"

type fakeSource struct {
	styles    []ifc.SurfaceStyle
	materials []ifc.Material
	items     []ifc.StyledItem
	textures  []ifc.Texture
	elements  []ifc.Element
	styleErr  error
}

func (f *fakeSource) SurfaceStyles() ([]ifc.SurfaceStyle, error) { return f.styles, f.styleErr }
func (f *fakeSource) Materials() ([]ifc.Material, error)         { return f.materials, nil }
func (f *fakeSource) StyledItems() ([]ifc.StyledItem, error)     { return f.items, nil }
func (f *fakeSource) Textures() ([]ifc.Texture, error)           { return f.textures, nil }
func (f *fakeSource) Elements() ([]ifc.Element, error)           { return f.elements, nil }

// fakeTessellator serves canned soups and failures by element id
type fakeTessellator struct {
	soups  map[int]*mesh.Geometry
	errs   map[int]error
	mu     sync.Mutex
	called []int
}

func (f *fakeTessellator) Tessellate(_ context.Context, e ifc.Element) (*mesh.Geometry, error) {
	f.mu.Lock()
	f.called = append(f.called, e.ID)
	f.mu.Unlock()

	if err := f.errs[e.ID]; err != nil {
		return nil, err
	}
	return f.soups[e.ID], nil
}

// fakeSerializer records the buffer it was handed
type fakeSerializer struct {
	buf  *mesh.Buffer
	path string
	err  error
}

func (f *fakeSerializer) Write(buf *mesh.Buffer, path string) error {
	f.buf, f.path = buf, path
	return f.err
}

func cube() *mesh.Geometry {
	return &mesh.Geometry{
		Positions: []float32{
			0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0,
			0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1,
		},
		Indices: []uint32{
			0, 3, 2, 0, 2, 1, 4, 5, 6, 4, 6, 7,
			0, 1, 5, 0, 5, 4, 1, 2, 6, 1, 6, 5,
			2, 3, 7, 2, 7, 6, 3, 0, 4, 3, 4, 7,
		},
	}
}

func triangle() *mesh.Geometry {
	return &mesh.Geometry{
		Positions: []float32{5, 0, 0, 6, 0, 0, 5, 1, 0},
		Indices:   []uint32{0, 1, 2},
	}
}

func redCubeScenario() (*fakeSource, *fakeTessellator) {
	red := ifc.Colour{R: 1}
	src := &fakeSource{
		styles:    []ifc.SurfaceStyle{{ID: 1, Renderings: []ifc.Rendering{{Colour: &red}}}},
		materials: []ifc.Material{{ID: 2, StyleRefs: []int{1}}},
		elements: []ifc.Element{
			{ID: 10, Type: "IFCWALL", Materials: []ifc.MaterialRef{{Kind: ifc.KindMaterial, Material: 2}}},
			{ID: 11, Type: "IFCSLAB"},
			{ID: 12, Type: "IFCBEAM"},
		},
	}
	tess := &fakeTessellator{
		soups: map[int]*mesh.Geometry{10: cube(), 11: triangle()},
		errs:  map[int]error{12: errors.New("tessellation crashed")},
	}
	return src, tess
}

func TestConvertScenario(t *testing.T) {
	for _, workers := range []int{1, 4} {
		src, tess := redCubeScenario()
		out := &fakeSerializer{}
		c := New(zaptest.NewLogger(t), Options{Workers: workers}, out, nil)

		result, err := c.Convert(context.Background(), src, tess, "house.gltf")
		require.NoError(t, err)

		assert.Equal(t, 3, result.Processed)
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 11, result.Vertices)
		assert.Equal(t, 13, result.Triangles)
		assert.NotEmpty(t, result.RunID)

		require.NotNil(t, out.buf)
		assert.Equal(t, "house.gltf", out.path)
		require.Len(t, out.buf.Colors, 11)
		for i := 0; i < 8; i++ {
			assert.Equal(t, appearance.RGBA{R: 1, A: 1}, out.buf.Colors[i])
		}
		for i := 8; i < 11; i++ {
			assert.Equal(t, appearance.DefaultColor, out.buf.Colors[i])
		}

		require.Len(t, result.Failures, 1)
		var elementErr *ElementError
		require.True(t, errors.As(result.Failures[0], &elementErr))
		assert.Equal(t, 12, elementErr.ID)
		assert.Equal(t, "IFCBEAM", elementErr.Type)
	}
}

func TestConvertEmptyMesh(t *testing.T) {
	out := &fakeSerializer{}
	c := New(nil, Options{}, out, nil)

	result, err := c.Convert(context.Background(), &fakeSource{}, &fakeTessellator{}, "house.gltf")
	require.Error(t, err)
	assert.ErrorIs(t, err, mesh.ErrEmptyMesh)
	assert.Nil(t, out.buf, "nothing is serialized")
	assert.Equal(t, 0, result.Processed)
}

func TestConvertEmptyMeshWritesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.gltf")
	src := &fakeSource{elements: []ifc.Element{{ID: 1}, {ID: 2}}}
	tess := &fakeTessellator{soups: map[int]*mesh.Geometry{2: {}}}

	result, err := New(nil, Options{}, export.NewWriter(nil), nil).
		Convert(context.Background(), src, tess, path)
	assert.ErrorIs(t, err, mesh.ErrEmptyMesh)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Empty)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertSerializationFailure(t *testing.T) {
	src, tess := redCubeScenario()
	boom := errors.New("disk full")

	_, err := New(nil, Options{}, &fakeSerializer{err: boom}, nil).
		Convert(context.Background(), src, tess, "house.gltf")
	assert.ErrorIs(t, err, ErrSerialize)
	assert.ErrorIs(t, err, boom)
}

func TestConvertSoftExtractionFailure(t *testing.T) {
	src, tess := redCubeScenario()
	src.styleErr = errors.New("broken style")

	core, logs := observer.New(zap.WarnLevel)
	out := &fakeSerializer{}

	result, err := New(zap.New(core), Options{}, out, nil).Convert(context.Background(), src, tess, "house.gltf")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)

	// every vertex falls back to the default colour
	for _, c := range out.buf.Colors {
		assert.Equal(t, appearance.DefaultColor, c)
	}
	assert.GreaterOrEqual(t, logs.FilterMessageSnippet("extraction failed").Len(), 1)
}

func TestConvertTextureUsesDefaultColour(t *testing.T) {
	src := &fakeSource{
		textures: []ifc.Texture{{ID: 1, Kind: ifc.KindImageTexture, URL: "wood.png"}},
		styles:   []ifc.SurfaceStyle{{ID: 2, Textures: []int{1}}},
		items:    []ifc.StyledItem{{ID: 3, Item: 4, StyleRefs: []int{2}}},
		elements: []ifc.Element{{
			ID:              10,
			Representations: []ifc.Representation{{Items: []ifc.Item{{ID: 4, StyledBy: []int{3}}}}},
		}},
	}
	tess := &fakeTessellator{soups: map[int]*mesh.Geometry{10: triangle()}}

	core, logs := observer.New(zap.WarnLevel)
	out := &fakeSerializer{}

	result, err := New(zap.New(core), Options{}, out, nil).Convert(context.Background(), src, tess, "door.gltf")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Textured)
	assert.Equal(t, appearance.DefaultColor, out.buf.Colors[0])

	entries := logs.FilterMessageSnippet("texture").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "wood.png", entries[0].ContextMap()["texture"])
}

func TestConvertExcludeTypes(t *testing.T) {
	src, tess := redCubeScenario()
	out := &fakeSerializer{}

	result, err := New(nil, Options{ExcludeTypes: []string{"IfcBeam"}}, out, nil).
		Convert(context.Background(), src, tess, "house.gltf")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []int{10, 11}, tess.called)
}

func TestConvertCancelled(t *testing.T) {
	src, tess := redCubeScenario()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &fakeSerializer{}
	_, err := New(nil, Options{}, out, nil).Convert(ctx, src, tess, "house.gltf")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out.buf)
}

func TestConvertProgressLogging(t *testing.T) {
	src, tess := redCubeScenario()
	core, logs := observer.New(zap.InfoLevel)

	_, err := New(zap.New(core), Options{ProgressInterval: 2}, &fakeSerializer{}, nil).
		Convert(context.Background(), src, tess, "house.gltf")
	require.NoError(t, err)

	progress := logs.FilterMessage("progress").All()
	require.Len(t, progress, 1)
	assert.EqualValues(t, 2, progress[0].ContextMap()["processed"])

	// every entry carries the run id
	for _, entry := range logs.All() {
		assert.Contains(t, entry.ContextMap(), "run")
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	src := &fakeSource{}
	tess := &fakeTessellator{soups: map[int]*mesh.Geometry{}, errs: map[int]error{}}
	for i := 0; i < 200; i++ {
		id := i + 1
		src.elements = append(src.elements, ifc.Element{ID: id})
		switch {
		case i%7 == 0:
			tess.errs[id] = errors.New("bad")
		case i%2 == 0:
			tess.soups[id] = cube()
		default:
			g := triangle()
			g.Positions[0] = float32(i)
			tess.soups[id] = g
		}
	}

	sequential := &fakeSerializer{}
	_, err := New(nil, Options{Workers: 1}, sequential, nil).Convert(context.Background(), src, tess, "a.gltf")
	require.NoError(t, err)

	parallel := &fakeSerializer{}
	_, err = New(nil, Options{Workers: 8}, parallel, nil).Convert(context.Background(), src, tess, "a.gltf")
	require.NoError(t, err)

	assert.Equal(t, sequential.buf, parallel.buf)
}

func TestConvertFileFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "house.glb")
	factory := func(model *ifc.Model, _ string, log *zap.Logger) Tessellator {
		return tessellate.NewNative(model, log)
	}

	c := New(zaptest.NewLogger(t), Options{Workers: 2}, export.NewWriter(nil), factory)
	result, err := c.ConvertFile(context.Background(), fixture, path)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 4, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Textured)
	assert.Equal(t, 23, result.Vertices)
	assert.Equal(t, 27, result.Triangles)
	assert.Equal(t, fixture, result.Input)
	assert.ErrorIs(t, result.Failures[0], tessellate.ErrUnsupported)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestConvertFileMissingInput(t *testing.T) {
	c := New(nil, Options{}, &fakeSerializer{}, nil)

	_, err := c.ConvertFile(context.Background(), filepath.Join(t.TempDir(), "missing.ifc"), "out.gltf")
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvertFileUnparsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ifc")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0o644))

	_, err := New(nil, Options{}, &fakeSerializer{}, nil).ConvertFile(context.Background(), path, "out.gltf")
	assert.ErrorIs(t, err, ErrLoad)
}

func TestSummary(t *testing.T) {
	r := &Result{Processed: 3, Succeeded: 2, Failed: 1, Vertices: 11, Triangles: 13}
	assert.Equal(t, "processed 3 elements, 2 succeeded, 1 failed, 0 empty: 11 vertices, 13 triangles in 0s", r.Summary())
}
