package tessellate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/pkg/ifc"
)

type fakeTessellator struct {
	g     *mesh.Geometry
	err   error
	calls int
}

func (f *fakeTessellator) Tessellate(context.Context, ifc.Element) (*mesh.Geometry, error) {
	f.calls++
	return f.g, f.err
}

func TestChainFallsBack(t *testing.T) {
	soup := &mesh.Geometry{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint32{0, 1, 2}}
	failing := &fakeTessellator{err: ErrUnsupported}
	empty := &fakeTessellator{g: &mesh.Geometry{}}
	working := &fakeTessellator{g: soup}
	unused := &fakeTessellator{g: soup}

	g, err := Chain{failing, empty, working, unused}.Tessellate(context.Background(), ifc.Element{})
	require.NoError(t, err)
	assert.Same(t, soup, g)
	assert.Equal(t, 0, unused.calls)
}

func TestChainJoinsErrors(t *testing.T) {
	boom := errors.New("converter crashed")
	_, err := Chain{&fakeTessellator{err: boom}, &fakeTessellator{err: ErrUnsupported}}.
		Tessellate(context.Background(), ifc.Element{})

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestEmptyChain(t *testing.T) {
	_, err := Chain{}.Tessellate(context.Background(), ifc.Element{})
	assert.ErrorIs(t, err, ErrUnsupported)
}
