package appearance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/philipparndt/goifc/pkg/ifc"
)

func TestAlphaFromTransparency(t *testing.T) {
	tests := []struct {
		transparency string
		expected     float64
	}{
		{"0", 1},
		{"0.", 1},
		{"1", 0},
		{"0.25", 0.75},
		{" 0.5 ", 0.5},
		{"", 1},
		{".HALF.", 1},
		{"-0.1", 1},
		{"1.5", 1},
		{"NaN", 1},
		{"2.5E-01", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.transparency, func(t *testing.T) {
			color := FromColour(ifc.Colour{R: 1}, tt.transparency)
			assert.InDelta(t, tt.expected, color.A, 1e-12)
		})
	}
}

func TestChannelsClamped(t *testing.T) {
	color := FromColour(ifc.Colour{R: -0.5, G: 0.4, B: 7}, "")
	assert.Equal(t, RGBA{R: 0, G: 0.4, B: 1, A: 1}, color)
}

func TestBytes(t *testing.T) {
	assert.Equal(t, [4]uint8{255, 0, 128, 255}, RGBA{R: 1, G: 0, B: 0.5, A: 1}.Bytes())
	assert.Equal(t, [4]uint8{200, 200, 200, 255}, DefaultColor.Bytes())
}

func TestOpaque(t *testing.T) {
	assert.True(t, DefaultColor.Opaque())
	assert.False(t, RGBA{A: 0.75}.Opaque())
}
