package step

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('ViewDefinition [CoordinationView]'),'2;1');
FILE_NAME('sample.ifc','2024-01-01T00:00:00',(''),(''),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
/* a comment; with a semicolon */
#1=IFCCOLOURRGB($,1.,0.5,0.);
#2=IFCSURFACESTYLERENDERING(#1,IFCNORMALISEDRATIOMEASURE(0.25),$,$,$,$,$,$,.NOTDEFINED.);
#3=IFCSURFACESTYLE('It''s red',.BOTH.,(#2));
#4=IFCCARTESIANPOINT((0.,-1.5E-1,
  2.));
#5=(IFCLENGTHMEASURE(1.)IFCLABEL('x'));
#6=IFCLABEL('caf\X\E9 \X2\00FC\X0\');
#7=IFCSURFACESTYLE('second',.BOTH.,(*,#2));
ENDSEC;
END-ISO-10303-21;
`

func TestReadSample(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "IFC4", f.Schema())
	assert.Equal(t, 6, f.Len())
	assert.Equal(t, 1, f.Skipped)

	colour, ok := f.Get(1)
	require.True(t, ok)
	assert.Equal(t, "IFCCOLOURRGB", colour.Type)
	assert.True(t, colour.Arg(0).IsNull())
	red, ok := colour.Arg(1).AsFloat()
	require.True(t, ok)
	assert.Equal(t, 1.0, red)

	rendering, _ := f.Get(2)
	transparency, ok := rendering.Arg(1).AsFloat()
	require.True(t, ok)
	assert.Equal(t, 0.25, transparency)
	assert.Equal(t, KindTyped, rendering.Arg(1).Kind)
	assert.Equal(t, "IFCNORMALISEDRATIOMEASURE", rendering.Arg(1).Str)
	enum, ok := rendering.Arg(8).AsEnum()
	require.True(t, ok)
	assert.Equal(t, "NOTDEFINED", enum)

	style, _ := f.Get(3)
	name, _ := style.Arg(0).AsString()
	assert.Equal(t, "It's red", name)
	assert.Equal(t, []int{2}, style.Arg(2).Refs())
	assert.True(t, style.Arg(99).IsNull())
}

func TestReadMultiLineInstance(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	point, ok := f.Get(4)
	require.True(t, ok)
	coords, ok := point.Arg(0).AsList()
	require.True(t, ok)
	require.Len(t, coords, 3)

	y, _ := coords[1].AsFloat()
	z, _ := coords[2].AsFloat()
	assert.InDelta(t, -0.15, y, 1e-12)
	assert.Equal(t, 2.0, z)
}

func TestReadEncodedString(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	label, _ := f.Get(6)
	s, ok := label.Arg(0).AsString()
	require.True(t, ok)
	assert.Equal(t, "café ü", s)
}

func TestRefsIgnoresNonReferences(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	style, _ := f.Get(7)
	assert.Equal(t, []int{2}, style.Arg(2).Refs())
}

func TestByTypeDeclaredOrder(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	styles := f.ByType("IfcSurfaceStyle")
	require.Len(t, styles, 2)
	assert.Equal(t, 3, styles[0].ID)
	assert.Equal(t, 7, styles[1].ID)

	assert.Empty(t, f.ByType("IFCWALL"))
	assert.Equal(t, 2, f.CountByType()["IFCSURFACESTYLE"])
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not step", "solid cube\nendsolid\n"},
		{"missing end", "ISO-10303-21;\nHEADER;\nENDSEC;\nDATA;\n#1=IFCWALL();\n"},
		{"unterminated string", "ISO-10303-21;\nDATA;\n#1=IFCLABEL('abc);\nENDSEC;\nEND-ISO-10303-21;\n"},
		{"missing semicolon", "ISO-10303-21;\nDATA;\n#1=IFCLABEL('abc')\n#2=IFCLABEL('d');\nENDSEC;\nEND-ISO-10303-21;\n"},
		{"instance outside data", "ISO-10303-21;\nHEADER;\n#1=IFCLABEL('abc');\nENDSEC;\nEND-ISO-10303-21;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.ifc"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValueString(t *testing.T) {
	v := Value{Kind: KindList, List: []Value{
		{Kind: KindRef, Ref: 12},
		{Kind: KindString, Str: "a'b"},
		{Kind: KindEnum, Str: "T"},
		{Kind: KindTyped, Str: "IFCREAL", List: []Value{{Kind: KindReal, Real: 0.5}}},
		{Kind: KindNull},
	}}
	assert.Equal(t, "(#12,'a''b',.T.,IFCREAL(0.5),$)", v.String())
}
