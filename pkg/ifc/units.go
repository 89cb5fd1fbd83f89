package ifc

import "github.com/philipparndt/goifc/pkg/step"

var siPrefixes = map[string]float64{
	"EXA":   1e18,
	"PETA":  1e15,
	"TERA":  1e12,
	"GIGA":  1e9,
	"MEGA":  1e6,
	"KILO":  1e3,
	"HECTO": 1e2,
	"DECA":  1e1,
	"DECI":  1e-1,
	"CENTI": 1e-2,
	"MILLI": 1e-3,
	"MICRO": 1e-6,
	"NANO":  1e-9,
}

// LengthScale returns the factor converting model length units to metres.
// The project's unit assignment is preferred; without one the first length
// unit in the file is used, and 1 when there is none.
func (m *Model) LengthScale() float64 {
	var units []int

	for _, project := range m.File.ByType("IFCPROJECT") {
		if assignment, ok := m.File.Deref(project.Arg(8)); ok {
			units = append(units, assignment.Arg(0).Refs()...)
		}
	}
	if len(units) == 0 {
		for _, assignment := range m.File.ByType("IFCUNITASSIGNMENT") {
			units = append(units, assignment.Arg(0).Refs()...)
		}
	}

	for _, id := range units {
		unit, ok := m.File.Get(id)
		if !ok {
			continue
		}
		if scale, ok := m.lengthUnitScale(unit, 0); ok {
			return scale
		}
	}
	return 1
}

func (m *Model) lengthUnitScale(unit *step.Instance, depth int) (float64, bool) {
	if depth > 8 {
		return 0, false
	}
	if kind, _ := unit.Arg(1).AsEnum(); kind != "LENGTHUNIT" {
		return 0, false
	}

	switch unit.Type {
	case "IFCSIUNIT":
		if name, _ := unit.Arg(3).AsEnum(); name != "METRE" {
			return 0, false
		}
		prefix, ok := unit.Arg(2).AsEnum()
		if !ok {
			return 1, true
		}
		factor, known := siPrefixes[prefix]
		return factor, known

	case "IFCCONVERSIONBASEDUNIT":
		measure, ok := m.File.Deref(unit.Arg(3))
		if !ok {
			return 0, false
		}
		value, ok := measure.Arg(0).AsFloat()
		if !ok {
			return 0, false
		}
		base, ok := m.File.Deref(measure.Arg(1))
		if !ok {
			return value, true
		}
		scale, ok := m.lengthUnitScale(base, depth+1)
		if !ok {
			return value, true
		}
		return value * scale, true
	}

	return 0, false
}
