package step

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the lexical form of an attribute value
type Kind int

const (
	KindNull    Kind = iota // $
	KindDerived             // *
	KindInteger
	KindReal
	KindString
	KindEnum
	KindBinary
	KindRef
	KindList
	KindTyped // IFCLABEL('x'), IFCNORMALISEDRATIOMEASURE(0.5), ...
)

// Value is a single attribute value of an entity instance
type Value struct {
	Kind Kind
	Int  int64
	Real float64
	Str  string  // string, enum and binary payloads, or the type name of a typed value
	Ref  int     // instance id for KindRef
	List []Value // list items, or the wrapped parameters of a typed value
}

// IsNull reports whether the value is unset ($) or derived (*)
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindDerived
}

// Unwrap returns the wrapped value of a typed parameter, or v itself
func (v Value) Unwrap() Value {
	for v.Kind == KindTyped && len(v.List) == 1 {
		v = v.List[0]
	}
	return v
}

// AsRef returns the referenced instance id
func (v Value) AsRef() (int, bool) {
	if v.Kind != KindRef {
		return 0, false
	}
	return v.Ref, true
}

// AsFloat returns the numeric value of integers, reals and typed numbers
func (v Value) AsFloat() (float64, bool) {
	v = v.Unwrap()
	switch v.Kind {
	case KindReal:
		return v.Real, true
	case KindInteger:
		return float64(v.Int), true
	}
	return 0, false
}

// AsInt returns the value of an integer (or typed integer)
func (v Value) AsInt() (int64, bool) {
	v = v.Unwrap()
	if v.Kind != KindInteger {
		return 0, false
	}
	return v.Int, true
}

// AsString returns the value of a string (or typed string)
func (v Value) AsString() (string, bool) {
	v = v.Unwrap()
	if v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// AsEnum returns the enumeration literal without the surrounding dots
func (v Value) AsEnum() (string, bool) {
	v = v.Unwrap()
	if v.Kind != KindEnum {
		return "", false
	}
	return v.Str, true
}

// AsBool interprets the .T. and .F. enumeration literals
func (v Value) AsBool() (bool, bool) {
	e, ok := v.AsEnum()
	if !ok {
		return false, false
	}
	switch e {
	case "T":
		return true, true
	case "F":
		return false, true
	}
	return false, false
}

// AsList returns the items of a list value
func (v Value) AsList() ([]Value, bool) {
	if v.Kind != KindList {
		return nil, false
	}
	return v.List, true
}

// Refs returns every reference contained directly in a list value.
// Non-reference items are ignored.
func (v Value) Refs() []int {
	items, ok := v.AsList()
	if !ok {
		return nil
	}
	refs := make([]int, 0, len(items))
	for _, item := range items {
		if id, ok := item.AsRef(); ok {
			refs = append(refs, id)
		}
	}
	return refs
}

// String formats the value the way it appears in a physical file
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "$"
	case KindDerived:
		return "*"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'G', -1, 64)
	case KindString:
		return "'" + strings.ReplaceAll(v.Str, "'", "''") + "'"
	case KindEnum:
		return "." + v.Str + "."
	case KindBinary:
		return `"` + v.Str + `"`
	case KindRef:
		return fmt.Sprintf("#%d", v.Ref)
	case KindList, KindTyped:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		list := "(" + strings.Join(parts, ",") + ")"
		if v.Kind == KindTyped {
			return v.Str + list
		}
		return list
	}
	return "?"
}
