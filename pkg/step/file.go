// Package step reads ISO 10303-21 (STEP physical file) exchange files such as
// IFC models. It keeps every data instance in declared order and exposes
// lookup by instance id and by entity type name.
package step

import "strings"

// Instance is a single simple entity instance of the DATA section
type Instance struct {
	ID   int
	Type string // upper case entity name, e.g. IFCWALL
	Args []Value
}

// Arg returns the i-th attribute, or a null value when it is absent
func (in *Instance) Arg(i int) Value {
	if i < 0 || i >= len(in.Args) {
		return Value{Kind: KindNull}
	}
	return in.Args[i]
}

// File is a parsed physical file
type File struct {
	Schemas []string

	// Skipped counts complex (multi-entity) instances, which are not kept
	Skipped int

	instances map[int]*Instance
	order     []int
	byType    map[string][]int
}

func newFile() *File {
	return &File{
		instances: make(map[int]*Instance),
		byType:    make(map[string][]int),
	}
}

func (f *File) add(in *Instance) {
	if _, exists := f.instances[in.ID]; !exists {
		f.order = append(f.order, in.ID)
		f.byType[in.Type] = append(f.byType[in.Type], in.ID)
	}
	f.instances[in.ID] = in
}

// Schema returns the first declared schema identifier, e.g. IFC4
func (f *File) Schema() string {
	if len(f.Schemas) == 0 {
		return ""
	}
	return strings.ToUpper(f.Schemas[0])
}

// Len returns the number of instances
func (f *File) Len() int {
	return len(f.order)
}

// Get returns the instance with the given id
func (f *File) Get(id int) (*Instance, bool) {
	in, ok := f.instances[id]
	return in, ok
}

// Deref returns the instance referenced by v
func (f *File) Deref(v Value) (*Instance, bool) {
	id, ok := v.AsRef()
	if !ok {
		return nil, false
	}
	return f.Get(id)
}

// ByType returns all instances of the given entity type in declared order.
// The name is matched case-insensitively; subtypes are not included.
func (f *File) ByType(name string) []*Instance {
	ids := f.byType[strings.ToUpper(name)]
	out := make([]*Instance, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.instances[id])
	}
	return out
}

// Instances returns every instance in declared order
func (f *File) Instances() []*Instance {
	out := make([]*Instance, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.instances[id])
	}
	return out
}

// CountByType returns the number of instances per entity type
func (f *File) CountByType() map[string]int {
	counts := make(map[string]int, len(f.byType))
	for name, ids := range f.byType {
		counts[name] = len(ids)
	}
	return counts
}
