// Package cmesh implements the coarse-mesh interface consumed by the
// forest: one root element per tree, per-tree corner coordinates,
// per-face neighbor joins, and typed per-tree attributes keyed by
// (package id, attribute key). Construction happens entirely outside
// the adapt/forest core; this package only builds and reads it.
package cmesh

import (
	"fmt"

	"github.com/meshforest/forest/pkg/scheme"
)

// AttrKey identifies one typed, per-tree attribute. The key set is
// closed per owning package, per §9's re-architecture note.
type AttrKey struct {
	PackageID uint16
	Key       uint16
}

// FaceJoin describes the neighbor across one face of a coarse tree.
// Tree is -1 when the face is a domain boundary (unjoined).
type FaceJoin struct {
	Tree        int
	Face        int8
	Orientation int8
}

// Tree is one coarse-mesh cell: the root of one forest tree.
type Tree struct {
	Class    scheme.Class
	Vertices [][3]float64
	Faces    []FaceJoin
	Attrs    map[AttrKey]any
}

// CoarseMesh is the level-0 mesh: an ordered list of coarse trees plus
// their face topology. It is built once and shared, read-only, by
// every forest referencing it.
type CoarseMesh struct {
	trees []Tree
}

// New builds a coarse mesh from pre-constructed trees. Callers
// (readers, brick builders, programmatic construction) are
// responsible for the geometric and topological content; New only
// validates face-count consistency with each tree's class.
func New(trees []Tree) (*CoarseMesh, error) {
	for i, t := range trees {
		want := t.Class.NumFaces()
		if len(t.Faces) != want {
			return nil, fmt.Errorf("cmesh: tree %d (class %v) has %d face joins, want %d", i, t.Class, len(t.Faces), want)
		}
	}
	return &CoarseMesh{trees: trees}, nil
}

// NumTrees returns the number of coarse trees.
func (m *CoarseMesh) NumTrees() int { return len(m.trees) }

// Class returns the element class of coarse tree tid.
func (m *CoarseMesh) Class(tid int) scheme.Class { return m.trees[tid].Class }

// Vertices returns the corner coordinates of coarse tree tid, in the
// class's canonical corner order.
func (m *CoarseMesh) Vertices(tid int) [][3]float64 { return m.trees[tid].Vertices }

// FaceJoin returns the neighbor join across face f of coarse tree tid.
func (m *CoarseMesh) FaceJoin(tid int, f int) FaceJoin { return m.trees[tid].Faces[f] }

// Attribute looks up a typed per-tree attribute, returning ok=false if
// unset.
func (m *CoarseMesh) Attribute(tid int, key AttrKey) (any, bool) {
	v, ok := m.trees[tid].Attrs[key]
	return v, ok
}

// SetAttribute stores a typed per-tree attribute. Only legal before
// the coarse mesh is shared with a forest; callers own that
// discipline (the forest only ever reads).
func (m *CoarseMesh) SetAttribute(tid int, key AttrKey, value any) {
	t := &m.trees[tid]
	if t.Attrs == nil {
		t.Attrs = make(map[AttrKey]any)
	}
	t.Attrs[key] = value
}
