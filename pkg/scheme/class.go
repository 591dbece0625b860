// Package scheme implements the per-element-class combinatorial algebra:
// parent, children, siblings, face neighbors, ancestry and SFC ordering,
// purely as functions of an element's anchor, level and (for simplex
// classes) type. It owns no element storage; see package forest for that.
package scheme

import "fmt"

// Class is the closed enumeration of element classes a tree may hold.
type Class uint8

const (
	ClassVertex Class = iota
	ClassLine
	ClassQuad
	ClassHex
	ClassTriangle
	ClassTet
	ClassPrism
	ClassPyramid
	numClasses
)

func (c Class) String() string {
	switch c {
	case ClassVertex:
		return "vertex"
	case ClassLine:
		return "line"
	case ClassQuad:
		return "quad"
	case ClassHex:
		return "hex"
	case ClassTriangle:
		return "triangle"
	case ClassTet:
		return "tet"
	case ClassPrism:
		return "prism"
	case ClassPyramid:
		return "pyramid"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// MaxLevel is the deepest level any class supports. All classes share an
// integer grid of this many refinement levels so that sibling anchors
// across classes never overflow an int32 coordinate.
const MaxLevel = 29

// RootLen is the side length of the root element's integer grid, i.e.
// 2^MaxLevel.
const RootLen int32 = 1 << MaxLevel

// classInfo carries the fixed, class-specific shape constants.
type classInfo struct {
	dim         int
	numChildren int
	numFaces    int
	numCorners  int
	numTypes    int // 1 if the class carries no type attribute
}

var infoTable = [numClasses]classInfo{
	ClassVertex:   {dim: 0, numChildren: 1, numFaces: 0, numCorners: 1, numTypes: 1},
	ClassLine:     {dim: 1, numChildren: 2, numFaces: 2, numCorners: 2, numTypes: 1},
	ClassQuad:     {dim: 2, numChildren: 4, numFaces: 4, numCorners: 4, numTypes: 1},
	ClassHex:      {dim: 3, numChildren: 8, numFaces: 6, numCorners: 8, numTypes: 1},
	ClassTriangle: {dim: 2, numChildren: 4, numFaces: 3, numCorners: 3, numTypes: 2},
	ClassTet:      {dim: 3, numChildren: 8, numFaces: 4, numCorners: 4, numTypes: 6},
	ClassPrism:    {dim: 3, numChildren: 8, numFaces: 5, numCorners: 6, numTypes: 2},
	ClassPyramid:  {dim: 3, numChildren: 10, numFaces: 5, numCorners: 5, numTypes: 1},
}

// Dim returns the topological dimension of the class.
func (c Class) Dim() int { return infoTable[c].dim }

// NumChildren returns the number of children produced by one refinement.
func (c Class) NumChildren() int { return infoTable[c].numChildren }

// NumFaces returns the number of faces of an element of this class.
func (c Class) NumFaces() int { return infoTable[c].numFaces }

// NumCorners returns the number of corners of an element of this class.
func (c Class) NumCorners() int { return infoTable[c].numCorners }

// NumTypes returns the number of distinct simplex/pyramid types for this
// class, or 1 for classes without a type attribute.
func (c Class) NumTypes() int { return infoTable[c].numTypes }

// HasType reports whether elements of this class carry a type attribute.
func (c Class) HasType() bool { return infoTable[c].numTypes > 1 }

// Valid reports whether c is one of the defined classes.
func (c Class) Valid() bool { return c < numClasses }
