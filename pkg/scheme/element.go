package scheme

// Element is the opaque per-class element representation: an anchor
// coordinate in the class's integer grid, a refinement level, and (for
// simplex/pyramid classes) a type selecting the sub-cell orientation
// produced by the last refinement.
//
// Anchor coordinates are always multiples of 2^(MaxLevel-Level); the
// unused trailing components for lower-dimensional classes are zero.
type Element struct {
	Class  Class
	Level  int8
	Type   int8
	Anchor [3]int32
}

// Root returns the unique level-0 element of the given class: anchor
// zero, type zero.
func Root(class Class) Element {
	return Element{Class: class}
}

// CellLen returns the side length, in integer-grid units, of an element
// at the given level: 2^(MaxLevel-level).
func CellLen(level int8) int32 {
	return int32(1) << uint(MaxLevel-int(level))
}

// Len returns this element's own cell length.
func (e Element) Len() int32 { return CellLen(e.Level) }

// Equal reports whether a and b describe the same element: same class,
// level, type and anchor.
func Equal(a, b Element) bool {
	return a.Class == b.Class && a.Level == b.Level && a.Type == b.Type && a.Anchor == b.Anchor
}
