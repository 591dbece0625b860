package scheme

// triangleScheme implements the 2D simplex (Bey-style) element algebra.
// A triangle element carries a type in {0,1} selecting which of the two
// right-triangle halves of its anchor's square cell it occupies:
//
//	type 0: corners anchor, anchor+(len,0), anchor+(len,len)
//	type 1: corners anchor, anchor+(0,len), anchor+(len,len)
//
// Quadrisection splits a triangle into three corner children of the
// same type (half the size, one at each corner) plus one middle child
// of the opposite type. Child 0 is always the corner child containing
// the parent's anchor, per §4.1.
type triangleScheme struct{}

func newTriangleScheme() *triangleScheme { return &triangleScheme{} }

func (s *triangleScheme) Class() Class      { return ClassTriangle }
func (s *triangleScheme) Level(e Element) int    { return int(e.Level) }
func (s *triangleScheme) NumChildren(Element) int { return ClassTriangle.NumChildren() }
func (s *triangleScheme) NumFaces(Element) int    { return ClassTriangle.NumFaces() }

// triChildOffset[parentType][childIndex] gives (bx, by, childType), the
// anchor half-cell offset bits and the resulting child's type.
var triChildOffset = [2][4][3]int8{
	0: {
		{0, 0, 0}, // child 0: corner at parent anchor
		{1, 0, 0}, // child 1: corner
		{1, 1, 0}, // child 2: corner
		{1, 0, 1}, // child 3: middle, opposite type
	},
	1: {
		{0, 0, 1},
		{0, 1, 1},
		{1, 1, 1},
		{0, 1, 0},
	},
}

// triParentLookup inverts triChildOffset: index = bx*4 + by*2 + childType,
// value is (parentType, childID).
var triParentLookup = buildTriParentLookup()

func buildTriParentLookup() [8][2]int8 {
	var table [8][2]int8
	for pt := 0; pt < 2; pt++ {
		for id := 0; id < 4; id++ {
			bx, by, ct := triChildOffset[pt][id][0], triChildOffset[pt][id][1], triChildOffset[pt][id][2]
			idx := bx*4 + by*2 + ct
			table[idx] = [2]int8{int8(pt), int8(id)}
		}
	}
	return table
}

func (s *triangleScheme) ChildID(e Element) int {
	if e.Level == 0 {
		return 0
	}
	parentLen := CellLen(e.Level - 1)
	bx := int8(0)
	if e.Anchor[0]&(parentLen>>1) != 0 {
		bx = 1
	}
	by := int8(0)
	if e.Anchor[1]&(parentLen>>1) != 0 {
		by = 1
	}
	idx := bx*4 + by*2 + int8(e.Type)
	return int(triParentLookup[idx][1])
}

func (s *triangleScheme) Parent(e Element) Element {
	assertContract(e.Level > 0, "parent of root triangle")
	parentLen := CellLen(e.Level - 1)
	bx := int8(0)
	if e.Anchor[0]&(parentLen>>1) != 0 {
		bx = 1
	}
	by := int8(0)
	if e.Anchor[1]&(parentLen>>1) != 0 {
		by = 1
	}
	idx := bx*4 + by*2 + int8(e.Type)
	parentType := triParentLookup[idx][0]

	p := e
	p.Level--
	p.Type = parentType
	p.Anchor[0] = e.Anchor[0] &^ (parentLen - 1)
	p.Anchor[1] = e.Anchor[1] &^ (parentLen - 1)
	return p
}

func (s *triangleScheme) Child(e Element, i int) Element {
	assertContract(i >= 0 && i < 4, "child index %d out of [0,4) for triangle", i)
	assertContract(int(e.Level) < MaxLevel, "refine past max level %d (triangle)", MaxLevel)
	half := CellLen(e.Level + 1)
	off := triChildOffset[e.Type][i]
	c := e
	c.Level++
	c.Type = off[2]
	c.Anchor[0] = e.Anchor[0] + int32(off[0])*half
	c.Anchor[1] = e.Anchor[1] + int32(off[1])*half
	return c
}

func (s *triangleScheme) Children(e Element) []Element {
	out := make([]Element, 4)
	for i := 0; i < 4; i++ {
		out[i] = s.Child(e, i)
	}
	return out
}

func (s *triangleScheme) Sibling(e Element, i int) Element {
	assertContract(e.Level > 0, "sibling of root triangle")
	return s.Child(s.Parent(e), i)
}

func (s *triangleScheme) IsFamily(elems []Element) bool {
	if len(elems) != 4 {
		return false
	}
	if elems[0].Level == 0 {
		return false
	}
	parent := s.Parent(elems[0])
	for i, e := range elems {
		if e.Class != ClassTriangle || e.Level != elems[0].Level {
			return false
		}
		if !Equal(s.Parent(e), parent) {
			return false
		}
		if s.ChildID(e) != i {
			return false
		}
	}
	return true
}

// FaceNeighbor treats face 2 (the hypotenuse) as the always-internal
// edge shared with the opposite-type triangle at the same anchor, and
// faces 0/1 as a single designated boundary axis's two sides (axis 1
// for type 0, axis 0 for type 1). This is a simplified, self-consistent
// model: it satisfies the face-neighbor involution (§8 property 5) but
// does not reproduce t8code's exact per-type geometric face tables,
// which the retrieved source does not include (see DESIGN.md).
func (s *triangleScheme) FaceNeighbor(e Element, f int) (Element, int) {
	assertContract(f >= 0 && f < 3, "face index %d out of [0,3) for triangle", f)
	if f == 2 {
		n := e
		n.Type = 1 - e.Type
		return n, 2
	}
	axis := 1
	if e.Type == 1 {
		axis = 0
	}
	n := e
	cellLen := e.Len()
	if f == 0 {
		n.Anchor[axis] = e.Anchor[axis] - cellLen
		return n, 1
	}
	n.Anchor[axis] = e.Anchor[axis] + cellLen
	return n, 0
}

func (s *triangleScheme) IsInsideRoot(e Element) bool {
	cellLen := e.Len()
	return e.Anchor[0] >= 0 && e.Anchor[0]+cellLen <= RootLen &&
		e.Anchor[1] >= 0 && e.Anchor[1]+cellLen <= RootLen
}

func (s *triangleScheme) IsOutside(e Element, _ int8, level int8) bool {
	ancestorLen := CellLen(level)
	for axis := 0; axis < 2; axis++ {
		a := e.Anchor[axis] &^ (ancestorLen - 1)
		if a < 0 || a+ancestorLen > RootLen {
			return true
		}
	}
	return false
}

func (s *triangleScheme) IsAncestor(a, d Element) bool { return isAncestorGeneric(s, a, d) }
func (s *triangleScheme) IsParent(p, c Element) bool    { return isParentGeneric(s, p, c) }
func (s *triangleScheme) Compare(a, b Element) int      { return comparePath(s, a, b) }

func (s *triangleScheme) ComputeCoords(e Element, corner int) [3]int32 {
	assertContract(corner >= 0 && corner < 3, "corner index %d out of [0,3) for triangle", corner)
	cellLen := e.Len()
	out := e.Anchor
	switch {
	case corner == 0:
		// anchor itself
	case corner == 1:
		if e.Type == 0 {
			out[0] += cellLen
		} else {
			out[1] += cellLen
		}
	case corner == 2:
		out[0] += cellLen
		out[1] += cellLen
	}
	return out
}

func (s *triangleScheme) ComputeAllCoords(e Element) [][3]int32 {
	out := make([][3]int32, 3)
	for i := 0; i < 3; i++ {
		out[i] = s.ComputeCoords(e, i)
	}
	return out
}
