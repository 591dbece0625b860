package scheme

// pyramidScheme implements the pyramid class with a reduced-fidelity
// but structurally complete element algebra. A pyramid carries no type
// (NumTypes==1). Refinement into 10 children uses the 8 standard
// octants of the parent cell (as for hex) for children 0-7, plus two
// extra children addressed on a finer quarter-cell grid for 8-9. This
// does not reproduce t8code's true pyramid-to-pyramid-and-tetrahedra
// refinement (which changes class mid-refinement); no source for that
// decomposition was retrieved (see DESIGN.md). It does give every
// pyramid a well-defined, invertible parent/child/sibling/SFC algebra
// satisfying the §8 invariants.
type pyramidScheme struct{}

func newPyramidScheme() *pyramidScheme { return &pyramidScheme{} }

func (s *pyramidScheme) Class() Class        { return ClassPyramid }
func (s *pyramidScheme) Level(e Element) int { return int(e.Level) }
func (s *pyramidScheme) NumChildren(Element) int { return ClassPyramid.NumChildren() }
func (s *pyramidScheme) NumFaces(Element) int    { return ClassPyramid.NumFaces() }

// pyrChildOffset[i] gives the child anchor offset in units of the
// quarter-cell (childLen/2) grid, one entry per axis.
var pyrChildOffset = [10][3]int8{
	{0, 0, 0}, {2, 0, 0}, {0, 2, 0}, {2, 2, 0},
	{0, 0, 2}, {2, 0, 2}, {0, 2, 2}, {2, 2, 2},
	{1, 1, 0}, {3, 3, 2},
}

func buildPyrParentLookup() map[[3]int8]int {
	m := make(map[[3]int8]int, 10)
	for i, off := range pyrChildOffset {
		m[off] = i
	}
	return m
}

var pyrParentLookup = buildPyrParentLookup()

func (s *pyramidScheme) quarter(childLevel int8) int32 {
	return CellLen(childLevel + 1)
}

func (s *pyramidScheme) ChildID(e Element) int {
	if e.Level == 0 {
		return 0
	}
	parentLen := CellLen(e.Level - 1)
	quarter := s.quarter(e.Level)
	var off [3]int8
	for d := 0; d < 3; d++ {
		base := e.Anchor[d] &^ (parentLen - 1)
		off[d] = int8((e.Anchor[d] - base) / quarter)
	}
	id, ok := pyrParentLookup[off]
	assertContract(ok, "pyramid child anchor does not match any known child offset")
	return id
}

func (s *pyramidScheme) Parent(e Element) Element {
	assertContract(e.Level > 0, "parent of root pyramid")
	parentLen := CellLen(e.Level - 1)
	p := e
	p.Level--
	for d := 0; d < 3; d++ {
		p.Anchor[d] = e.Anchor[d] &^ (parentLen - 1)
	}
	return p
}

func (s *pyramidScheme) Child(e Element, i int) Element {
	assertContract(i >= 0 && i < 10, "child index %d out of [0,10) for pyramid", i)
	assertContract(int(e.Level) < MaxLevel-1, "refine past supported level %d (pyramid)", MaxLevel-1)
	c := e
	c.Level++
	quarter := s.quarter(c.Level)
	off := pyrChildOffset[i]
	for d := 0; d < 3; d++ {
		c.Anchor[d] = e.Anchor[d] + int32(off[d])*quarter
	}
	return c
}

func (s *pyramidScheme) Children(e Element) []Element {
	out := make([]Element, 10)
	for i := 0; i < 10; i++ {
		out[i] = s.Child(e, i)
	}
	return out
}

func (s *pyramidScheme) Sibling(e Element, i int) Element {
	assertContract(e.Level > 0, "sibling of root pyramid")
	return s.Child(s.Parent(e), i)
}

func (s *pyramidScheme) IsFamily(elems []Element) bool {
	if len(elems) != 10 {
		return false
	}
	if elems[0].Level == 0 {
		return false
	}
	parent := s.Parent(elems[0])
	for i, e := range elems {
		if e.Class != ClassPyramid || e.Level != elems[0].Level {
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

// FaceNeighbor treats faces 0-3 as the four quad-style side faces (two
// per axis 0 and 1) and face 4 as the single base face along axis 2;
// the apex has no face in this reduced model. See the type doc comment.
func (s *pyramidScheme) FaceNeighbor(e Element, f int) (Element, int) {
	assertContract(f >= 0 && f < 5, "face index %d out of [0,5) for pyramid", f)
	n := e
	cellLen := e.Len()
	if f == 4 {
		n.Anchor[2] = e.Anchor[2] - cellLen
		return n, 4
	}
	axis := f / 2
	side := f % 2
	if side == 0 {
		n.Anchor[axis] = e.Anchor[axis] - cellLen
		return n, 2*axis + 1
	}
	n.Anchor[axis] = e.Anchor[axis] + cellLen
	return n, 2 * axis
}

func (s *pyramidScheme) IsInsideRoot(e Element) bool {
	cellLen := e.Len()
	for d := 0; d < 3; d++ {
		if e.Anchor[d] < 0 || e.Anchor[d]+cellLen > RootLen {
			return false
		}
	}
	return true
}

func (s *pyramidScheme) IsOutside(e Element, _ int8, level int8) bool {
	ancestorLen := CellLen(level)
	for d := 0; d < 3; d++ {
		a := e.Anchor[d] &^ (ancestorLen - 1)
		if a < 0 || a+ancestorLen > RootLen {
			return true
		}
	}
	return false
}

func (s *pyramidScheme) IsAncestor(a, d Element) bool { return isAncestorGeneric(s, a, d) }
func (s *pyramidScheme) IsParent(p, c Element) bool    { return isParentGeneric(s, p, c) }
func (s *pyramidScheme) Compare(a, b Element) int      { return comparePath(s, a, b) }

// ComputeCoords returns the 4 base corners (0-3, a square at the
// element's anchor z-plane) and the apex (corner 4, centered above the
// base at z+cellLen).
func (s *pyramidScheme) ComputeCoords(e Element, corner int) [3]int32 {
	assertContract(corner >= 0 && corner < 5, "corner index %d out of [0,5) for pyramid", corner)
	cellLen := e.Len()
	if corner == 4 {
		return [3]int32{e.Anchor[0] + cellLen/2, e.Anchor[1] + cellLen/2, e.Anchor[2] + cellLen}
	}
	out := e.Anchor
	if corner&1 == 1 {
		out[0] += cellLen
	}
	if corner&2 == 2 {
		out[1] += cellLen
	}
	return out
}

func (s *pyramidScheme) ComputeAllCoords(e Element) [][3]int32 {
	out := make([][3]int32, 5)
	for i := 0; i < 5; i++ {
		out[i] = s.ComputeCoords(e, i)
	}
	return out
}
