package scheme

// prismScheme implements the prism (triangular wedge) class as the
// tensor product of a triangle cross-section and a line extrusion
// axis: anchor components 0,1 and the type follow triangleScheme,
// anchor component 2 follows the line tensorScheme. Level is shared by
// both factors. Child index i decomposes as i = triIndex*2 + lineIndex.
type prismScheme struct {
	tri  *triangleScheme
	line *tensorScheme
}

func newPrismScheme(tri *triangleScheme, line *tensorScheme) *prismScheme {
	return &prismScheme{tri: tri, line: line}
}

func (s *prismScheme) Class() Class       { return ClassPrism }
func (s *prismScheme) Level(e Element) int { return int(e.Level) }
func (s *prismScheme) NumChildren(Element) int { return ClassPrism.NumChildren() }
func (s *prismScheme) NumFaces(Element) int    { return ClassPrism.NumFaces() }

func (s *prismScheme) triPart(e Element) Element {
	return Element{Class: ClassTriangle, Level: e.Level, Type: e.Type, Anchor: [3]int32{e.Anchor[0], e.Anchor[1], 0}}
}

func (s *prismScheme) linePart(e Element) Element {
	return Element{Class: ClassLine, Level: e.Level, Anchor: [3]int32{e.Anchor[2], 0, 0}}
}

func (s *prismScheme) ChildID(e Element) int {
	if e.Level == 0 {
		return 0
	}
	return s.tri.ChildID(s.triPart(e))*2 + s.line.ChildID(s.linePart(e))
}

func (s *prismScheme) Parent(e Element) Element {
	assertContract(e.Level > 0, "parent of root prism")
	tp := s.tri.Parent(s.triPart(e))
	lp := s.line.Parent(s.linePart(e))
	p := e
	p.Level--
	p.Type = tp.Type
	p.Anchor = [3]int32{tp.Anchor[0], tp.Anchor[1], lp.Anchor[0]}
	return p
}

func (s *prismScheme) Child(e Element, i int) Element {
	assertContract(i >= 0 && i < 8, "child index %d out of [0,8) for prism", i)
	triIdx, lineIdx := i/2, i%2
	tc := s.tri.Child(s.triPart(e), triIdx)
	lc := s.line.Child(s.linePart(e), lineIdx)
	c := e
	c.Level++
	c.Type = tc.Type
	c.Anchor = [3]int32{tc.Anchor[0], tc.Anchor[1], lc.Anchor[0]}
	return c
}

func (s *prismScheme) Children(e Element) []Element {
	out := make([]Element, 8)
	for i := 0; i < 8; i++ {
		out[i] = s.Child(e, i)
	}
	return out
}

func (s *prismScheme) Sibling(e Element, i int) Element {
	assertContract(e.Level > 0, "sibling of root prism")
	return s.Child(s.Parent(e), i)
}

func (s *prismScheme) IsFamily(elems []Element) bool {
	if len(elems) != 8 {
		return false
	}
	if elems[0].Level == 0 {
		return false
	}
	parent := s.Parent(elems[0])
	for i, e := range elems {
		if e.Class != ClassPrism || e.Level != elems[0].Level {
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

// FaceNeighbor maps faces 0,1 to the two line-extrusion caps and faces
// 2,3,4 to the three triangle side faces carried at the same z extent.
func (s *prismScheme) FaceNeighbor(e Element, f int) (Element, int) {
	assertContract(f >= 0 && f < 5, "face index %d out of [0,5) for prism", f)
	if f < 2 {
		ln, lf := s.line.FaceNeighbor(s.linePart(e), f)
		n := e
		n.Anchor[2] = ln.Anchor[0]
		return n, lf
	}
	tn, tf := s.tri.FaceNeighbor(s.triPart(e), f-2)
	n := e
	n.Type = tn.Type
	n.Anchor[0], n.Anchor[1] = tn.Anchor[0], tn.Anchor[1]
	return n, tf + 2
}

func (s *prismScheme) IsInsideRoot(e Element) bool {
	return s.tri.IsInsideRoot(s.triPart(e)) && s.line.IsInsideRoot(s.linePart(e))
}

func (s *prismScheme) IsOutside(e Element, rootType int8, level int8) bool {
	return s.tri.IsOutside(s.triPart(e), rootType, level) || s.line.IsOutside(s.linePart(e), rootType, level)
}

func (s *prismScheme) IsAncestor(a, d Element) bool { return isAncestorGeneric(s, a, d) }
func (s *prismScheme) IsParent(p, c Element) bool    { return isParentGeneric(s, p, c) }
func (s *prismScheme) Compare(a, b Element) int      { return comparePath(s, a, b) }

func (s *prismScheme) ComputeCoords(e Element, corner int) [3]int32 {
	assertContract(corner >= 0 && corner < 6, "corner index %d out of [0,6) for prism", corner)
	triCorner, lineSide := corner%3, corner/3
	tv := s.tri.ComputeCoords(s.triPart(e), triCorner)
	lv := s.line.ComputeCoords(s.linePart(e), lineSide)
	return [3]int32{tv[0], tv[1], lv[0]}
}

func (s *prismScheme) ComputeAllCoords(e Element) [][3]int32 {
	out := make([][3]int32, 6)
	for i := 0; i < 6; i++ {
		out[i] = s.ComputeCoords(e, i)
	}
	return out
}
