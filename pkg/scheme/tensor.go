package scheme

// tensorScheme implements the element algebra shared by every
// tensor-product class (line, quad, hex): children are numbered in
// Morton order, 2^dim of them per refinement, and carry no type.
type tensorScheme struct {
	class Class
	dim   int
}

func newTensorScheme(class Class) *tensorScheme {
	return &tensorScheme{class: class, dim: class.Dim()}
}

func newVertexScheme() *tensorScheme {
	return &tensorScheme{class: ClassVertex, dim: 0}
}

func (s *tensorScheme) Class() Class { return s.class }

func (s *tensorScheme) Level(e Element) int { return int(e.Level) }

func (s *tensorScheme) NumChildren(Element) int { return s.class.NumChildren() }

func (s *tensorScheme) NumFaces(Element) int { return s.class.NumFaces() }

func (s *tensorScheme) ChildID(e Element) int {
	if e.Level == 0 {
		return 0
	}
	shift := uint(MaxLevel - int(e.Level))
	id := 0
	for d := 0; d < s.dim; d++ {
		bit := (e.Anchor[d] >> shift) & 1
		id |= int(bit) << uint(d)
	}
	return id
}

func (s *tensorScheme) Parent(e Element) Element {
	assertContract(e.Level > 0, "parent of root element (class %v)", s.class)
	parentLen := CellLen(e.Level - 1)
	p := e
	p.Level--
	for d := 0; d < s.dim; d++ {
		p.Anchor[d] = e.Anchor[d] &^ (parentLen - 1)
	}
	return p
}

func (s *tensorScheme) Child(e Element, i int) Element {
	n := s.class.NumChildren()
	assertContract(i >= 0 && i < n, "child index %d out of [0,%d) for class %v", i, n, s.class)
	assertContract(int(e.Level) < MaxLevel, "refine past max level %d (class %v)", MaxLevel, s.class)
	childLen := CellLen(e.Level + 1)
	c := e
	c.Level++
	for d := 0; d < s.dim; d++ {
		bit := (i >> uint(d)) & 1
		c.Anchor[d] = e.Anchor[d] + int32(bit)*childLen
	}
	return c
}

func (s *tensorScheme) Children(e Element) []Element {
	n := s.class.NumChildren()
	out := make([]Element, n)
	for i := 0; i < n; i++ {
		out[i] = s.Child(e, i)
	}
	return out
}

func (s *tensorScheme) Sibling(e Element, i int) Element {
	assertContract(e.Level > 0, "sibling of root element (class %v)", s.class)
	return s.Child(s.Parent(e), i)
}

func (s *tensorScheme) IsFamily(elems []Element) bool {
	n := s.class.NumChildren()
	if len(elems) != n {
		return false
	}
	if elems[0].Level == 0 {
		return false
	}
	parent := s.Parent(elems[0])
	for i, e := range elems {
		if e.Class != s.class || e.Level != elems[0].Level {
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

// faceAxis and faceSide decode the tensor face convention: face
// f = 2*axis + side, side 0 is the negative-direction face.
func faceAxis(f int) int { return f / 2 }
func faceSide(f int) int { return f % 2 }

func (s *tensorScheme) FaceNeighbor(e Element, f int) (Element, int) {
	nf := s.class.NumFaces()
	assertContract(f >= 0 && f < nf, "face index %d out of [0,%d) for class %v", f, nf, s.class)
	axis := faceAxis(f)
	side := faceSide(f)
	n := e
	cellLen := e.Len()
	if side == 0 {
		n.Anchor[axis] = e.Anchor[axis] - cellLen
		return n, 2*axis + 1
	}
	n.Anchor[axis] = e.Anchor[axis] + cellLen
	return n, 2 * axis
}

func (s *tensorScheme) IsInsideRoot(e Element) bool {
	cellLen := e.Len()
	for d := 0; d < s.dim; d++ {
		if e.Anchor[d] < 0 || e.Anchor[d]+cellLen > RootLen {
			return false
		}
	}
	return true
}

func (s *tensorScheme) IsOutside(e Element, _ int8, level int8) bool {
	ancestorLen := CellLen(level)
	for d := 0; d < s.dim; d++ {
		a := e.Anchor[d] &^ (ancestorLen - 1)
		if a < 0 || a+ancestorLen > RootLen {
			return true
		}
	}
	return false
}

func (s *tensorScheme) IsAncestor(a, d Element) bool { return isAncestorGeneric(s, a, d) }

func (s *tensorScheme) IsParent(p, c Element) bool { return isParentGeneric(s, p, c) }

func (s *tensorScheme) Compare(a, b Element) int { return comparePath(s, a, b) }

func (s *tensorScheme) ComputeCoords(e Element, corner int) [3]int32 {
	cellLen := e.Len()
	out := e.Anchor
	for d := 0; d < s.dim; d++ {
		if (corner>>uint(d))&1 == 1 {
			out[d] += cellLen
		}
	}
	return out
}

func (s *tensorScheme) ComputeAllCoords(e Element) [][3]int32 {
	n := s.class.NumCorners()
	out := make([][3]int32, n)
	for i := 0; i < n; i++ {
		out[i] = s.ComputeCoords(e, i)
	}
	return out
}
