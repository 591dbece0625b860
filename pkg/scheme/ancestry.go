package scheme

// ancestorAt walks e's parent chain up to the given level (which must
// not exceed e's own level) and returns the ancestor element there.
// This is the single source of truth every Scheme's IsAncestor/IsParent
// implementation delegates to, so ancestry is always consistent with
// whatever Parent/Child a class defines — including type-carrying
// simplex classes where ancestry cannot be derived from anchor
// arithmetic alone.
func ancestorAt(s Scheme, e Element, level int) Element {
	cur := e
	for int(cur.Level) > level {
		cur = s.Parent(cur)
	}
	return cur
}

// isAncestorGeneric implements IsAncestor for any Scheme in terms of
// Parent alone.
func isAncestorGeneric(s Scheme, a, d Element) bool {
	if a.Level >= d.Level || a.Class != d.Class {
		return false
	}
	return Equal(ancestorAt(s, d, int(a.Level)), a)
}

// isParentGeneric implements IsParent for any Scheme in terms of Parent
// alone.
func isParentGeneric(s Scheme, p, c Element) bool {
	if c.Level == 0 || p.Level != c.Level-1 || p.Class != c.Class {
		return false
	}
	return Equal(s.Parent(c), p)
}
