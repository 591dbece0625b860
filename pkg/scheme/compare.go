package scheme

// comparePath implements the total SFC order shared by every class: the
// child-id path from the root to e is, by construction of the
// per-class canonical child ordering (Morton for tensor-product
// classes, Bey for simplex classes), exactly the sequence of SFC digits
// of e, most significant (shallowest level) first. Comparing two
// elements' paths lexicographically therefore reproduces: equal-level
// SFC order when levels agree, and "ancestor precedes its proper
// descendants" when one path is a strict prefix of the other (§4.1).
func comparePath(s Scheme, a, b Element) int {
	pa := childIDPath(s, a)
	pb := childIDPath(s, b)
	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(pa) == len(pb):
		return 0
	case len(pa) < len(pb):
		return -1
	default:
		return 1
	}
}

func childIDPath(s Scheme, e Element) []int {
	path := make([]int, e.Level)
	cur := e
	for lvl := int(e.Level); lvl > 0; lvl-- {
		path[lvl-1] = s.ChildID(cur)
		cur = s.Parent(cur)
	}
	return path
}
