package adapt

import (
	"sort"
	"testing"

	"github.com/meshforest/forest/pkg/scheme"
)

// uniformLevel2 returns every level-2 descendant of a class's root
// element, sorted in SFC order, the shape any committed tree's source
// sequence must already be in.
func uniformLevel2(s scheme.Scheme, class scheme.Class) []scheme.Element {
	var out []scheme.Element
	for _, l1 := range s.Children(scheme.Root(class)) {
		out = append(out, s.Children(l1)...)
	}
	sort.Slice(out, func(i, j int) bool { return s.Compare(out[i], out[j]) < 0 })
	return out
}

func quadScheme(t *testing.T) scheme.Scheme {
	t.Helper()
	return scheme.NewRegistry().For(scheme.ClassQuad)
}

// identity: a predicate that always returns 0 must leave the sequence
// unchanged, element for element.
func TestRun_IdentityPredicate(t *testing.T) {
	s := quadScheme(t)
	src := s.Children(s.Children(scheme.Root(scheme.ClassQuad))[0])
	keep := func(elems []scheme.Element) int { return 0 }

	out := Run(s, src, keep, nil, false)
	if len(out) != len(src) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(src))
	}
	for i := range src {
		if !scheme.Equal(out[i], src[i]) {
			t.Fatalf("element %d changed under identity predicate", i)
		}
	}
}

// refine-then-coarsen on the same family cancels out: refining a single
// root element non-recursively produces its children; coarsening that
// family (every element has a full sibling set) collapses it straight
// back to the original parent.
func TestRun_RefineThenCoarsenCancels(t *testing.T) {
	s := quadScheme(t)
	root := scheme.Root(scheme.ClassQuad)
	src := []scheme.Element{root}

	refineAll := func(elems []scheme.Element) int { return 1 }
	refined := Run(s, src, refineAll, nil, false)
	if len(refined) != s.NumChildren(root) {
		t.Fatalf("len(refined) = %d, want %d", len(refined), s.NumChildren(root))
	}

	coarsenAll := func(elems []scheme.Element) int {
		if len(elems) == s.NumChildren(elems[0]) {
			return -1
		}
		return 0
	}
	coarsened := Run(s, refined, coarsenAll, nil, false)
	if len(coarsened) != 1 {
		t.Fatalf("len(coarsened) = %d, want 1", len(coarsened))
	}
	if !scheme.Equal(coarsened[0], root) {
		t.Fatalf("coarsened element = %+v, want root %+v", coarsened[0], root)
	}
}

// the output of Run is always strictly SFC-sorted, whatever mix of
// refine/keep/coarsen decisions the predicate makes.
func TestRun_OutputStaysSFCSorted(t *testing.T) {
	s := quadScheme(t)
	level2 := uniformLevel2(s, scheme.ClassQuad)

	mixed := func(elems []scheme.Element) int {
		if elems[0].Anchor[0] == 0 {
			return 1
		}
		return 0
	}
	out := Run(s, level2, mixed, nil, false)
	for i := 0; i+1 < len(out); i++ {
		if s.Compare(out[i], out[i+1]) >= 0 {
			t.Fatalf("elements %d,%d not strictly SFC-sorted: %+v, %+v", i, i+1, out[i], out[i+1])
		}
	}
}

// recursive refinement stops at the level where the predicate stops
// asking for it (a cap of 4 here) and never produces duplicate elements.
// Past the class's max level scheme.Child's own assertion would stop it;
// this test does not go there, since the predicate itself respects the
// cap, which is the contract recursive mode expects callers to honor.
func TestRun_RecursiveRefineTerminatesAtCap(t *testing.T) {
	s := quadScheme(t)
	const cap = 4
	src := []scheme.Element{scheme.Root(scheme.ClassQuad)}

	toCap := func(elems []scheme.Element) int {
		if int(elems[0].Level) < cap {
			return 1
		}
		return 0
	}
	out := Run(s, src, toCap, nil, true)

	want := 1
	for i := 0; i < cap; i++ {
		want *= s.NumChildren(scheme.Element{Class: scheme.ClassQuad})
	}
	if len(out) != want {
		t.Fatalf("len(out) = %d, want %d", len(out), want)
	}
	seen := make(map[scheme.Element]bool, len(out))
	for _, e := range out {
		if int(e.Level) != cap {
			t.Fatalf("element %+v not at cap level %d", e, cap)
		}
		if seen[e] {
			t.Fatalf("duplicate element %+v in recursive refine output", e)
		}
		seen[e] = true
	}
}

// a family window that declines to coarsen still refines only its first
// element, exactly as a singleton candidate would (§4.4).
func TestRun_PositiveOnFamilyRefinesOnlyFirst(t *testing.T) {
	s := quadScheme(t)
	family := s.Children(scheme.Root(scheme.ClassQuad))

	refineFirstOnly := func(elems []scheme.Element) int {
		if len(elems) > 1 {
			return 1
		}
		return 0
	}
	out := Run(s, family, refineFirstOnly, nil, false)

	wantLen := s.NumChildren(family[0]) + (len(family) - 1)
	if len(out) != wantLen {
		t.Fatalf("len(out) = %d, want %d", len(out), wantLen)
	}
	for _, e := range out[:s.NumChildren(family[0])] {
		if int(e.Level) != int(family[0].Level)+1 {
			t.Fatalf("expected refined child at level %d, got %+v", family[0].Level+1, e)
		}
	}
}

// coarsen (-1) on a window that isn't a genuine family is a contract
// violation and must panic rather than silently collapse.
func TestRun_CoarsenOnNonFamilyPanics(t *testing.T) {
	s := quadScheme(t)
	root := scheme.Root(scheme.ClassQuad)
	singleton := []scheme.Element{root}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for coarsen on a non-family window")
		}
	}()
	Run(s, singleton, func(elems []scheme.Element) int { return -1 }, nil, false)
}

// coarsenLoop must never re-coarsen a family sitting at or above the
// coarsen floor, even when the predicate would otherwise say -1: the
// floor marks the position of a family just produced by a refine
// earlier in the same adapt pass, and collapsing it back would silently
// undo that refine decision. This is the "ambiguity in source" coarsen
// floor regression the adapt algorithm's recursive mode depends on.
func TestCoarsenLoop_RespectsCoarsenFloor(t *testing.T) {
	s := quadScheme(t)
	root := scheme.Root(scheme.ClassQuad)
	family := s.Children(root)

	alwaysCoarsen := func(elems []scheme.Element) int { return -1 }

	out := append([]scheme.Element(nil), family...)
	coarsenFloor := len(out)
	var buf []scheme.Element
	var coarsened int64

	got, gotFloor := coarsenLoop(s, out, s.NumChildren(root), coarsenFloor, alwaysCoarsen, nil, &buf, &coarsened)

	if len(got) != len(family) {
		t.Fatalf("coarsenLoop collapsed a family at the coarsen floor: len(out) = %d, want %d", len(got), len(family))
	}
	for i := range family {
		if !scheme.Equal(got[i], family[i]) {
			t.Fatalf("coarsenLoop mutated element %d despite the coarsen floor guard: got %+v, want %+v", i, got[i], family[i])
		}
	}
	if gotFloor != coarsenFloor {
		t.Fatalf("coarsenFloor changed from %d to %d despite no coarsening", coarsenFloor, gotFloor)
	}
	if coarsened != 0 {
		t.Fatalf("coarsened counter = %d, want 0", coarsened)
	}
}

// as a contrast to the floor guard above, a genuine family sitting
// below the coarsen floor is collapsed exactly as the predicate asks.
func TestCoarsenLoop_CollapsesBelowFloor(t *testing.T) {
	s := quadScheme(t)
	root := scheme.Root(scheme.ClassQuad)
	family := s.Children(root)

	alwaysCoarsen := func(elems []scheme.Element) int { return -1 }

	out := append([]scheme.Element(nil), family...)
	var buf []scheme.Element
	var coarsened int64

	got, gotFloor := coarsenLoop(s, out, s.NumChildren(root), 0, alwaysCoarsen, nil, &buf, &coarsened)

	if len(got) != 1 {
		t.Fatalf("len(out) = %d, want 1 (collapsed to parent)", len(got))
	}
	if !scheme.Equal(got[0], root) {
		t.Fatalf("collapsed element = %+v, want root %+v", got[0], root)
	}
	if gotFloor != 0 {
		t.Fatalf("coarsenFloor = %d, want unchanged 0", gotFloor)
	}
	if coarsened != int64(s.NumChildren(root)) {
		t.Fatalf("coarsened counter = %d, want %d", coarsened, s.NumChildren(root))
	}
}

// the replace callback fires for every topology change with the
// consumed window and its replacement (a kept element is reported too,
// with identical old and new windows); this test checks the refine case.
func TestRun_ReplaceCallbackFiresOnChange(t *testing.T) {
	s := quadScheme(t)
	root := scheme.Root(scheme.ClassQuad)
	src := []scheme.Element{root}

	var gotOld, gotNew []scheme.Element
	replace := func(old, new []scheme.Element) {
		gotOld = append([]scheme.Element(nil), old...)
		gotNew = append([]scheme.Element(nil), new...)
	}
	Run(s, src, func(elems []scheme.Element) int { return 1 }, replace, false)

	if len(gotOld) != 1 || !scheme.Equal(gotOld[0], root) {
		t.Fatalf("replace callback old = %+v, want [%+v]", gotOld, root)
	}
	if len(gotNew) != s.NumChildren(root) {
		t.Fatalf("replace callback new len = %d, want %d", len(gotNew), s.NumChildren(root))
	}
}
