package forest

import (
	"testing"

	"github.com/meshforest/forest/internal/cmesh"
	"github.com/meshforest/forest/pkg/scheme"
)

func newUniform(t *testing.T, m *cmesh.CoarseMesh, reg *scheme.Registry, level int) *Forest {
	t.Helper()
	f := New()
	f.SetScheme(reg)
	f.SetCMesh(m)
	f.SetLevel(level)
	if err := f.Commit(); err != nil {
		t.Fatalf("commit uniform level %d: %v", level, err)
	}
	return f
}

// S1: quad, single tree, uniform level 3 -> 64 elements, all level 3.
func TestS1QuadUniformLevel3(t *testing.T) {
	reg := scheme.NewRegistry()
	m, err := cmesh.NewSingleTree(scheme.ClassQuad)
	if err != nil {
		t.Fatal(err)
	}
	f := newUniform(t, m, reg, 3)
	if got := f.NumLocalElements(); got != 64 {
		t.Fatalf("NumLocalElements() = %d, want 64", got)
	}
	tr := f.Tree(0)
	for i := 0; i < tr.Len(); i++ {
		if tr.At(i).Level != 3 {
			t.Fatalf("element %d at level %d, want 3", i, tr.At(i).Level)
		}
	}
}

// S2: quad, uniform level 2 (16 elements), refine the 4 whose anchor
// touches the left root boundary (anchor[0]==0) -> 12 + 16 = 28.
func TestS2QuadBoundaryRefine(t *testing.T) {
	reg := scheme.NewRegistry()
	m, err := cmesh.NewSingleTree(scheme.ClassQuad)
	if err != nil {
		t.Fatal(err)
	}
	base := newUniform(t, m, reg, 2)
	if got := base.NumLocalElements(); got != 16 {
		t.Fatalf("base NumLocalElements() = %d, want 16", got)
	}

	target := New()
	target.SetScheme(reg)
	target.SetAdapt(base, func(f *Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
		if elems[0].Anchor[0] == 0 {
			return 1
		}
		return 0
	}, false)
	if err := target.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := target.NumLocalElements(); got != 28 {
		t.Fatalf("NumLocalElements() = %d, want 28", got)
	}
}

// S3: triangle, uniform level 2 (16 elements), coarsen every family ->
// 4, then again -> 1.
func TestS3TriangleCoarsenAll(t *testing.T) {
	reg := scheme.NewRegistry()
	m, err := cmesh.NewSingleTree(scheme.ClassTriangle)
	if err != nil {
		t.Fatal(err)
	}
	level2 := newUniform(t, m, reg, 2)
	if got := level2.NumLocalElements(); got != 16 {
		t.Fatalf("level2 NumLocalElements() = %d, want 16", got)
	}

	coarsenAll := func(f *Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
		if len(elems) == s.NumChildren(elems[0]) {
			return -1
		}
		return 0
	}

	level1 := New()
	level1.SetScheme(reg)
	level1.SetAdapt(level2, coarsenAll, false)
	if err := level1.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := level1.NumLocalElements(); got != 4 {
		t.Fatalf("level1 NumLocalElements() = %d, want 4", got)
	}

	level0 := New()
	level0.SetScheme(reg)
	level0.SetAdapt(level1, coarsenAll, false)
	if err := level0.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := level0.NumLocalElements(); got != 1 {
		t.Fatalf("level0 NumLocalElements() = %d, want 1", got)
	}
}

// S4: hex, uniform level 1 (8 elements), then refine-all recursive to
// level cap 3 -> 8^3 = 512 level-3 elements.
func TestS4HexRecursiveRefineAll(t *testing.T) {
	reg := scheme.NewRegistry()
	m, err := cmesh.NewSingleTree(scheme.ClassHex)
	if err != nil {
		t.Fatal(err)
	}
	level1 := newUniform(t, m, reg, 1)
	if got := level1.NumLocalElements(); got != 8 {
		t.Fatalf("level1 NumLocalElements() = %d, want 8", got)
	}

	target := New()
	target.SetScheme(reg)
	target.SetAdapt(level1, func(f *Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
		if elems[0].Level < 3 {
			return 1
		}
		return 0
	}, true)
	if err := target.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := target.NumLocalElements(); got != 512 {
		t.Fatalf("NumLocalElements() = %d, want 512", got)
	}
	tr := target.Tree(0)
	for i := 0; i < tr.Len(); i++ {
		if tr.At(i).Level != 3 {
			t.Fatalf("element %d at level %d, want 3", i, tr.At(i).Level)
		}
	}
}

// S5: triangle, level 2 (16 elements), refine exactly one specific
// element and keep the rest -> 16 - 1 + 4 = 19, SFC-sorted.
func TestS5TriangleSingleElementRefine(t *testing.T) {
	reg := scheme.NewRegistry()
	m, err := cmesh.NewSingleTree(scheme.ClassTriangle)
	if err != nil {
		t.Fatal(err)
	}
	level2 := newUniform(t, m, reg, 2)
	chosen := level2.Tree(0).At(5)

	target := New()
	target.SetScheme(reg)
	target.SetAdapt(level2, func(f *Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
		if scheme.Equal(elems[0], chosen) {
			return 1
		}
		return 0
	}, false)
	if err := target.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := target.NumLocalElements(); got != 19 {
		t.Fatalf("NumLocalElements() = %d, want 19", got)
	}
	tr := target.Tree(0)
	s := reg.For(scheme.ClassTriangle)
	for i := 0; i+1 < tr.Len(); i++ {
		if s.Compare(tr.At(i), tr.At(i+1)) >= 0 {
			t.Fatalf("elements %d,%d not strictly SFC-sorted", i, i+1)
		}
	}
}

// S6: replace-callback bookkeeping. Tag every source element; after
// refine-all each child's tag equals its parent's; after coarsen-all
// each parent's tag equals its first child's.
func TestS6ReplaceCallbackTags(t *testing.T) {
	reg := scheme.NewRegistry()
	m, err := cmesh.NewSingleTree(scheme.ClassQuad)
	if err != nil {
		t.Fatal(err)
	}
	level1 := newUniform(t, m, reg, 1)

	tags := map[scheme.Element]int{}
	for i := 0; i < level1.Tree(0).Len(); i++ {
		tags[level1.Tree(0).At(i)] = i
	}

	refined := New()
	refined.SetScheme(reg)
	newTags := map[scheme.Element]int{}
	refined.SetReplace(func(f *Forest, ltree int, s scheme.Scheme, old, new []scheme.Element) {
		if len(old) == 1 {
			for _, n := range new {
				newTags[n] = tags[old[0]]
			}
		}
	})
	refined.SetAdapt(level1, func(f *Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
		return 1
	}, false)
	if err := refined.Commit(); err != nil {
		t.Fatal(err)
	}
	rt := refined.Tree(0)
	for i := 0; i < rt.Len(); i++ {
		e := rt.At(i)
		parent := reg.For(scheme.ClassQuad).Parent(e)
		if newTags[e] != tags[parent] {
			t.Fatalf("element %d: tag %d, want parent's tag %d", i, newTags[e], tags[parent])
		}
	}

	coarsened := New()
	coarsened.SetScheme(reg)
	finalTags := map[scheme.Element]int{}
	coarsened.SetReplace(func(f *Forest, ltree int, s scheme.Scheme, old, new []scheme.Element) {
		if len(new) == 1 && len(old) > 1 {
			finalTags[new[0]] = newTags[old[0]]
		}
	})
	coarsened.SetAdapt(refined, func(f *Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
		if len(elems) == s.NumChildren(elems[0]) {
			return -1
		}
		return 0
	}, false)
	if err := coarsened.Commit(); err != nil {
		t.Fatal(err)
	}
	ct := coarsened.Tree(0)
	for i := 0; i < ct.Len(); i++ {
		e := ct.At(i)
		firstChild := reg.For(scheme.ClassQuad).Child(e, 0)
		if finalTags[e] != newTags[firstChild] {
			t.Fatalf("coarsened element %d: tag %d, want first child's tag %d", i, finalTags[e], newTags[firstChild])
		}
	}
}

func TestCommitRequiresScheme(t *testing.T) {
	f := New()
	if err := f.Commit(); err == nil {
		t.Fatal("expected error for missing scheme registry")
	}
}

func TestCommitRequiresSource(t *testing.T) {
	f := New()
	f.SetScheme(scheme.NewRegistry())
	if err := f.Commit(); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCommitTwiceFails(t *testing.T) {
	reg := scheme.NewRegistry()
	m, err := cmesh.NewSingleTree(scheme.ClassQuad)
	if err != nil {
		t.Fatal(err)
	}
	f := newUniform(t, m, reg, 1)
	if err := f.Commit(); err == nil {
		t.Fatal("expected error committing twice")
	}
}
