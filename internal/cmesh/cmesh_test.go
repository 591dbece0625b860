package cmesh

import (
	"testing"

	"github.com/meshforest/forest/pkg/scheme"
)

func TestSingleTree(t *testing.T) {
	m, err := NewSingleTree(scheme.ClassHex)
	if err != nil {
		t.Fatal(err)
	}
	if m.NumTrees() != 1 {
		t.Fatalf("NumTrees() = %d, want 1", m.NumTrees())
	}
	for f := 0; f < 6; f++ {
		if j := m.FaceJoin(0, f); j.Tree != -1 {
			t.Errorf("face %d: want unjoined, got tree %d", f, j.Tree)
		}
	}
}

func TestQuadBrickInteriorJoins(t *testing.T) {
	m, err := NewQuadBrick(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if m.NumTrees() != 6 {
		t.Fatalf("NumTrees() = %d, want 6", m.NumTrees())
	}
	// tree (1,0) = id 1 should join tree 0 on its x- face and tree 2 on x+.
	if j := m.FaceJoin(1, 0); j.Tree != 0 || j.Face != 1 {
		t.Errorf("tree 1 face 0 = %+v, want {Tree:0 Face:1}", j)
	}
	if j := m.FaceJoin(1, 1); j.Tree != 2 || j.Face != 0 {
		t.Errorf("tree 1 face 1 = %+v, want {Tree:2 Face:0}", j)
	}
	if j := m.FaceJoin(0, 0); j.Tree != -1 {
		t.Errorf("tree 0 face 0 (boundary) = %+v, want unjoined", j)
	}
}

func TestAttributes(t *testing.T) {
	m, err := NewSingleTree(scheme.ClassQuad)
	if err != nil {
		t.Fatal(err)
	}
	key := AttrKey{PackageID: 1, Key: 2}
	if _, ok := m.Attribute(0, key); ok {
		t.Fatal("expected attribute unset")
	}
	m.SetAttribute(0, key, "material-a")
	v, ok := m.Attribute(0, key)
	if !ok || v != "material-a" {
		t.Fatalf("Attribute() = %v, %v", v, ok)
	}
}

func TestNewRejectsFaceCountMismatch(t *testing.T) {
	_, err := New([]Tree{{Class: scheme.ClassHex, Faces: boundaryFaces(4)}})
	if err == nil {
		t.Fatal("expected error for mismatched face count")
	}
}
