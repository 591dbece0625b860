package forest

import "github.com/meshforest/forest/pkg/scheme"

// Tree holds one coarse tree's element class, its growable ordered
// element sequence, and the global SFC offset of its first element on
// this process. Push and Truncate are the only mutators during adapt;
// after commit the sequence is frozen.
type Tree struct {
	CoarseID int
	Class    scheme.Class

	elements       []scheme.Element
	elementsOffset int64
}

func newTree(coarseID int, class scheme.Class) *Tree {
	return &Tree{CoarseID: coarseID, Class: class}
}

// Push appends an element to the tree's sequence.
func (t *Tree) Push(e scheme.Element) { t.elements = append(t.elements, e) }

// Truncate keeps the first n elements and discards the rest.
func (t *Tree) Truncate(n int) { t.elements = t.elements[:n] }

// Len returns the number of elements currently held.
func (t *Tree) Len() int { return len(t.elements) }

// At returns the element at index i.
func (t *Tree) At(i int) scheme.Element { return t.elements[i] }

// Elements returns the tree's element sequence. Callers must not
// mutate the returned slice.
func (t *Tree) Elements() []scheme.Element { return t.elements }

// ElementsOffset returns the global SFC index of this tree's first
// element on this process, valid only after commit.
func (t *Tree) ElementsOffset() int64 { return t.elementsOffset }
