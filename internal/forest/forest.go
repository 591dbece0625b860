// Package forest implements the forest façade (F): lifecycle, local
// tree ownership, and commit, which either builds a uniform forest
// from a coarse mesh or adapts a committed source forest via the
// adapt engine in package adapt.
package forest

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/meshforest/forest/internal/adapt"
	"github.com/meshforest/forest/internal/cmesh"
	cerrors "github.com/meshforest/forest/pkg/errors"
	"github.com/meshforest/forest/pkg/parallel"
	"github.com/meshforest/forest/pkg/scheme"
	"github.com/meshforest/forest/pkg/utils"
)

var (
	tracer = otel.Tracer("forest")
	meter  = otel.Meter("forest")

	globalElementsGauge, _ = meter.Int64Gauge("forest.global_num_elements")
)

// AdaptFunc is the user-supplied refine/coarsen/keep predicate, scoped
// to the forest being committed and the local tree under
// consideration.
type AdaptFunc func(f *Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int

// ReplaceFunc is the user-supplied hook fired at every topology
// change so caller-side data keyed by element can follow it.
type ReplaceFunc func(f *Forest, ltree int, s scheme.Scheme, old, new []scheme.Element)

// Forest owns the ordered list of local trees, the scheme registry and
// coarse-mesh references, and the configuration used by the next
// commit. It is created empty, configured, committed once, then
// read-only.
type Forest struct {
	registry *scheme.Registry
	mesh     *cmesh.CoarseMesh
	trees    []*Tree

	level       int
	source      *Forest
	adaptFn     AdaptFunc
	replaceFn   ReplaceFunc
	recursive   bool
	parallelism int
	userData    any

	committed bool
}

// New returns an empty, unconfigured forest (init).
func New() *Forest { return &Forest{} }

// SetScheme attaches the element-scheme registry. Required before
// commit.
func (f *Forest) SetScheme(r *scheme.Registry) {
	f.mustNotBeCommitted("SetScheme")
	f.registry = r
}

// SetCMesh attaches the coarse mesh used for uniform construction (or
// inherited from the source forest when adapting). Required before
// commit unless SetAdapt's source forest already carries one.
func (f *Forest) SetCMesh(m *cmesh.CoarseMesh) {
	f.mustNotBeCommitted("SetCMesh")
	f.mesh = m
}

// SetLevel sets the uniform refinement level target used when
// committing directly from a coarse mesh (no adapt source).
func (f *Forest) SetLevel(level int) {
	f.mustNotBeCommitted("SetLevel")
	f.level = level
}

// SetAdapt configures this forest to be built by adapting a committed
// source forest. from must already be committed by the time Commit is
// called.
func (f *Forest) SetAdapt(from *Forest, fn AdaptFunc, recursive bool) {
	f.mustNotBeCommitted("SetAdapt")
	f.source = from
	f.adaptFn = fn
	f.recursive = recursive
}

// SetReplace installs the replace callback fired at every topology
// change during adapt.
func (f *Forest) SetReplace(fn ReplaceFunc) {
	f.mustNotBeCommitted("SetReplace")
	f.replaceFn = fn
}

// SetParallelism sets how many local trees commitAdapt may process
// concurrently on a worker pool. n <= 1 keeps the sequential path; the
// prefix-sum offset recomputation in Commit still runs only after
// every tree finishes, whichever path is taken.
func (f *Forest) SetParallelism(n int) {
	f.mustNotBeCommitted("SetParallelism")
	f.parallelism = n
}

// SetUserData stores an opaque pointer passed unchanged to callbacks
// via the forest argument; the core never inspects it.
func (f *Forest) SetUserData(v any) {
	f.mustNotBeCommitted("SetUserData")
	f.userData = v
}

// UserData returns the value set by SetUserData.
func (f *Forest) UserData() any { return f.userData }

// CMesh returns the coarse mesh backing this forest, set directly or
// inherited from an adapt source at commit time.
func (f *Forest) CMesh() *cmesh.CoarseMesh { return f.mesh }

// Scheme returns the scheme registry backing this forest.
func (f *Forest) Scheme() *scheme.Registry { return f.registry }

func (f *Forest) mustNotBeCommitted(op string) {
	if f.committed {
		panic(fmt.Sprintf("forest: %s called on a committed forest", op))
	}
}

// Commit validates configuration and builds the tree list, either by
// uniform refinement from the coarse mesh or by adapting the source
// forest. It is only legal once.
func (f *Forest) Commit() error {
	ctx := context.Background()
	ctx, span := tracer.Start(ctx, "forest.commit")
	defer span.End()

	if f.committed {
		return cerrors.New(cerrors.CodeInvalidInput, "forest: already committed")
	}
	if f.registry == nil {
		return cerrors.New(cerrors.CodeInvalidInput, "forest: scheme registry not set")
	}

	switch {
	case f.source != nil:
		if !f.source.committed {
			return cerrors.New(cerrors.CodeInvalidInput, "forest: source forest is not committed")
		}
		if f.mesh == nil {
			f.mesh = f.source.mesh
		}
		if err := f.commitAdapt(); err != nil {
			return err
		}
	case f.mesh != nil:
		f.commitUniform()
	default:
		return cerrors.New(cerrors.CodeInvalidInput, "forest: no source configured (call SetCMesh for uniform construction or SetAdapt to refine a source forest)")
	}

	var offset int64
	for _, t := range f.trees {
		t.elementsOffset = offset
		offset += int64(t.Len())
	}
	f.committed = true

	span.SetAttributes(
		attribute.Int("trees", len(f.trees)),
		attribute.Int64("elements", offset),
	)
	globalElementsGauge.Record(ctx, offset)
	utils.GetGlobalLogger().Info("forest: committed trees=%d elements=%d", len(f.trees), offset)

	return nil
}

func (f *Forest) commitAdapt() error {
	if f.adaptFn == nil {
		return cerrors.New(cerrors.CodeInvalidInput, "forest: adapt forest has no predicate configured")
	}
	f.trees = make([]*Tree, len(f.source.trees))

	adaptOne := func(i int) {
		st := f.source.trees[i]
		s := f.registry.For(st.Class)
		ltree := i
		aFn := func(elems []scheme.Element) int { return f.adaptFn(f, ltree, s, elems) }
		var rFn adapt.ReplaceFunc
		if f.replaceFn != nil {
			rFn = func(old, new []scheme.Element) { f.replaceFn(f, ltree, s, old, new) }
		}
		result := adapt.Run(s, st.Elements(), aFn, rFn, f.recursive)
		nt := newTree(st.CoarseID, st.Class)
		nt.elements = result
		f.trees[i] = nt
	}

	if f.parallelism > 1 && len(f.source.trees) > 1 {
		indices := make([]int, len(f.source.trees))
		for i := range indices {
			indices[i] = i
		}
		cfg := parallel.DefaultPoolConfig().WithWorkers(f.parallelism)
		_, err := parallel.ForEach(context.Background(), indices, cfg, func(_ context.Context, i int) error {
			adaptOne(i)
			return nil
		})
		if err != nil {
			return cerrors.Wrap(cerrors.CodeResourceExhaustion, "forest: parallel adapt failed", err)
		}
		return nil
	}

	for i := range f.source.trees {
		adaptOne(i)
	}
	return nil
}

func (f *Forest) commitUniform() {
	n := f.mesh.NumTrees()
	f.trees = make([]*Tree, n)
	for i := 0; i < n; i++ {
		class := f.mesh.Class(i)
		s := f.registry.For(class)
		targetLevel := f.level
		aFn := func(elems []scheme.Element) int {
			if int(elems[0].Level) < targetLevel {
				return 1
			}
			return 0
		}
		result := adapt.Run(s, []scheme.Element{scheme.Root(class)}, aFn, nil, true)
		nt := newTree(i, class)
		nt.elements = result
		f.trees[i] = nt
	}
}

// NumLocalTrees returns the number of trees owned by this forest.
// Valid only after commit.
func (f *Forest) NumLocalTrees() int { return len(f.trees) }

// Tree returns the i-th local tree. Valid only after commit.
func (f *Forest) Tree(i int) *Tree { return f.trees[i] }

// NumLocalElements returns the sum of element counts across local
// trees. Valid only after commit.
func (f *Forest) NumLocalElements() int64 {
	var n int64
	for _, t := range f.trees {
		n += int64(t.Len())
	}
	return n
}

// NumGlobalElements returns the local element count. Cross-process
// reduction (SPMD) is outside this package's scope; a caller embedding
// this forest in a distributed run supplies its own communicator and
// sums NumLocalElements across ranks.
func (f *Forest) NumGlobalElements() int64 { return f.NumLocalElements() }

// Element returns the element at local SFC index idx, searching across
// trees by their elements_offset. Valid only after commit.
func (f *Forest) Element(idx int64) (scheme.Element, error) {
	for _, t := range f.trees {
		if idx >= t.elementsOffset && idx < t.elementsOffset+int64(t.Len()) {
			return t.At(int(idx - t.elementsOffset)), nil
		}
	}
	return scheme.Element{}, cerrors.New(cerrors.CodeNotFound, fmt.Sprintf("forest: element index %d out of range", idx))
}

// Committed reports whether Commit has been called successfully.
func (f *Forest) Committed() bool { return f.committed }

// Restore builds an already-committed forest directly from a previously
// saved per-tree element sequence, bypassing adapt entirely. It is the
// checkpoint/restore counterpart to commitUniform/commitAdapt: the core
// element/tree/adapt contracts stay purely in-memory, so Restore is the
// boundary where operational snapshot tooling hands element state back
// to the core rather than the core defining a persistence format itself.
func Restore(reg *scheme.Registry, m *cmesh.CoarseMesh, elementsByTree [][]scheme.Element) (*Forest, error) {
	if reg == nil {
		return nil, cerrors.New(cerrors.CodeInvalidInput, "forest: scheme registry not set")
	}
	if m == nil {
		return nil, cerrors.New(cerrors.CodeInvalidInput, "forest: coarse mesh not set")
	}
	if len(elementsByTree) != m.NumTrees() {
		return nil, cerrors.New(cerrors.CodeInvalidInput, fmt.Sprintf("forest: restore given %d element sequences, mesh has %d trees", len(elementsByTree), m.NumTrees()))
	}

	f := &Forest{registry: reg, mesh: m}
	f.trees = make([]*Tree, m.NumTrees())
	var offset int64
	for i := 0; i < m.NumTrees(); i++ {
		nt := newTree(i, m.Class(i))
		nt.elements = elementsByTree[i]
		nt.elementsOffset = offset
		offset += int64(nt.Len())
		f.trees[i] = nt
	}
	f.committed = true
	return f, nil
}
