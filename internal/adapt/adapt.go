// Package adapt implements the per-tree adapt algorithm: consuming a
// source element sequence and a refine/coarsen/keep predicate to
// produce a target sequence, with an optional replace callback fired
// at every topology change and an optional recursive mode. Grounded in
// t8code's t8_forest_adapt.cxx (considered/inserted/coarsen_floor
// cursors, LIFO refine stack, coarsen-floor recursive coarsening).
package adapt

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/meshforest/forest/pkg/collections"
	"github.com/meshforest/forest/pkg/scheme"
	"github.com/meshforest/forest/pkg/utils"
)

// Func is the refine/coarsen/keep predicate. It is called with either
// a single candidate element (not part of a recognizable family) or a
// full family of num_children siblings. A positive return refines only
// the window's first element; a negative return coarsens the whole
// family into its parent (legal only when the window is a family); zero
// keeps the window's first element unchanged.
type Func func(elems []scheme.Element) int

// ReplaceFunc is invoked at every topology change so caller-side data
// keyed by element can follow it. old is the consumed window, new is
// the set that replaced it.
type ReplaceFunc func(old, new []scheme.Element)

var (
	tracer = otel.Tracer("forest/adapt")
	meter  = otel.Meter("forest/adapt")

	refinedCounter, _   = meter.Int64Counter("elements_refined_total")
	coarsenedCounter, _ = meter.Int64Counter("elements_coarsened_total")
	keptCounter, _      = meter.Int64Counter("elements_kept_total")

	// stackPool backs refineRecursive's traversal stack; coarsenPool
	// backs the defensive copy coarsenLoop hands to replaceFn before
	// overwriting out in place. Both are borrowed once per Run call
	// and returned via defer on every exit path, including panics.
	stackPool   = collections.NewSlicePool[scheme.Element](32)
	coarsenPool = collections.NewSlicePool[scheme.Element](8)
)

func contractViolation(format string, args ...any) {
	panic("adapt: contract violation: " + fmt.Sprintf(format, args...))
}

// Run executes the adapt algorithm over one tree's source sequence and
// returns the target sequence. src must be sorted in SFC order, as any
// committed tree's elements are.
func Run(s scheme.Scheme, src []scheme.Element, adaptFn Func, replaceFn ReplaceFunc, recursive bool) []scheme.Element {
	if len(src) == 0 {
		return nil
	}

	ctx := context.Background()
	ctx, span := tracer.Start(ctx, "adapt.tree", trace.WithAttributes(attribute.Int("elements_in", len(src))))
	defer span.End()

	stackBuf := stackPool.Get()
	coarsenBuf := coarsenPool.Get()
	defer stackPool.Put(stackBuf)
	defer coarsenPool.Put(coarsenBuf)

	var out []scheme.Element
	coarsenFloor := 0
	considered := 0
	var refined, coarsened, kept int64

	for considered < len(src) {
		_, stepSpan := tracer.Start(ctx, "adapt.step")

		numChildren := s.NumChildren(src[considered])
		family, isFamily := familyWindow(s, src, considered, numChildren)

		var window []scheme.Element
		if isFamily {
			window = family
		} else {
			window = src[considered : considered+1]
		}
		e := window[0]
		res := adaptFn(window)

		switch {
		case res > 0:
			// Only the window's first element is refined, per §4.4:
			// a family window that declines to coarsen still refines
			// just its first member, exactly as a singleton would.
			var expanded []scheme.Element
			if recursive {
				expanded = refineRecursive(s, e, adaptFn, replaceFn, stackBuf)
			} else {
				expanded = s.Children(e)
				if replaceFn != nil {
					replaceFn(window[:1], expanded)
				}
			}
			out = append(out, expanded...)
			refined += int64(len(expanded))
			considered++
			coarsenFloor = len(out)
		case res < 0:
			if !isFamily {
				contractViolation("coarsen (-1) returned for a non-family window")
			}
			parent := s.Parent(e)
			out = append(out, parent)
			if replaceFn != nil {
				replaceFn(window, []scheme.Element{parent})
			}
			coarsened += int64(numChildren)
			considered += numChildren
			if recursive && s.ChildID(parent) == numChildren-1 {
				out, coarsenFloor = coarsenLoop(s, out, numChildren, coarsenFloor, adaptFn, replaceFn, coarsenBuf, &coarsened)
			}
		default:
			out = append(out, e)
			if replaceFn != nil {
				replaceFn(window[:1], window[:1])
			}
			kept++
			considered++
			if recursive && s.ChildID(e) == numChildren-1 {
				out, coarsenFloor = coarsenLoop(s, out, numChildren, coarsenFloor, adaptFn, replaceFn, coarsenBuf, &coarsened)
			}
		}

		stepSpan.End()
	}

	refinedCounter.Add(ctx, refined)
	coarsenedCounter.Add(ctx, coarsened)
	keptCounter.Add(ctx, kept)
	utils.GetGlobalLogger().Debug("adapt: tree step counts in=%d out=%d refined=%d coarsened=%d kept=%d",
		len(src), len(out), refined, coarsened, kept)

	return out
}

// familyWindow reports whether src[from:from+numChildren] forms a
// family in canonical child order.
func familyWindow(s scheme.Scheme, src []scheme.Element, from, numChildren int) ([]scheme.Element, bool) {
	if len(src)-from < numChildren {
		return nil, false
	}
	window := src[from : from+numChildren]
	for i, e := range window {
		if s.ChildID(e) != i {
			return nil, false
		}
	}
	if !s.IsFamily(window) {
		return nil, false
	}
	return window, true
}

// refineRecursive implements §4.4.1: an explicit LIFO stack of
// candidate elements produced by the last refine, so child 0 is always
// processed next. The per-class maximum level guarantees termination;
// scheme.Child asserts if a predicate refuses to stop refining there.
// stackBuf is a scratch buffer borrowed by Run and reused across every
// recursive-refine call within that Run invocation.
func refineRecursive(s scheme.Scheme, e scheme.Element, adaptFn Func, replaceFn ReplaceFunc, stackBuf *[]scheme.Element) []scheme.Element {
	var out []scheme.Element
	children := s.Children(e)
	if replaceFn != nil {
		replaceFn([]scheme.Element{e}, children)
	}
	*stackBuf = (*stackBuf)[:0]
	for i := len(children) - 1; i >= 0; i-- {
		*stackBuf = append(*stackBuf, children[i])
	}

	for len(*stackBuf) > 0 {
		cur := (*stackBuf)[len(*stackBuf)-1]
		*stackBuf = (*stackBuf)[:len(*stackBuf)-1]
		res := adaptFn([]scheme.Element{cur})
		switch res {
		case -1:
			contractViolation("coarsen (-1) returned for a non-family singleton during recursive refine")
		case 1:
			kids := s.Children(cur)
			if replaceFn != nil {
				replaceFn([]scheme.Element{cur}, kids)
			}
			for i := len(kids) - 1; i >= 0; i-- {
				*stackBuf = append(*stackBuf, kids[i])
			}
		default:
			out = append(out, cur)
		}
	}
	return out
}

// coarsenLoop implements §4.4.2: while the most recently inserted
// element is the last child of a family at or above coarsenFloor,
// test and possibly collapse it into its parent, repeating in case the
// collapse itself closes a higher-level family. Returns the updated
// output sequence and coarsen floor. coarsenBuf is a scratch buffer
// borrowed by Run, reused to hold the window snapshot handed to
// replaceFn before out is overwritten in place.
func coarsenLoop(s scheme.Scheme, out []scheme.Element, numChildren, coarsenFloor int, adaptFn Func, replaceFn ReplaceFunc, coarsenBuf *[]scheme.Element, coarsened *int64) ([]scheme.Element, int) {
	for {
		if len(out) < numChildren {
			return out, coarsenFloor
		}
		start := len(out) - numChildren
		if start < coarsenFloor {
			return out, coarsenFloor
		}
		window := out[start:]
		ok := true
		for i, e := range window {
			if s.ChildID(e) != i {
				ok = false
				break
			}
		}
		if !ok || !s.IsFamily(window) {
			return out, coarsenFloor
		}
		res := adaptFn(window)
		if res != -1 {
			return out, coarsenFloor
		}
		parent := s.Parent(window[0])
		*coarsenBuf = append((*coarsenBuf)[:0], window...)
		out = append(out[:start], parent)
		*coarsened += int64(numChildren)
		if replaceFn != nil {
			replaceFn(*coarsenBuf, []scheme.Element{parent})
		}
		if s.ChildID(parent) != numChildren-1 {
			return out, coarsenFloor
		}
	}
}
