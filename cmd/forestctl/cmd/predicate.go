package cmd

import (
	"fmt"

	"github.com/meshforest/forest/internal/forest"
	"github.com/meshforest/forest/pkg/scheme"
)

// namedPredicates are the built-in adapt predicates available to the
// `adapt` subcommand. Each decides from elems[0], matching the engine's
// window-first-element semantics; coarsen-all also checks that the
// window is a full family (len(elems)).
var namedPredicates = map[string]func(targetLevel int) forest.AdaptFunc{
	"left-edge": func(int) forest.AdaptFunc {
		return func(f *forest.Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
			if elems[0].Anchor[0] == 0 {
				return 1
			}
			return 0
		}
	},
	"refine-all": func(int) forest.AdaptFunc {
		return func(f *forest.Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
			return 1
		}
	},
	"coarsen-all": func(int) forest.AdaptFunc {
		return func(f *forest.Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
			if len(elems) == s.NumChildren(elems[0]) {
				return -1
			}
			return 0
		}
	},
	"level-cap": func(targetLevel int) forest.AdaptFunc {
		return func(f *forest.Forest, ltree int, s scheme.Scheme, elems []scheme.Element) int {
			if int(elems[0].Level) < targetLevel {
				return 1
			}
			return 0
		}
	},
}

func lookupPredicate(name string, targetLevel int) (forest.AdaptFunc, error) {
	build, ok := namedPredicates[name]
	if !ok {
		return nil, fmt.Errorf("unknown predicate %q (available: left-edge, refine-all, coarsen-all, level-cap)", name)
	}
	return build(targetLevel), nil
}
