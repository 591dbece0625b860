package cmd

import (
	"fmt"

	"github.com/meshforest/forest/internal/cmesh"
	"github.com/meshforest/forest/pkg/scheme"
)

func parseClass(s string) (scheme.Class, error) {
	switch s {
	case "line":
		return scheme.ClassLine, nil
	case "quad":
		return scheme.ClassQuad, nil
	case "hex":
		return scheme.ClassHex, nil
	case "triangle":
		return scheme.ClassTriangle, nil
	case "tet":
		return scheme.ClassTet, nil
	case "prism":
		return scheme.ClassPrism, nil
	case "pyramid":
		return scheme.ClassPyramid, nil
	default:
		return 0, fmt.Errorf("unknown class %q", s)
	}
}

// buildMesh constructs a brick coarse mesh sized by nx/ny/nz for quad and
// hex, or a single tree for every other class, line included (no brick
// builder is implemented for those; see internal/cmesh).
func buildMesh(class scheme.Class, nx, ny, nz int) (*cmesh.CoarseMesh, error) {
	switch class {
	case scheme.ClassHex:
		if nx < 1 {
			nx = 1
		}
		if ny < 1 {
			ny = 1
		}
		if nz < 1 {
			nz = 1
		}
		return cmesh.NewHexBrick(nx, ny, nz)
	case scheme.ClassQuad:
		if nx < 1 {
			nx = 1
		}
		if ny < 1 {
			ny = 1
		}
		return cmesh.NewQuadBrick(nx, ny)
	default:
		return cmesh.NewSingleTree(class)
	}
}
