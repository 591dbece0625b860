package cmesh

import "github.com/meshforest/forest/pkg/scheme"

// NewSingleTree builds a one-tree coarse mesh for class with every face
// unjoined (a boundary on all sides). Used by tests and demos that
// only need a single root element, and by non-tensor-product classes
// for which no brick grid is implemented here (coarse-mesh generators
// for those classes are external per §6).
func NewSingleTree(class scheme.Class) (*CoarseMesh, error) {
	t := Tree{
		Class:    class,
		Vertices: unitVertices(class),
		Faces:    boundaryFaces(class.NumFaces()),
	}
	return New([]Tree{t})
}

func boundaryFaces(n int) []FaceJoin {
	faces := make([]FaceJoin, n)
	for i := range faces {
		faces[i] = FaceJoin{Tree: -1, Face: -1}
	}
	return faces
}

// unitVertices returns placeholder corner coordinates for a class's
// canonical unit reference cell; exact geometry is irrelevant to the
// adapt/forest core, which only consumes anchor/level/type.
func unitVertices(class scheme.Class) [][3]float64 {
	n := class.NumCorners()
	out := make([][3]float64, n)
	for i := range out {
		x, y, z := 0.0, 0.0, 0.0
		if i&1 == 1 {
			x = 1
		}
		if i&2 == 2 {
			y = 1
		}
		if i&4 == 4 {
			z = 1
		}
		out[i] = [3]float64{x, y, z}
	}
	return out
}

// NewQuadBrick builds an nx x ny grid of quad coarse trees, joined
// face-to-face with their axis-aligned neighbors; the outer boundary
// is unjoined. Tree id = y*nx + x. Faces follow the tensor convention
// 0=x-,1=x+,2=y-,3=y+.
func NewQuadBrick(nx, ny int) (*CoarseMesh, error) {
	trees := make([]Tree, nx*ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			tid := y*nx + x
			faces := boundaryFaces(4)
			if x > 0 {
				faces[0] = FaceJoin{Tree: tid - 1, Face: 1}
			}
			if x < nx-1 {
				faces[1] = FaceJoin{Tree: tid + 1, Face: 0}
			}
			if y > 0 {
				faces[2] = FaceJoin{Tree: tid - nx, Face: 3}
			}
			if y < ny-1 {
				faces[3] = FaceJoin{Tree: tid + nx, Face: 2}
			}
			trees[tid] = Tree{
				Class: scheme.ClassQuad,
				Vertices: [][3]float64{
					{float64(x), float64(y), 0},
					{float64(x + 1), float64(y), 0},
					{float64(x), float64(y + 1), 0},
					{float64(x + 1), float64(y + 1), 0},
				},
				Faces: faces,
			}
		}
	}
	return New(trees)
}

// NewHexBrick builds an nx x ny x nz grid of hex coarse trees. Tree id
// = z*nx*ny + y*nx + x. Faces follow the tensor convention
// 0=x-,1=x+,2=y-,3=y+,4=z-,5=z+.
func NewHexBrick(nx, ny, nz int) (*CoarseMesh, error) {
	trees := make([]Tree, nx*ny*nz)
	idx := func(x, y, z int) int { return z*nx*ny + y*nx + x }
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				tid := idx(x, y, z)
				faces := boundaryFaces(6)
				if x > 0 {
					faces[0] = FaceJoin{Tree: idx(x-1, y, z), Face: 1}
				}
				if x < nx-1 {
					faces[1] = FaceJoin{Tree: idx(x+1, y, z), Face: 0}
				}
				if y > 0 {
					faces[2] = FaceJoin{Tree: idx(x, y-1, z), Face: 3}
				}
				if y < ny-1 {
					faces[3] = FaceJoin{Tree: idx(x, y+1, z), Face: 2}
				}
				if z > 0 {
					faces[4] = FaceJoin{Tree: idx(x, y, z-1), Face: 5}
				}
				if z < nz-1 {
					faces[5] = FaceJoin{Tree: idx(x, y, z+1), Face: 4}
				}
				fx, fy, fz := float64(x), float64(y), float64(z)
				trees[tid] = Tree{
					Class: scheme.ClassHex,
					Vertices: [][3]float64{
						{fx, fy, fz}, {fx + 1, fy, fz}, {fx, fy + 1, fz}, {fx + 1, fy + 1, fz},
						{fx, fy, fz + 1}, {fx + 1, fy, fz + 1}, {fx, fy + 1, fz + 1}, {fx + 1, fy + 1, fz + 1},
					},
					Faces: faces,
				}
			}
		}
	}
	return New(trees)
}
