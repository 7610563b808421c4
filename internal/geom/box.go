// Package geom implements the axis-aligned bounding box used to drive
// octree subdivision: three per-axis intervals, an octant split, a
// root-containment test against an implicit function, and the
// center/clamp helpers the mesh pipeline needs.
package geom

import (
	"github.com/ThermalSpan/implicit-plotter/internal/ast"
	"github.com/ThermalSpan/implicit-plotter/internal/interval"
)

// Vec3 is a plain 3-vector of float32, the type vertices and box centers
// are expressed in.
type Vec3 struct {
	X, Y, Z float32
}

// Box is an axis-aligned box, the Cartesian product of three intervals.
type Box struct {
	X, Y, Z interval.Interval
}

// Split partitions the box into its eight octants, in Morton index
// order: octant index i = 4*xbit + 2*ybit + zbit, where xbit/ybit/zbit
// select the upper (1) or lower (0) half along that axis. Keeping this
// order is required by mesh.Tree.Refine, which zips Split()'s output
// against morton.Key.Child(0..7) position-for-position.
func (b Box) Split() [8]Box {
	xs := b.X.Split()
	ys := b.Y.Split()
	zs := b.Z.Split()

	var out [8]Box
	for xbit := 0; xbit < 2; xbit++ {
		for ybit := 0; ybit < 2; ybit++ {
			for zbit := 0; zbit < 2; zbit++ {
				idx := 4*xbit + 2*ybit + zbit
				out[idx] = Box{X: xs[xbit], Y: ys[ybit], Z: zs[zbit]}
			}
		}
	}
	return out
}

// ContainsRoot binds {x,y,z} to the box's intervals, interval-evaluates
// f, and reports whether any resulting interval straddles zero.
func (b Box) ContainsRoot(f ast.Node) bool {
	bindings := ast.IntervalBindings{'x': b.X, 'y': b.Y, 'z': b.Z}
	return f.EvaluateInterval(bindings).ContainsZero()
}

// Center returns the box's midpoint.
func (b Box) Center() Vec3 {
	return Vec3{X: b.X.Middle(), Y: b.Y.Middle(), Z: b.Z.Middle()}
}

// ClampVector clamps each component of v to this box's corresponding
// axis interval.
func (b Box) ClampVector(v Vec3) Vec3 {
	return Vec3{
		X: b.X.Clamp(v.X),
		Y: b.Y.Clamp(v.Y),
		Z: b.Z.Clamp(v.Z),
	}
}
