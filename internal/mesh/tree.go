// Package mesh implements the adaptive-subdivision pipeline: it owns the
// implicit function, the root bounding box, and the set of Morton-keyed
// cells that survive each refinement round, and derives vertices, edges
// and a smoothing relaxation from that surviving set.
package mesh

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ThermalSpan/implicit-plotter/internal/ast"
	"github.com/ThermalSpan/implicit-plotter/internal/geom"
	"github.com/ThermalSpan/implicit-plotter/internal/morton"
)

// Edge is an unordered pair of Morton keys with A < B enforced at
// construction, so Tree.EdgeSet never carries the reversed duplicate of a
// pair already present.
type Edge struct {
	A, B morton.Key
}

func newEdge(a, b morton.Key) Edge {
	if a < b {
		return Edge{A: a, B: b}
	}
	return Edge{A: b, B: a}
}

// Tree owns the function, the root box, the current level, and the
// derived maps. Every key in VertexMap and EdgeSet exists in
// SolutionMap, and every key lives at the current Level - Refine
// invalidates the derived maps precisely because that invariant would
// otherwise break.
type Tree struct {
	Function    ast.Node
	RootBox     geom.Box
	Level       int
	SolutionMap map[morton.Key]geom.Box
	VertexMap   map[morton.Key]geom.Vec3
	EdgeSet     map[Edge]struct{}
	triangles   []Triangle
}

// Triangle is reserved for a future surface-reconstruction pass; this
// pipeline never populates it.
type Triangle struct {
	A, B, C morton.Key
}

// New constructs a Tree at level 0. The root key is inserted into
// SolutionMap iff the root box's interval enclosure of f contains zero.
func New(f ast.Node, root geom.Box) *Tree {
	t := &Tree{
		Function:    f,
		RootBox:     root,
		SolutionMap: make(map[morton.Key]geom.Box),
	}
	if root.ContainsRoot(f) {
		t.SolutionMap[morton.Root()] = root
	}
	return t
}

type cell struct {
	key morton.Key
	box geom.Box
}

func (t *Tree) cells() []cell {
	out := make([]cell, 0, len(t.SolutionMap))
	for k, b := range t.SolutionMap {
		out = append(out, cell{key: k, box: b})
	}
	return out
}

// survivorsOf evaluates the 8 children of one cell and returns the
// subset whose interval enclosure of f contains zero. The i-th child key
// (geom.Box.Split position i) pairs with the i-th child box: both use
// the same Morton index convention, so the pairing stays consistent with
// the bit semantics in package morton.
func survivorsOf(f ast.Node, c cell) []cell {
	childBoxes := c.box.Split()
	out := make([]cell, 0, 8)
	for i := 0; i < 8; i++ {
		childKey := c.key.Child(uint64(i))
		childBox := childBoxes[i]
		if childBox.ContainsRoot(f) {
			out = append(out, cell{key: childKey, box: childBox})
		}
	}
	return out
}

// Refine advances the tree by one level: each surviving cell is split
// into its 8 children, children whose enclosure doesn't contain zero are
// dropped, and the derived maps are invalidated.
func (t *Tree) Refine() {
	cells := t.cells()
	results := make([][]cell, len(cells))
	for i, c := range cells {
		results[i] = survivorsOf(t.Function, c)
	}
	t.commitRefine(results)
}

// RefineParallel is the data-parallel form of Refine: the per-cell
// interval evaluation in survivorsOf is independent of every other
// cell's, so it can safely be fanned out. Each cell's work writes
// to its own slot in results, so no cell's goroutine touches another's
// state; errgroup only needs to propagate the first error (ctx
// cancellation) and wait for completion.
func (t *Tree) RefineParallel(ctx context.Context) error {
	cells := t.cells()
	results := make([][]cell, len(cells))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range cells {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = survivorsOf(t.Function, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	t.commitRefine(results)
	return nil
}

func (t *Tree) commitRefine(results [][]cell) {
	newMap := make(map[morton.Key]geom.Box, len(t.SolutionMap))
	for _, survivors := range results {
		for _, s := range survivors {
			newMap[s.key] = s.box
		}
	}
	t.SolutionMap = newMap
	t.VertexMap = nil
	t.EdgeSet = nil
	t.triangles = nil
	t.Level++
}

// GenerateVertices rebuilds VertexMap from SolutionMap alone: every
// surviving cell's box center becomes its vertex.
func (t *Tree) GenerateVertices() {
	vertexMap := make(map[morton.Key]geom.Vec3, len(t.SolutionMap))
	for k, b := range t.SolutionMap {
		vertexMap[k] = b.Center()
	}
	t.VertexMap = vertexMap
}

func (t *Tree) sortedSolutionKeys() []morton.Key {
	keys := make([]morton.Key, 0, len(t.SolutionMap))
	for k := range t.SolutionMap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// edgesFor returns the Edge for every same-level neighbor of k that
// survives in SolutionMap.
func edgesFor(k morton.Key, solutionMap map[morton.Key]geom.Box) []Edge {
	var out []Edge
	for _, n := range k.Neighbors26() {
		if _, ok := solutionMap[n]; ok {
			out = append(out, newEdge(k, n))
		}
	}
	return out
}

// GenerateEdges rebuilds EdgeSet from SolutionMap: for every surviving
// key, for every same-level neighbor also present in SolutionMap, the
// normalized (min,max) pair is inserted - which is what de-duplicates
// the two symmetric insertions a naive both-direction walk would produce.
func (t *Tree) GenerateEdges() {
	keys := t.sortedSolutionKeys()
	edgeSet := make(map[Edge]struct{})
	for _, k := range keys {
		for _, e := range edgesFor(k, t.SolutionMap) {
			edgeSet[e] = struct{}{}
		}
	}
	t.EdgeSet = edgeSet
}

// GenerateEdgesParallel is the data-parallel form of GenerateEdges: each
// key's neighbor scan only reads SolutionMap, never writes it, so the
// per-key results can be computed concurrently and merged afterward.
func (t *Tree) GenerateEdgesParallel(ctx context.Context) error {
	keys := t.sortedSolutionKeys()
	results := make([][]Edge, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = edgesFor(k, t.SolutionMap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	edgeSet := make(map[Edge]struct{})
	for _, edges := range results {
		for _, e := range edges {
			edgeSet[e] = struct{}{}
		}
	}
	t.EdgeSet = edgeSet
	return nil
}

// relaxedPosition computes one cell's post-relaxation vertex against a
// read-only snapshot of VertexMap, never against positions already
// updated in this pass - that lockstep property is what keeps a single
// relaxation pass independent of map iteration order.
func relaxedPosition(k morton.Key, snapshot map[morton.Key]geom.Vec3, box geom.Box) geom.Vec3 {
	v := snapshot[k]
	var sum geom.Vec3
	count := 0
	for _, n := range k.Neighbors26() {
		nv, ok := snapshot[n]
		if !ok {
			continue
		}
		sum.X += nv.X
		sum.Y += nv.Y
		sum.Z += nv.Z
		count++
	}
	if count == 0 {
		return v
	}
	avg := geom.Vec3{X: sum.X / float32(count), Y: sum.Y / float32(count), Z: sum.Z / float32(count)}
	moved := geom.Vec3{
		X: v.X + 0.5*(avg.X-v.X),
		Y: v.Y + 0.5*(avg.Y-v.Y),
		Z: v.Z + 0.5*(avg.Z-v.Z),
	}
	return box.ClampVector(moved)
}

// Relax runs a single Laplacian smoothing pass in place: every vertex
// moves halfway toward the mean of its materialized neighbors (vertices
// not yet in VertexMap are skipped, not treated as zero) and is then
// clamped to its cell's box.
func (t *Tree) Relax() {
	snapshot := t.VertexMap
	next := make(map[morton.Key]geom.Vec3, len(snapshot))
	for k := range snapshot {
		next[k] = relaxedPosition(k, snapshot, t.SolutionMap[k])
	}
	t.VertexMap = next
}

// RelaxParallel is the data-parallel form of Relax. Every goroutine only
// reads the pre-relaxation snapshot and writes to its own slot in a
// fresh map's backing results slice, so the lockstep property holds
// automatically: no goroutine can observe another's new position.
func (t *Tree) RelaxParallel(ctx context.Context) error {
	snapshot := t.VertexMap
	keys := make([]morton.Key, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	positions := make([]geom.Vec3, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			positions[i] = relaxedPosition(k, snapshot, t.SolutionMap[k])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	next := make(map[morton.Key]geom.Vec3, len(keys))
	for i, k := range keys {
		next[k] = positions[i]
	}
	t.VertexMap = next
	return nil
}

// Triangles returns the reserved triangle list; it is always empty in
// this pipeline (surface reconstruction is out of scope), but is exposed
// for a future pass to populate.
func (t *Tree) Triangles() []Triangle {
	return t.triangles
}
