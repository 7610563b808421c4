// Package plot implements a debug/visualization sink: a small interface
// the mesh pipeline can optionally render its boxes, vertices and edges
// to, kept deliberately decoupled from internal/mesh so any file sink or
// test spy can satisfy it. JSONFile is the one implementation here;
// internal/preview reuses Point and LineSegment but does not implement
// Sink.
package plot

import (
	"encoding/json"
	"io"

	"github.com/ThermalSpan/implicit-plotter/internal/geom"
	"github.com/ThermalSpan/implicit-plotter/internal/mesh"
	"github.com/ThermalSpan/implicit-plotter/internal/morton"
)

// Point is a renderable 3D point.
type Point struct {
	X, Y, Z float32
}

// LineSegment connects two points.
type LineSegment struct {
	A, B Point
}

// Sink is the external rendering surface the core hands geometry to. It
// never appears in internal/mesh, internal/geom, internal/morton or
// internal/ast - those packages only ever produce plain data.
type Sink interface {
	AddPoint(p Point)
	AddLine(l LineSegment)
	Serialize(w io.Writer) error
}

// document is the wire shape serialized by JSONFile.
type document struct {
	Points []Point       `json:"points"`
	Lines  []LineSegment `json:"lines"`
}

// JSONFile is a Sink that accumulates points and lines in memory and
// serializes them as JSON, the Go analogue of the Rust source's
// serde_json-backed Plot.
type JSONFile struct {
	doc document
}

// NewJSONFile builds an empty sink.
func NewJSONFile() *JSONFile { return &JSONFile{} }

func (s *JSONFile) AddPoint(p Point) { s.doc.Points = append(s.doc.Points, p) }

func (s *JSONFile) AddLine(l LineSegment) { s.doc.Lines = append(s.doc.Lines, l) }

func (s *JSONFile) Serialize(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.doc)
}

func vec3ToPoint(v geom.Vec3) Point { return Point{X: v.X, Y: v.Y, Z: v.Z} }

// boxCorners returns a box's 8 corners in a fixed index order so
// AddBoxOutline's edge list lines up.
func boxCorners(b geom.Box) [8]Point {
	var out [8]Point
	i := 0
	for _, x := range [2]float32{b.X.Min, b.X.Max} {
		for _, y := range [2]float32{b.Y.Min, b.Y.Max} {
			for _, z := range [2]float32{b.Z.Min, b.Z.Max} {
				out[i] = Point{X: x, Y: y, Z: z}
				i++
			}
		}
	}
	return out
}

// cubeEdges is the 12-edge wireframe of a cube addressed by boxCorners's
// index order.
var cubeEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {3, 7}, {2, 6},
}

// AddBoxOutline draws a box's 12-edge wireframe into the sink.
func AddBoxOutline(s Sink, b geom.Box) {
	corners := boxCorners(b)
	for _, e := range cubeEdges {
		s.AddLine(LineSegment{A: corners[e[0]], B: corners[e[1]]})
	}
}

// AddSolutionMap draws every surviving cell's box outline, walking
// mesh.Tree.SolutionMap directly since this pipeline keeps only the
// current level rather than the whole refinement history.
func AddSolutionMap(s Sink, solutionMap map[morton.Key]geom.Box) {
	for _, b := range solutionMap {
		AddBoxOutline(s, b)
	}
}

// AddVertices draws every materialized vertex as a point.
func AddVertices(s Sink, vertexMap map[morton.Key]geom.Vec3) {
	for _, v := range vertexMap {
		s.AddPoint(vec3ToPoint(v))
	}
}

// AddEdges draws every materialized edge as a line between its two
// vertices. Edges whose endpoint has no vertex yet (VertexMap not
// generated, or stale after a Refine) are skipped.
func AddEdges(s Sink, edges map[mesh.Edge]struct{}, vertexMap map[morton.Key]geom.Vec3) {
	for e := range edges {
		a, aok := vertexMap[e.A]
		b, bok := vertexMap[e.B]
		if !aok || !bok {
			continue
		}
		s.AddLine(LineSegment{A: vec3ToPoint(a), B: vec3ToPoint(b)})
	}
}
