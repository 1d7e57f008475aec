package graph

import (
	"fmt"

	"github.com/chfi/gfaestus/geometry"
)

// Each node occupies two consecutive slots in the layout buffer, one per
// terminus. LeftTerminus and RightTerminus compute the slot index for a
// node; the same convention is baked into every GPU stage that walks the
// endpoint buffer.

// LeftTerminus returns the buffer slot of the node's left endpoint.
func LeftTerminus(id NodeID) uint32 {
	return (uint32(id) - 1) * 2
}

// RightTerminus returns the buffer slot of the node's right endpoint.
func RightTerminus(id NodeID) uint32 {
	return (uint32(id)-1)*2 + 1
}

// Layout holds the world-space positions of every node terminus, two
// points per node. Nodes are drawn as the segment between their termini.
type Layout struct {
	points []geometry.Point
}

// NewLayout creates a layout with capacity for the given number of nodes.
// All termini start at the origin.
func NewLayout(nodeCount int) *Layout {
	return &Layout{points: make([]geometry.Point, nodeCount*2)}
}

// LayoutFromPoints wraps an existing endpoint slice. The slice must hold
// an even number of points.
func LayoutFromPoints(points []geometry.Point) (*Layout, error) {
	if len(points)%2 != 0 {
		return nil, fmt.Errorf("graph: layout needs two points per node, got %d", len(points))
	}
	return &Layout{points: points}, nil
}

// NodeCount returns the number of nodes in the layout.
func (l *Layout) NodeCount() int {
	return len(l.points) / 2
}

// PointCount returns the number of terminus points (twice the node count).
func (l *Layout) PointCount() int {
	return len(l.points)
}

// SetNode stores both endpoint positions of a node.
func (l *Layout) SetNode(id NodeID, left, right geometry.Point) {
	l.points[LeftTerminus(id)] = left
	l.points[RightTerminus(id)] = right
}

// Node returns both endpoint positions of a node.
func (l *Layout) Node(id NodeID) (left, right geometry.Point) {
	return l.points[LeftTerminus(id)], l.points[RightTerminus(id)]
}

// Point returns the terminus at the given buffer slot.
func (l *Layout) Point(slot uint32) geometry.Point {
	return l.points[slot]
}

// Points exposes the raw endpoint slice in buffer order. Callers must not
// resize it.
func (l *Layout) Points() []geometry.Point {
	return l.points
}

// Bounds returns the bounding box of all termini. Returns a zero rect for
// an empty layout.
func (l *Layout) Bounds() geometry.Rect {
	if len(l.points) == 0 {
		return geometry.Rect{}
	}
	r := geometry.NewRect(l.points[0], l.points[0])
	for _, p := range l.points[1:] {
		r = r.Union(geometry.NewRect(p, p))
	}
	return r
}

// Midpoint returns the center of the node's segment.
func (l *Layout) Midpoint(id NodeID) geometry.Point {
	left, right := l.Node(id)
	return left.Midpoint(right)
}
