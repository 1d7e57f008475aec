package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chfi/gfaestus/geometry"
)

func TestHandlePackUnpack(t *testing.T) {
	tests := []struct {
		name    string
		id      NodeID
		reverse bool
	}{
		{"forward small", 1, false},
		{"reverse small", 1, true},
		{"forward large", 1 << 30, false},
		{"reverse large", 1 << 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandle(tt.id, tt.reverse)
			assert.Equal(t, tt.id, h.ID())
			assert.Equal(t, tt.reverse, h.IsReverse())
		})
	}
}

func TestHandleFlip(t *testing.T) {
	h := Forward(42)

	flipped := h.Flip()
	assert.Equal(t, NodeID(42), flipped.ID())
	assert.True(t, flipped.IsReverse())

	// Flip is an involution.
	assert.Equal(t, h, flipped.Flip())
}

func TestEdgeReversed(t *testing.T) {
	e := Edge{From: Forward(1), To: Reverse(2)}

	r := e.Reversed()
	assert.Equal(t, Forward(2), r.From)
	assert.Equal(t, Reverse(1), r.To)

	// Reversing twice restores the edge.
	assert.Equal(t, e, r.Reversed())
}

func TestTerminusSlots(t *testing.T) {
	assert.Equal(t, uint32(0), LeftTerminus(1))
	assert.Equal(t, uint32(1), RightTerminus(1))
	assert.Equal(t, uint32(8), LeftTerminus(5))
	assert.Equal(t, uint32(9), RightTerminus(5))
}

func TestLayoutSetGet(t *testing.T) {
	l := NewLayout(3)
	require.Equal(t, 3, l.NodeCount())
	require.Equal(t, 6, l.PointCount())

	l.SetNode(2, geometry.Pt(1, 2), geometry.Pt(3, 4))

	left, right := l.Node(2)
	assert.Equal(t, geometry.Pt(1, 2), left)
	assert.Equal(t, geometry.Pt(3, 4), right)

	assert.Equal(t, geometry.Pt(1, 2), l.Point(LeftTerminus(2)))
	assert.Equal(t, geometry.Pt(3, 4), l.Point(RightTerminus(2)))
}

func TestLayoutFromPoints(t *testing.T) {
	_, err := LayoutFromPoints(make([]geometry.Point, 5))
	assert.Error(t, err)

	l, err := LayoutFromPoints([]geometry.Point{
		geometry.Pt(0, 0), geometry.Pt(10, 0),
		geometry.Pt(0, 5), geometry.Pt(10, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, l.NodeCount())

	left, right := l.Node(2)
	assert.Equal(t, geometry.Pt(0, 5), left)
	assert.Equal(t, geometry.Pt(10, 5), right)
}

func TestLayoutBounds(t *testing.T) {
	l := NewLayout(2)
	l.SetNode(1, geometry.Pt(-5, 3), geometry.Pt(2, -1))
	l.SetNode(2, geometry.Pt(7, 0), geometry.Pt(0, 9))

	b := l.Bounds()
	assert.Equal(t, geometry.Pt(-5, -1), b.Min)
	assert.Equal(t, geometry.Pt(7, 9), b.Max)
}

func TestLayoutMidpoint(t *testing.T) {
	l := NewLayout(1)
	l.SetNode(1, geometry.Pt(0, 0), geometry.Pt(10, 4))

	assert.Equal(t, geometry.Pt(5, 2), l.Midpoint(1))
}
