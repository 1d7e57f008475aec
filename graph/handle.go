// Package graph holds the minimal graph model the renderer works with:
// numeric node identifiers, oriented node handles, edges between handles,
// and the flat position layout the GPU stages consume.
//
// Node IDs are 1-indexed. ID 0 is reserved as the "no node" sentinel so a
// zero-filled pick buffer reads as empty.
package graph

// NodeID identifies a node. IDs start at 1; 0 means no node.
type NodeID uint32

// NoNode is the sentinel for the absence of a node.
const NoNode NodeID = 0

// Handle is an oriented reference to a node: the node ID packed with an
// orientation bit in the lowest position. The reverse orientation means
// the node is traversed right-to-left.
type Handle uint64

// NewHandle creates a handle for the given node and orientation.
func NewHandle(id NodeID, reverse bool) Handle {
	h := Handle(id) << 1
	if reverse {
		h |= 1
	}
	return h
}

// Forward creates a forward-oriented handle.
func Forward(id NodeID) Handle {
	return NewHandle(id, false)
}

// Reverse creates a reverse-oriented handle.
func Reverse(id NodeID) Handle {
	return NewHandle(id, true)
}

// ID returns the node the handle refers to.
func (h Handle) ID() NodeID {
	return NodeID(h >> 1)
}

// IsReverse reports whether the handle is reverse-oriented.
func (h Handle) IsReverse() bool {
	return h&1 == 1
}

// Flip returns the same node with the opposite orientation.
func (h Handle) Flip() Handle {
	return h ^ 1
}

// Edge connects two oriented handles. The edge leaves From through its
// outgoing side and enters To through its incoming side.
type Edge struct {
	From, To Handle
}

// Reversed returns the same edge walked in the opposite direction:
// both handles flipped and swapped.
func (e Edge) Reversed() Edge {
	return Edge{From: e.To.Flip(), To: e.From.Flip()}
}
