package profile

import (
	"fmt"
	"time"

	"github.com/vmtrace/cpuprof/errs"
)

// Node is one vertex of the call tree.
//
// CallFrame, DeoptReason and PositionTicks are opaque JSON values borrowed
// from the buffer the profile was decoded from; they are re-emitted verbatim
// on encode and are never inspected. DeoptReason and PositionTicks are nil
// when the field was absent, and absence round-trips as absence.
type Node struct {
	ID        uint64
	CallFrame []byte
	HitCount  uint32

	// Children holds the ids of callee nodes in document order.
	// nil means the field was absent (a leaf); a non-nil empty slice means
	// the field was present and empty, which re-encodes as [].
	Children []uint64

	DeoptReason   []byte
	PositionTicks []byte

	parentID  uint64
	hasParent bool
}

// Parent reports the id of this node's caller, derived from the children
// lists during decode. Roots report ok == false.
func (n *Node) Parent() (uint64, bool) {
	return n.parentID, n.hasParent
}

// Sample is one profiler observation: the node executing at time Ts.
//
// Samples order and compare by timestamp alone. NodeID is a foreign key into
// the node set and takes no part in ordering or equality, so two samples with
// the same timestamp are duplicates under this contract even if they name
// different nodes.
type Sample struct {
	NodeID uint64
	Ts     time.Duration
}

// Less reports whether s observes an earlier timestamp than other.
func (s Sample) Less(other Sample) bool {
	return s.Ts < other.Ts
}

// Equal reports whether both samples observe the same timestamp.
func (s Sample) Equal(other Sample) bool {
	return s.Ts == other.Ts
}

// Profile is a fully decoded .cpuprofile document.
//
// It is built once by Decode and never mutated afterwards, which makes it
// safe to share read-only across concurrent chunk encoders. Samples are
// sorted ascending by timestamp.
type Profile struct {
	Nodes     []Node
	StartTime time.Duration
	EndTime   time.Duration
	Samples   []Sample

	nodeIndex map[uint64]int
}

// NodeByID returns the node carrying the given id.
//
// An id absent from the node set reports errs.ErrDanglingNodeRef; this is how
// a sample referencing a missing node surfaces when its chunk's closure is
// computed.
func (p *Profile) NodeByID(id uint64) (*Node, error) {
	pos, ok := p.nodeIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %d", errs.ErrDanglingNodeRef, id)
	}

	return &p.Nodes[pos], nil
}
