package profile

import (
	"fmt"

	"github.com/vmtrace/cpuprof/errs"
)

// Chunk is a view over one contiguous range of a profile's sorted samples,
// together with the minimal set of node ids that range needs to remain a
// self-consistent call tree: every sampled node plus all of its ancestors.
//
// A Chunk borrows from its Profile and must not outlive it (nor the buffer
// the Profile was decoded from).
type Chunk struct {
	profile  *Profile
	samples  []Sample
	included map[uint64]struct{}
}

// Chunks partitions the profile's samples into at most n contiguous,
// non-overlapping chunks in ascending time order and computes each chunk's
// node closure. The chunk size is ceil(len(samples)/n), so the final chunk
// may be smaller, and fewer than n chunks are produced when there are fewer
// samples than n. A profile with no samples yields no chunks.
//
// n < 1 fails with errs.ErrInvalidChunkCount. A sample referencing a node id
// absent from the node set fails with errs.ErrDanglingNodeRef.
func (p *Profile) Chunks(n int) ([]*Chunk, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidChunkCount, n)
	}

	total := len(p.Samples)
	if total == 0 {
		return nil, nil
	}

	size := (total + n - 1) / n
	chunks := make([]*Chunk, 0, n)
	for start := 0; start < total; start += size {
		end := min(start+size, total)
		chunk, err := newChunk(p, p.Samples[start:end])
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

// newChunk computes the ancestor closure of the sample range.
//
// The walk ascends parent links from each sampled node but stops as soon as
// it reaches a node already in the set: everything above that node is
// guaranteed present from earlier work. With this early exit each tree edge
// is traversed at most once per chunk, bounding the closure computation to
// O(samples + tree size) instead of O(samples x depth).
func newChunk(p *Profile, samples []Sample) (*Chunk, error) {
	included := make(map[uint64]struct{})
	for _, sample := range samples {
		id := sample.NodeID
		if _, ok := included[id]; ok {
			continue
		}
		included[id] = struct{}{}

		node, err := p.NodeByID(id)
		if err != nil {
			return nil, fmt.Errorf("sample references %w", err)
		}
		for {
			parentID, ok := node.Parent()
			if !ok {
				break
			}
			if _, seen := included[parentID]; seen {
				break
			}
			included[parentID] = struct{}{}
			node, err = p.NodeByID(parentID)
			if err != nil {
				return nil, err
			}
		}
	}

	return &Chunk{profile: p, samples: samples, included: included}, nil
}

// Profile returns the profile this chunk borrows from.
func (c *Chunk) Profile() *Profile {
	return c.profile
}

// Samples returns the chunk's contiguous sample range, still in the
// profile's global ascending timestamp order.
func (c *Chunk) Samples() []Sample {
	return c.samples
}

// Includes reports whether the node id belongs to this chunk's closure.
func (c *Chunk) Includes(id uint64) bool {
	_, ok := c.included[id]

	return ok
}

// IncludedCount returns the size of the chunk's node closure.
func (c *Chunk) IncludedCount() int {
	return len(c.included)
}

// eachNode visits the closure's nodes in the profile's document order.
// The filtering happens on demand at encode time; no node list is
// materialized per chunk.
func (c *Chunk) eachNode(fn func(n *Node)) {
	for i := range c.profile.Nodes {
		node := &c.profile.Nodes[i]
		if _, ok := c.included[node.ID]; ok {
			fn(node)
		}
	}
}
