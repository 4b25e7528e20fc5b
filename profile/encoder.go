package profile

import (
	"io"
	"strconv"
	"time"

	"github.com/vmtrace/cpuprof/internal/pool"
)

// Encoder serializes profiles and chunks back to the .cpuprofile wire format.
//
// Output is compact JSON with a fixed member order — nodes, startTime,
// endTime, samples, timeDeltas, and per node id, callFrame, hitCount, then
// the optional members — so that encoding an unmodified Profile decoded from
// a canonically formatted document reproduces it byte for byte. The
// timeDeltas are re-derived from the absolute sample timestamps, and a
// chunk's node and children lists are filtered to its closure on the fly.
//
// The document is staged in a pooled buffer and handed to the writer as a
// single Write call.
//
// Note: The Encoder is NOT thread-safe. Use one encoder per goroutine; for
// parallel chunk serialization give each worker its own Encoder.
type Encoder struct {
	buf *pool.ByteBuffer
}

// NewEncoder creates an Encoder backed by a pooled staging buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: pool.GetEncodeBuffer()}
}

// Close returns the staging buffer to the pool. The Encoder must not be used
// after Close.
func (e *Encoder) Close() {
	if e.buf != nil {
		pool.PutEncodeBuffer(e.buf)
		e.buf = nil
	}
}

// EncodeProfile writes the whole profile to w.
func (e *Encoder) EncodeProfile(w io.Writer, p *Profile) error {
	e.buf.Reset()
	e.appendDocument(func(emit func(n *Node)) {
		for i := range p.Nodes {
			emit(&p.Nodes[i])
		}
	}, nil, p.StartTime, p.EndTime, p.Samples)

	_, err := w.Write(e.buf.Bytes())

	return err
}

// EncodeChunk writes one chunk to w as an independently valid .cpuprofile
// document: the node list is filtered to the chunk's closure, children lists
// are filtered likewise, and timeDeltas restart from zero at the chunk's
// first sample.
func (e *Encoder) EncodeChunk(w io.Writer, c *Chunk) error {
	e.buf.Reset()
	e.appendDocument(c.eachNode, c.included, c.profile.StartTime, c.profile.EndTime, c.samples)

	_, err := w.Write(e.buf.Bytes())

	return err
}

// appendDocument stages one wire document. nodes drives the node emission
// order; included, when non-nil, filters every emitted children list.
func (e *Encoder) appendDocument(nodes func(emit func(n *Node)), included map[uint64]struct{}, start, end time.Duration, samples []Sample) {
	e.appendString(`{"nodes":[`)
	first := true
	nodes(func(n *Node) {
		if !first {
			e.appendByte(',')
		}
		first = false
		e.appendNode(n, included)
	})

	e.appendString(`],"startTime":`)
	e.appendInt(asMicros(start))
	e.appendString(`,"endTime":`)
	e.appendInt(asMicros(end))

	e.appendString(`,"samples":[`)
	for i := range samples {
		if i > 0 {
			e.appendByte(',')
		}
		e.appendUint(samples[i].NodeID)
	}

	// First delta is measured from zero, the rest from the previous sample.
	e.appendString(`],"timeDeltas":[`)
	var last int64
	for i := range samples {
		if i > 0 {
			e.appendByte(',')
		}
		ts := asMicros(samples[i].Ts)
		e.appendInt(ts - last)
		last = ts
	}
	e.appendString(`]}`)
}

func (e *Encoder) appendNode(n *Node, included map[uint64]struct{}) {
	e.appendString(`{"id":`)
	e.appendUint(n.ID)
	e.appendString(`,"callFrame":`)
	e.appendRaw(n.CallFrame)
	e.appendString(`,"hitCount":`)
	e.appendUint(uint64(n.HitCount))

	if n.Children != nil {
		e.appendString(`,"children":[`)
		first := true
		for _, id := range n.Children {
			if included != nil {
				if _, ok := included[id]; !ok {
					continue
				}
			}
			if !first {
				e.appendByte(',')
			}
			first = false
			e.appendUint(id)
		}
		e.appendByte(']')
	}
	if n.DeoptReason != nil {
		e.appendString(`,"deoptReason":`)
		e.appendRaw(n.DeoptReason)
	}
	if n.PositionTicks != nil {
		e.appendString(`,"positionTicks":`)
		e.appendRaw(n.PositionTicks)
	}
	e.appendByte('}')
}

func (e *Encoder) appendByte(c byte) {
	e.buf.B = append(e.buf.B, c)
}

func (e *Encoder) appendString(s string) {
	e.buf.B = append(e.buf.B, s...)
}

func (e *Encoder) appendRaw(raw []byte) {
	e.buf.B = append(e.buf.B, raw...)
}

func (e *Encoder) appendUint(v uint64) {
	e.buf.B = strconv.AppendUint(e.buf.B, v, 10)
}

func (e *Encoder) appendInt(v int64) {
	e.buf.B = strconv.AppendInt(e.buf.B, v, 10)
}

func asMicros(d time.Duration) int64 {
	return int64(d / time.Microsecond)
}
