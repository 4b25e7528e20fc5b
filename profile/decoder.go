package profile

import (
	"fmt"
	"sort"
	"time"

	"github.com/vmtrace/cpuprof/errs"
)

// Decoder decodes a single .cpuprofile document from a byte buffer.
//
// The decoder is a single-shot streaming parse: node objects are consumed one
// at a time in document order, samples and timeDeltas stream into a shared
// by-index buffer so either may arrive first, and parent links are resolved
// in a second pass once every node id is known.
//
// Note: The Decoder is NOT reusable. After calling Decode, a new decoder must
// be created for further decoding.
type Decoder struct {
	sc *scanner

	nodes       []Node
	nodeIndex   map[uint64]int
	parentPairs []parentPair
	samples     []Sample

	startTime time.Duration
	endTime   time.Duration
	elapsed   time.Duration

	hasNodes      bool
	hasStartTime  bool
	hasEndTime    bool
	hasSamples    bool
	hasTimeDeltas bool
}

// parentPair queues one (parent, child) edge discovered while decoding a
// children list, to be applied after all nodes are known. A child may appear
// in the document before or after its parent.
type parentPair struct {
	parentID uint64
	childID  uint64
}

// NewDecoder creates a Decoder over data. The returned Profile borrows the
// opaque payload spans from data, so data must stay valid (and unmodified)
// for the Profile's lifetime.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{
		sc:        newScanner(data),
		nodeIndex: make(map[uint64]int),
	}
}

// Decode is shorthand for NewDecoder(data).Decode().
func Decode(data []byte) (*Profile, error) {
	return NewDecoder(data).Decode()
}

// Decode parses the document and returns the reconstructed Profile.
//
// On any error no partial Profile is returned. Errors are matched with
// errors.Is against the errs sentinels: errs.ErrInvalidDocument for syntax,
// errs.ErrMissingField / errs.ErrUnknownField for schema violations (the
// message names the field), errs.ErrDanglingNodeRef for a children entry
// naming an unknown node, and errs.ErrNegativeTimestamp for delta underflow.
func (d *Decoder) Decode() (*Profile, error) {
	err := d.sc.eachMember(func(key []byte) error {
		switch string(key) {
		case "nodes":
			d.hasNodes = true

			return d.sc.eachElement(func(int) error { return d.decodeNode() })
		case "startTime":
			v, err := d.sc.readUint64()
			if err != nil {
				return err
			}
			d.startTime = microseconds(int64(v))
			d.hasStartTime = true

			return nil
		case "endTime":
			v, err := d.sc.readUint64()
			if err != nil {
				return err
			}
			d.endTime = microseconds(int64(v))
			d.hasEndTime = true

			return nil
		case "samples":
			d.hasSamples = true

			return d.sc.eachElement(func(index int) error {
				id, err := d.sc.readUint64()
				if err != nil {
					return err
				}
				d.sampleAt(index).NodeID = id

				return nil
			})
		case "timeDeltas":
			d.hasTimeDeltas = true

			return d.sc.eachElement(func(index int) error {
				delta, err := d.sc.readInt64()
				if err != nil {
					return err
				}
				d.elapsed += microseconds(delta)
				if d.elapsed < 0 {
					return fmt.Errorf("%w: timeDeltas[%d]", errs.ErrNegativeTimestamp, index)
				}
				d.sampleAt(index).Ts = d.elapsed

				return nil
			})
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnknownField, key)
		}
	})
	if err != nil {
		return nil, err
	}
	if err := d.sc.end(); err != nil {
		return nil, err
	}

	if !d.hasNodes {
		return nil, fmt.Errorf("%w: nodes", errs.ErrMissingField)
	}
	if !d.hasStartTime {
		return nil, fmt.Errorf("%w: startTime", errs.ErrMissingField)
	}
	if !d.hasEndTime {
		return nil, fmt.Errorf("%w: endTime", errs.ErrMissingField)
	}

	if err := d.resolveParents(); err != nil {
		return nil, err
	}

	if !d.hasSamples {
		return nil, fmt.Errorf("%w: samples", errs.ErrMissingField)
	}
	if !d.hasTimeDeltas {
		return nil, fmt.Errorf("%w: timeDeltas", errs.ErrMissingField)
	}

	// Stable so that equal-timestamp samples keep their document order.
	sort.SliceStable(d.samples, func(i, j int) bool {
		return d.samples[i].Less(d.samples[j])
	})

	return &Profile{
		Nodes:     d.nodes,
		StartTime: d.startTime,
		EndTime:   d.endTime,
		Samples:   d.samples,
		nodeIndex: d.nodeIndex,
	}, nil
}

// decodeNode consumes one node object, records its id in the index, and
// queues its children edges for the parent pass.
func (d *Decoder) decodeNode() error {
	var node Node
	var hasID, hasCallFrame, hasHitCount bool

	err := d.sc.eachMember(func(key []byte) error {
		var err error
		switch string(key) {
		case "id":
			node.ID, err = d.sc.readUint64()
			hasID = err == nil
		case "callFrame":
			node.CallFrame, err = d.sc.skipValue()
			hasCallFrame = err == nil
		case "hitCount":
			node.HitCount, err = d.sc.readUint32()
			hasHitCount = err == nil
		case "children":
			node.Children = make([]uint64, 0, 4)

			return d.sc.eachElement(func(int) error {
				id, err := d.sc.readUint64()
				if err != nil {
					return err
				}
				node.Children = append(node.Children, id)

				return nil
			})
		case "deoptReason":
			node.DeoptReason, err = d.sc.skipValue()
		case "positionTicks":
			node.PositionTicks, err = d.sc.skipValue()
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnknownField, key)
		}

		return err
	})
	if err != nil {
		return err
	}

	if !hasID {
		return fmt.Errorf("%w: id", errs.ErrMissingField)
	}
	if !hasCallFrame {
		return fmt.Errorf("%w: callFrame", errs.ErrMissingField)
	}
	if !hasHitCount {
		return fmt.Errorf("%w: hitCount", errs.ErrMissingField)
	}

	d.nodeIndex[node.ID] = len(d.nodes)
	for _, childID := range node.Children {
		d.parentPairs = append(d.parentPairs, parentPair{parentID: node.ID, childID: childID})
	}
	d.nodes = append(d.nodes, node)

	return nil
}

// resolveParents applies the queued (parent, child) edges now that the id
// index is complete.
func (d *Decoder) resolveParents() error {
	for _, pair := range d.parentPairs {
		pos, ok := d.nodeIndex[pair.childID]
		if !ok {
			return fmt.Errorf("%w: node %d lists child %d", errs.ErrDanglingNodeRef, pair.parentID, pair.childID)
		}
		d.nodes[pos].parentID = pair.parentID
		d.nodes[pos].hasParent = true
	}

	return nil
}

// sampleAt grows the shared sample buffer on demand; samples and timeDeltas
// both write into it by index, in whichever order the document lists them.
func (d *Decoder) sampleAt(index int) *Sample {
	for len(d.samples) <= index {
		d.samples = append(d.samples, Sample{})
	}

	return &d.samples[index]
}

func microseconds(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}
