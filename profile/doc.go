// Package profile decodes, chunks and re-encodes v8 .cpuprofile documents.
//
// A .cpuprofile is a single JSON object carrying a call tree (nodes with
// children lists), a time-ordered sample stream referencing that tree, and
// delta-encoded sample timestamps:
//
//	{
//	  "nodes": [{"id":1,"callFrame":{...},"hitCount":0,"children":[2]}, ...],
//	  "startTime": 1000,
//	  "endTime": 2000,
//	  "samples": [3, 2, 1],
//	  "timeDeltas": [100, 50, 25]
//	}
//
// # Decoding
//
// Decode reconstructs what the wire format leaves implicit: parent links are
// derived from the children lists in a second pass, and absolute sample
// timestamps are accumulated from the signed microsecond deltas. The opaque
// sub-documents (callFrame, deoptReason, positionTicks) are captured as
// sub-slices of the input buffer and never parsed, so a decoded Profile must
// not outlive the buffer it was decoded from.
//
// The schema is closed: an unexpected field on either the document or a node
// fails decoding with errs.ErrUnknownField, and every required field that is
// absent fails with errs.ErrMissingField naming the field.
//
// # Chunking
//
// (*Profile).Chunks partitions the sorted sample sequence into contiguous
// ranges and computes, per range, the minimal set of nodes the range needs:
// every sampled node plus all of its ancestors. Chunks are borrowed views;
// they allocate no node or payload data of their own.
//
// # Encoding
//
// Encoder writes the wire format back out with a fixed member order and
// re-derived timeDeltas. Encoding an unmodified Profile decoded from a
// canonically formatted document reproduces that document byte for byte.
//
// A Profile is immutable after decode and safe to share across goroutines;
// encoding the chunks of one Profile concurrently needs no locking.
package profile
