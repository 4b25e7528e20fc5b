// Package errs defines the sentinel errors shared across cpuprof packages.
//
// Callers should match with errors.Is; the wrapping message carries the
// detail (field name, node id, chunk index, path).
package errs

import "errors"

var (
	// ErrInvalidDocument indicates the input is not a well-formed cpuprofile
	// JSON document. The wrapped message includes the byte offset.
	ErrInvalidDocument = errors.New("malformed cpuprofile document")

	// ErrMissingField indicates a required field is absent. The schema is
	// closed: nodes, startTime, endTime, samples and timeDeltas are all
	// mandatory, as are id, callFrame and hitCount on every node.
	ErrMissingField = errors.New("missing required field")

	// ErrUnknownField indicates a field outside the closed cpuprofile schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrDanglingNodeRef indicates a sample or a children entry names a node
	// id that is not present in the profile's node set.
	ErrDanglingNodeRef = errors.New("reference to unknown node id")

	// ErrNegativeTimestamp indicates a timeDeltas entry drove the accumulated
	// sample timestamp below zero.
	ErrNegativeTimestamp = errors.New("time delta underflows sample timestamp")

	// ErrInvalidChunkCount indicates a chunk request with a non-positive count.
	ErrInvalidChunkCount = errors.New("invalid chunk count")
)
