// Package cpuprof decodes, splits and re-encodes v8 .cpuprofile traces.
//
// A .cpuprofile is a JSON document describing a call tree plus a
// time-ordered sample stream referencing that tree. Large traces choke the
// tools that load them; cpuprof splits one trace into N smaller,
// independently valid traces covering disjoint, contiguous sample ranges,
// each retaining only the portion of the call tree its samples need.
//
// # Basic Usage
//
// Splitting a trace file into four parts:
//
//	results, err := cpuprof.Split("big.cpuprofile", "out", 4, split.Options{})
//
// Working with a trace in memory:
//
//	prof, err := cpuprof.Decode(data)
//	if err != nil {
//	    return err
//	}
//	chunks, err := prof.Chunks(4)
//	if err != nil {
//	    return err
//	}
//	encoder := profile.NewEncoder()
//	defer encoder.Close()
//	for _, chunk := range chunks {
//	    if err := encoder.EncodeChunk(w, chunk); err != nil {
//	        return err
//	    }
//	}
//
// Decoded profiles borrow the opaque call-frame payloads from the input
// buffer, so the buffer must outlive the Profile and every chunk derived
// from it. Encoding an unmodified profile decoded from a canonically
// formatted document reproduces it byte for byte.
//
// # Package Structure
//
// This package provides thin wrappers over the underlying packages:
//   - profile: decoder, data model, chunk engine and encoder (the core)
//   - split: parallel chunk-file orchestration
//   - compress: optional chunk output codecs (zstd, s2, lz4)
//   - errs: sentinel errors for matching with errors.Is
package cpuprof

import (
	"github.com/vmtrace/cpuprof/profile"
	"github.com/vmtrace/cpuprof/split"
)

// Decode parses one .cpuprofile document. The returned Profile borrows the
// opaque payload spans from data; keep data alive and unmodified for the
// Profile's lifetime.
func Decode(data []byte) (*profile.Profile, error) {
	return profile.Decode(data)
}

// Split splits the trace at inputPath into up to chunkCount files under
// outDir. See split.Run for the full contract.
func Split(inputPath, outDir string, chunkCount int, opts split.Options) ([]split.Result, error) {
	return split.Run(inputPath, outDir, chunkCount, opts)
}
