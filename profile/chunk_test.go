package profile

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmtrace/cpuprof/errs"
)

// chainProfile builds nodes 1 <- 2 <- ... <- depth (each node the child of
// the previous) with the given samples.
func chainProfile(t *testing.T, depth int, samples string, deltas string) *Profile {
	t.Helper()

	doc := `{"nodes":[`
	for id := 1; id <= depth; id++ {
		if id > 1 {
			doc += ","
		}
		doc += `{"id":` + strconv.Itoa(id) + `,"callFrame":{},"hitCount":1`
		if id < depth {
			doc += `,"children":[` + strconv.Itoa(id+1) + `]`
		}
		doc += `}`
	}
	doc += `],"startTime":0,"endTime":1000,"samples":` + samples + `,"timeDeltas":` + deltas + `}`

	return mustDecode(t, doc)
}

func TestChunks_Partition(t *testing.T) {
	t.Run("CoverageNoGapsNoOverlap", func(t *testing.T) {
		prof := mustDecode(t, fixture)

		for n := 1; n <= 7; n++ {
			chunks, err := prof.Chunks(n)
			require.NoError(t, err)

			var joined []Sample
			for _, chunk := range chunks {
				joined = append(joined, chunk.Samples()...)
			}
			require.Equal(t, prof.Samples, joined, "n=%d", n)
		}
	})

	t.Run("CeilingSizes", func(t *testing.T) {
		prof := mustDecode(t, fixture) // 5 samples

		chunks, err := prof.Chunks(2)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		require.Len(t, chunks[0].Samples(), 3)
		require.Len(t, chunks[1].Samples(), 2)
	})

	t.Run("FewerChunksThanRequested", func(t *testing.T) {
		prof := mustDecode(t, fixture) // 5 samples

		chunks, err := prof.Chunks(100)
		require.NoError(t, err)
		require.Len(t, chunks, 5)
		for _, chunk := range chunks {
			require.Len(t, chunk.Samples(), 1, "never an empty chunk")
		}
	})

	t.Run("EmptyProfile", func(t *testing.T) {
		doc := `{"nodes":[],"startTime":0,"endTime":0,"samples":[],"timeDeltas":[]}`
		prof := mustDecode(t, doc)

		chunks, err := prof.Chunks(4)
		require.NoError(t, err)
		require.Empty(t, chunks)
	})

	t.Run("ZeroChunksInvalid", func(t *testing.T) {
		prof := mustDecode(t, fixture)

		_, err := prof.Chunks(0)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrInvalidChunkCount)
	})
}

func TestChunks_Closure(t *testing.T) {
	t.Run("Completeness", func(t *testing.T) {
		prof := mustDecode(t, fixture)

		chunks, err := prof.Chunks(3)
		require.NoError(t, err)

		for _, chunk := range chunks {
			for _, sample := range chunk.Samples() {
				id := sample.NodeID
				for {
					require.True(t, chunk.Includes(id), "ancestor %d missing", id)
					node, err := prof.NodeByID(id)
					require.NoError(t, err)
					parentID, ok := node.Parent()
					if !ok {
						break
					}
					id = parentID
				}
			}
		}
	})

	t.Run("Minimality", func(t *testing.T) {
		prof := mustDecode(t, fixture)

		chunks, err := prof.Chunks(3)
		require.NoError(t, err)

		for _, chunk := range chunks {
			// Rebuild the expected closure naively and compare sizes; every
			// included id must be sampled or an ancestor of a sampled node.
			want := make(map[uint64]struct{})
			for _, sample := range chunk.Samples() {
				id := sample.NodeID
				for {
					want[id] = struct{}{}
					node, err := prof.NodeByID(id)
					require.NoError(t, err)
					parentID, ok := node.Parent()
					if !ok {
						break
					}
					id = parentID
				}
			}

			require.Equal(t, len(want), chunk.IncludedCount())
			for id := range want {
				require.True(t, chunk.Includes(id))
			}
		}
	})

	t.Run("ReferenceScenario", func(t *testing.T) {
		// Three-node chain, samples [3,2,1] with deltas [100,50,25]:
		// timestamps 100/150/175, two chunks of sizes 2 and 1.
		prof := chainProfile(t, 3, `[3,2,1]`, `[100,50,25]`)

		chunks, err := prof.Chunks(2)
		require.NoError(t, err)
		require.Len(t, chunks, 2)

		require.Len(t, chunks[0].Samples(), 2)
		require.Equal(t, 3, chunks[0].IncludedCount())
		for _, id := range []uint64{1, 2, 3} {
			require.True(t, chunks[0].Includes(id))
		}

		require.Len(t, chunks[1].Samples(), 1)
		require.Equal(t, uint64(1), chunks[1].Samples()[0].NodeID)
		require.Equal(t, 1, chunks[1].IncludedCount())
		require.True(t, chunks[1].Includes(1))
		require.False(t, chunks[1].Includes(2))
	})

	t.Run("DeepChainSingleWalk", func(t *testing.T) {
		// All samples hit the leaf of a deep chain; the closure is the whole
		// chain and repeated samples stop at the first already-included node.
		prof := chainProfile(t, 50, `[50,50,50,50]`, `[1,1,1,1]`)

		chunks, err := prof.Chunks(1)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		require.Equal(t, 50, chunks[0].IncludedCount())
	})

	t.Run("SharedAncestorsNotDuplicated", func(t *testing.T) {
		// Two leaves under one root; sampling both must include the root
		// exactly once and nothing else.
		doc := `{"nodes":[{"id":1,"callFrame":{},"hitCount":0,"children":[2,3]},` +
			`{"id":2,"callFrame":{},"hitCount":1},{"id":3,"callFrame":{},"hitCount":1}],` +
			`"startTime":0,"endTime":100,"samples":[2,3],"timeDeltas":[10,10]}`
		prof := mustDecode(t, doc)

		chunks, err := prof.Chunks(1)
		require.NoError(t, err)
		require.Equal(t, 3, chunks[0].IncludedCount())
	})

	t.Run("DanglingSampleReference", func(t *testing.T) {
		doc := `{"nodes":[{"id":1,"callFrame":{},"hitCount":0}],` +
			`"startTime":0,"endTime":100,"samples":[99],"timeDeltas":[10]}`
		prof := mustDecode(t, doc)

		_, err := prof.Chunks(1)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrDanglingNodeRef)
		require.ErrorContains(t, err, "99")
	})
}

func TestChunk_Accessors(t *testing.T) {
	prof := mustDecode(t, fixture)

	chunks, err := prof.Chunks(2)
	require.NoError(t, err)

	require.Same(t, prof, chunks[0].Profile())

	// The chunk's samples are a window into the profile's slice, not a copy.
	require.Equal(t, &prof.Samples[0], &chunks[0].Samples()[0])
	require.Equal(t, &prof.Samples[3], &chunks[1].Samples()[0])
}
