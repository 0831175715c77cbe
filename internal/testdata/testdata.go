// Package testdata generates reproducible pseudo-random u32 fixtures for
// the kernel and buffer property tests. The teacher hashes row values with
// xxhash to build deterministic 128-bit group keys (dataframe/groupby_sort.go
// buildKey128); this package repurposes the same "hash a counter"
// determinism for a seeded key-stream generator, matching the teacher's
// preference for xxhash-based determinism over math/rand's global state.
package testdata

import (
	"encoding/binary"

	xxhash "github.com/cespare/xxhash/v2"
)

// Keys returns n deterministic pseudo-random uint32 values derived from
// seed. The same (seed, n) pair always produces the same sequence, and a
// prefix of a longer sequence equals the corresponding shorter sequence,
// so callers can grow a fixture without invalidating earlier indices.
func Keys(seed uint64, n int) []uint32 {
	out := make([]uint32, n)
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], seed)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(buf[8:16], uint64(i))
		out[i] = uint32(xxhash.Sum64(buf[:]))
	}
	return out
}

// KeysWithDuplicates is like Keys but folds the hash space down to
// [0, distinctValues) first, guaranteeing runs and repeated keys for
// FindRuns and radix-sort-stability-adjacent property tests (spec.md §8
// scenario 5 exercises exactly this shape).
func KeysWithDuplicates(seed uint64, n, distinctValues int) []uint32 {
	wide := Keys(seed, n)
	out := make([]uint32, n)
	for i, v := range wide {
		out[i] = v % uint32(distinctValues)
	}
	return out
}

// Values returns n deterministic uint32 payload values, independent of any
// Keys stream sharing the same seed (distinguished by a fixed domain tag),
// so a test can pair Keys(seed, n) with Values(seed, n) without the
// payload accidentally mirroring the key stream.
func Values(seed uint64, n int) []uint32 {
	return Keys(seed^0x76616c7565, n)
}
