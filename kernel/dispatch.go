package kernel

import "gpuprim/buffer"

// GenerateDispatch is the single-thread "dispatch generator" kernel of
// spec.md §4.7: given an element count, it produces the indirect-dispatch
// workgroup-count triples for the histogram pass (segment size
// HistogramSegmentSize) and the scatter pass (segment size
// ScatterSegmentSize), so the rest of the pipeline can be enqueued without
// a host round-trip once count is known. It is a plain function rather
// than a Dispatcher-driven kernel: spec.md describes exactly one
// invocation per count, so the dispatch abstraction would add nothing.
func GenerateDispatch(count uint32) (hist, scatter buffer.GridShape) {
	hist = buffer.GridShape{X: ceilDiv(count, HistogramSegmentSize), Y: 1, Z: 1}
	scatter = buffer.GridShape{X: ceilDiv(count, ScatterSegmentSize), Y: 1, Z: 1}
	return hist, scatter
}
