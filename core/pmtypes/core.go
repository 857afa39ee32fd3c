package pmtypes

// Core is a single execution unit currently running a transaction to
// completion at the given simulated clock.
type Core struct {
	Clock       int
	Transaction *Transaction
}

// CoreHeap is a binary min-heap of running Cores ordered by completion
// clock, so the driver can always ask "which core finishes next" in O(1)
// and retire it in O(log n). It holds only busy cores: idle capacity is
// tracked as CoreCount - len(heap), not as heap entries.
type CoreHeap []*Core

func (h CoreHeap) Len() int            { return len(h) }
func (h CoreHeap) Less(i, j int) bool  { return h[i].Clock < h[j].Clock }
func (h CoreHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *CoreHeap) Push(x interface{}) { *h = append(*h, x.(*Core)) }
func (h *CoreHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
