package simulator

// pqItem is one entry of the driver's priority queue: a MachineState node
// ranked by its priority clock, with insertion order as a deterministic
// tie-breaker so two states with the same priority are popped FIFO.
type pqItem struct {
	priority int
	seq      int
	node     *node
}

// priorityQueue is a binary min-heap over (priority, seq), the same shape
// the teacher's core/txpool uses a priority queue for (ranking pending work
// cheaply without a full sort), built on container/heap since no importable
// dependency in this pack provides a generic priority queue (see
// SPEC_FULL.md's "driver priority queue" note).
type priorityQueue struct {
	items []*pqItem
	next  int
}

func (q *priorityQueue) Len() int { return len(q.items) }

func (q *priorityQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func (q *priorityQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.seq = q.next
	q.next++
	q.items = append(q.items, item)
}

func (q *priorityQueue) Pop() interface{} {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}
