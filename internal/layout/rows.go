package layout

// RowAllocator hands out display rows for one full grouping pass.
//
// Rows are handed out in order and wrap to 0 once the visible row budget is
// used up, so more than capacity uncorrelated actors overlap. Groups that
// share a transaction id share the row of the first one seen.
type RowAllocator struct {
	capacity int
	next     int
	byTxn    map[string]int
}

// NewRowAllocator returns an allocator for capacity rows (at least one).
func NewRowAllocator(capacity int) *RowAllocator {
	return &RowAllocator{
		capacity: max(1, capacity),
		byTxn:    make(map[string]int),
	}
}

// Fresh returns the next row in cyclic order.
func (a *RowAllocator) Fresh() int {
	row := a.next
	a.next++
	if a.next >= a.capacity {
		a.next = 0
	}
	return row
}

// Correlated returns the row for transaction txn. The first call for a txn
// takes a fresh row; later calls reuse it and report reused=true.
func (a *RowAllocator) Correlated(txn string) (row int, reused bool) {
	if row, ok := a.byTxn[txn]; ok {
		return row, true
	}
	row = a.Fresh()
	a.byTxn[txn] = row
	return row, false
}
