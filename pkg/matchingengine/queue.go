package matchingengine

import "github.com/fairmatch/matching-engine/internal/models"

// PriceLevelQueue is the time-priority queue of orders — real and virtual —
// resting at one (outcome, side, price) level. Orders are kept sorted
// ascending by (PlacedTime, Seq), oldest first.
type PriceLevelQueue struct {
	Price  models.Price
	orders []*models.Order
}

func newPriceLevelQueue(price models.Price) *PriceLevelQueue {
	return &PriceLevelQueue{Price: price}
}

// Empty reports whether the queue holds no orders.
func (q *PriceLevelQueue) Empty() bool {
	return len(q.orders) == 0
}

// Peek returns the oldest order without removing it, or nil if empty.
func (q *PriceLevelQueue) Peek() *models.Order {
	if q.Empty() {
		return nil
	}
	return q.orders[0]
}

// Pop removes and returns the oldest order, or nil if empty.
func (q *PriceLevelQueue) Pop() *models.Order {
	if q.Empty() {
		return nil
	}
	o := q.orders[0]
	q.orders = q.orders[1:]
	return o
}

// Put inserts o preserving ascending (PlacedTime, Seq) order. Re-inserting an
// order that kept its original PlacedTime (the partial-match re-queue case in
// OrderBook.matchOrPut) places it back wherever that time sorts — at the
// head, if it was already the oldest resting order at this level.
func (q *PriceLevelQueue) Put(o *models.Order) {
	i := q.searchInsertionPoint(o)
	q.orders = append(q.orders, nil)
	copy(q.orders[i+1:], q.orders[i:])
	q.orders[i] = o
}

func (q *PriceLevelQueue) searchInsertionPoint(o *models.Order) int {
	lo, hi := 0, len(q.orders)
	for lo < hi {
		mid := (lo + hi) / 2
		if orderBefore(q.orders[mid], o) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func orderBefore(a, b *models.Order) bool {
	if a.PlacedTime.Equal(b.PlacedTime) {
		return a.Seq < b.Seq
	}
	return a.PlacedTime.Before(b.PlacedTime)
}

// VirtualOrders returns the virtual orders resting at this level. At most one
// is expected to exist at any time (invariant 7 of the matching engine).
func (q *PriceLevelQueue) VirtualOrders() []*models.Order {
	var out []*models.Order
	for _, o := range q.orders {
		if o.IsVirtual {
			out = append(out, o)
		}
	}
	return out
}

// ClearVirtualOrders removes all virtual orders from the level, leaving the
// relative order of the remaining real orders unchanged.
func (q *PriceLevelQueue) ClearVirtualOrders() {
	kept := q.orders[:0]
	for _, o := range q.orders {
		if !o.IsVirtual {
			kept = append(kept, o)
		}
	}
	q.orders = kept
}
