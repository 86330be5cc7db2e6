package matchingengine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairmatch/matching-engine/internal/models"
)

func newTestOrder(t *testing.T, seq uint64, placedAt time.Time, isVirtual bool) *models.Order {
	t.Helper()
	return &models.Order{
		ID:                   uuid.New(),
		PlacedTime:           placedAt,
		Seq:                  seq,
		BackerStake:          1000,
		UnmatchedBackerStake: 1000,
		Price:                models.NewPriceFromFloat(2.0),
		OutcomeIndex:         0,
		ForOutcome:           true,
		IsVirtual:            isVirtual,
	}
}

func TestPriceLevelQueue_FIFOWithinSamePlacedTime(t *testing.T) {
	now := time.Now()
	q := newPriceLevelQueue(models.NewPriceFromFloat(2.0))
	require.True(t, q.Empty())

	first := newTestOrder(t, 1, now, false)
	second := newTestOrder(t, 2, now, false)
	third := newTestOrder(t, 3, now, false)

	// inserted out of seq order, must still come out oldest-seq-first
	q.Put(third)
	q.Put(first)
	q.Put(second)

	assert.Equal(t, first.ID, q.Pop().ID)
	assert.Equal(t, second.ID, q.Pop().ID)
	assert.Equal(t, third.ID, q.Pop().ID)
	assert.True(t, q.Empty())
}

func TestPriceLevelQueue_OrdersByPlacedTimeThenSeq(t *testing.T) {
	base := time.Now()
	q := newPriceLevelQueue(models.NewPriceFromFloat(2.0))

	later := newTestOrder(t, 1, base.Add(time.Second), false)
	earlier := newTestOrder(t, 2, base, false)

	q.Put(later)
	q.Put(earlier)

	assert.Equal(t, earlier.ID, q.Pop().ID)
	assert.Equal(t, later.ID, q.Pop().ID)
}

func TestPriceLevelQueue_PeekDoesNotRemove(t *testing.T) {
	q := newPriceLevelQueue(models.NewPriceFromFloat(2.0))
	o := newTestOrder(t, 1, time.Now(), false)
	q.Put(o)

	assert.Equal(t, o.ID, q.Peek().ID)
	assert.False(t, q.Empty())
	assert.Equal(t, o.ID, q.Pop().ID)
}

func TestPriceLevelQueue_ClearVirtualOrdersKeepsRealOnes(t *testing.T) {
	now := time.Now()
	q := newPriceLevelQueue(models.NewPriceFromFloat(2.0))

	real1 := newTestOrder(t, 1, now, false)
	virtual := newTestOrder(t, 2, now.Add(time.Millisecond), true)
	real2 := newTestOrder(t, 3, now.Add(2*time.Millisecond), false)

	q.Put(real1)
	q.Put(virtual)
	q.Put(real2)

	require.Len(t, q.VirtualOrders(), 1)
	q.ClearVirtualOrders()

	assert.Empty(t, q.VirtualOrders())
	assert.Equal(t, real1.ID, q.Pop().ID)
	assert.Equal(t, real2.ID, q.Pop().ID)
	assert.True(t, q.Empty())
}
