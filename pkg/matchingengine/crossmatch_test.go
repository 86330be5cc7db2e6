package matchingengine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairmatch/matching-engine/internal/models"
)

func placeCrossMatched(t *testing.T, book *OrderBook, backerStake int64, price float64, outcome int, forOutcome bool) (*models.Order, []*models.Match) {
	t.Helper()
	order, matches, err := book.PlaceOrder(models.NewOrderRequest{
		BackerStake:  backerStake,
		Price:        decimal.NewFromFloat(price),
		OutcomeIndex: outcome,
		ForOutcome:   forOutcome,
	}, true)
	require.NoError(t, err)
	return order, matches
}

// assertEachMatchHasExactlyOneVirtualLeg is the shape every cross-matched
// fill must have: one side real, one side virtual. A virtual order is never
// allowed to match another virtual order (see matching.go's InvariantViolation
// check), so this always holds for matches synthesis produces.
func assertEachMatchHasExactlyOneVirtualLeg(t *testing.T, matches []*models.Match) {
	t.Helper()
	for _, m := range matches {
		assert.NotEqual(t, m.MakingOrderIsVirtual, m.TakingOrderIsVirtual)
	}
}

func TestCrossMatch_TwoWayMarketSynthesisesOppositeOutcome(t *testing.T) {
	book := NewOrderBook(2)

	placeCrossMatched(t, book, defaultStake, 5, 0, false)

	taking, matches := placeCrossMatched(t, book, defaultStake, 1.25, 1, false)
	require.Len(t, matches, 2)
	assertEachMatchHasExactlyOneVirtualLeg(t, matches)

	var takingLegs int
	for _, m := range matches {
		if m.TakingOrderID == taking.ID {
			takingLegs++
		}
	}
	assert.Equal(t, 1, takingLegs)
}

func TestCrossMatch_ImprovesOnWorseDirectOffer(t *testing.T) {
	book := NewOrderBook(2)

	lay, matches := placeCrossMatched(t, book, defaultStake, 5, 0, false)
	assert.Empty(t, matches)

	back, matches := placeCrossMatched(t, book, defaultStake, 1.30, 1, true)
	assert.Empty(t, matches)

	taking, matches := placeCrossMatched(t, book, defaultStake, 1.40, 1, false)
	require.Len(t, matches, 2)
	assertEachMatchHasExactlyOneVirtualLeg(t, matches)

	for _, m := range matches {
		if m.TakingOrderID == taking.ID {
			assert.Less(t, m.MatchedPrice.Float64(), 1.30)
		}
	}
	assert.NotNil(t, lay)
	assert.NotNil(t, back)
}

// TestCrossMatch_BetfairThreeWayExample reproduces Betfair's published
// cross-matching walkthrough for a three-way market (Newcastle vs Chelsea,
// plus the draw): a large lay-the-draw order matches against the Draw book
// directly and, via synthesised virtual liquidity, against the Newcastle and
// Chelsea books too.
func TestCrossMatch_BetfairThreeWayExample(t *testing.T) {
	const (
		newcastle = 0
		chelsea   = 1
		theDraw   = 2
	)

	book := NewOrderBook(3)

	requireNoMatch := func(backerStake int64, price float64, outcome int, forOutcome bool) {
		_, matches := placeCrossMatched(t, book, backerStake, price, outcome, forOutcome)
		require.Empty(t, matches)
	}

	// Newcastle book
	requireNoMatch(200, 1000, newcastle, true)
	requireNoMatch(7500, 15, newcastle, true)
	requireNoMatch(12000, 4, newcastle, true)
	requireNoMatch(30000, 2, newcastle, false)
	requireNoMatch(20000, 1.5, newcastle, false)
	requireNoMatch(99900, 1.01, newcastle, false)

	// Chelsea book
	requireNoMatch(200, 1000, chelsea, true)
	requireNoMatch(1000, 20, chelsea, true)
	requireNoMatch(15000, 5, chelsea, true)
	requireNoMatch(15000, 3, chelsea, false)
	requireNoMatch(25000, 2.4, chelsea, false)
	requireNoMatch(99900, 1.01, chelsea, false)

	// The Draw book
	requireNoMatch(200, 1000, theDraw, true)
	requireNoMatch(5000, 50, theDraw, true)
	requireNoMatch(10000, 10, theDraw, true)
	requireNoMatch(15000, 5, theDraw, false)
	requireNoMatch(25000, 3, theDraw, false)
	requireNoMatch(99900, 1.01, theDraw, false)

	bigLay, matches := placeCrossMatched(t, book, 1_000_000, 1000, theDraw, false)

	var takingMatches []*models.Match
	for _, m := range matches {
		if m.TakingOrderID == bigLay.ID {
			takingMatches = append(takingMatches, m)
		}
	}
	require.Len(t, takingMatches, 5)

	assert.Equal(t, models.NewPriceFromFloat(6.0), takingMatches[0].MatchedPrice)
	assert.EqualValues(t, 7500, takingMatches[0].MatchedBackerStake)
	assert.True(t, takingMatches[0].MakingOrderIsVirtual)

	assert.Equal(t, models.NewPriceFromFloat(10.0), takingMatches[1].MatchedPrice)
	assert.EqualValues(t, 10000, takingMatches[1].MatchedBackerStake)
	assert.False(t, takingMatches[1].MakingOrderIsVirtual)

	assert.Equal(t, models.NewPriceFromFloat(12.0), takingMatches[2].MatchedPrice)
	assert.EqualValues(t, 1250, takingMatches[2].MatchedBackerStake)
	assert.True(t, takingMatches[2].MakingOrderIsVirtual)

	assert.Equal(t, models.NewPriceFromFloat(50), takingMatches[3].MatchedPrice)
	assert.EqualValues(t, 5000, takingMatches[3].MatchedBackerStake)
	assert.False(t, takingMatches[3].MakingOrderIsVirtual)

	assert.Equal(t, models.NewPriceFromFloat(1000.0), takingMatches[4].MatchedPrice)
	assert.EqualValues(t, 200, takingMatches[4].MatchedBackerStake)
	assert.False(t, takingMatches[4].MakingOrderIsVirtual)
}
