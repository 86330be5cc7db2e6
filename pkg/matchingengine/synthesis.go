package matchingengine

import (
	"math"

	"github.com/google/uuid"

	"github.com/fairmatch/matching-engine/internal/models"
)

// generateVirtualOrders tries to synthesise a virtual matching order (VMO)
// for takingOrder's outcome, plus one virtual dual order (VDO) per sibling
// outcome, from the best resting real order on the same side as takingOrder
// at every other outcome. It is a no-op — recorded via
// SynthesisAbortedTotal — whenever a sibling outcome has no liquidity, the
// siblings' implied probabilities sum to more than 0.99, or the VMO would
// round down to a zero stake.
//
// Synthesis runs once per matching-loop iteration and is undone by
// clearVirtualOrders before the next one, so it always starts from the
// market's current best prices rather than compounding stale virtual state.
func (ob *OrderBook) generateVirtualOrders(takingOrder *models.Order) {
	vmoForOutcome := !takingOrder.ForOutcome
	vdoForOutcome := vmoForOutcome
	siblingRealSide := ob.sideFor(takingOrder.ForOutcome)

	type sibling struct {
		outcome int
		order   *models.Order
	}
	siblings := make([]sibling, 0, ob.outcomes-1)
	for i := 0; i < ob.outcomes; i++ {
		if i == takingOrder.OutcomeIndex {
			continue
		}
		tree, ok := siblingRealSide[i]
		if !ok {
			ob.recordSynthesisAbort("sibling_outcome_has_no_liquidity")
			return
		}
		level := ob.bestLevel(tree, nil, vdoForOutcome)
		if level == nil {
			ob.recordSynthesisAbort("sibling_outcome_has_no_liquidity")
			return
		}
		siblings = append(siblings, sibling{outcome: i, order: level.Peek()})
	}
	if len(siblings) != ob.outcomes-1 {
		ob.recordSynthesisAbort("sibling_outcome_has_no_liquidity")
		return
	}

	impliedProbabilityTotal := 0.0
	for _, s := range siblings {
		impliedProbabilityTotal += 1.0 / s.order.Price.Float64()
	}
	if impliedProbabilityTotal > 0.99 {
		ob.recordSynthesisAbort("book_at_or_above_100_percent")
		return
	}

	vmoPrice := models.NewPriceFromFloat(round2(1.0 / (1.0 - impliedProbabilityTotal)))

	minStakeValue := math.Inf(1)
	for _, s := range siblings {
		v := s.order.Price.Float64() * float64(s.order.UnmatchedBackerStake)
		if v < minStakeValue {
			minStakeValue = v
		}
	}
	vmoStake := int64(math.Floor(minStakeValue / vmoPrice.Float64()))
	if vmoStake <= 0 {
		ob.recordSynthesisAbort("zero_vmo_stake")
		return
	}

	vmo := ob.newVirtualOrder(vmoStake, vmoPrice, takingOrder.OutcomeIndex, vmoForOutcome)
	ob.put(vmo)
	ob.metrics.VirtualOrdersCreated.Inc()

	for _, s := range siblings {
		stake := int64(math.Floor(float64(vmoStake) * vmoPrice.Float64() / s.order.Price.Float64()))
		vdo := ob.newVirtualOrder(stake, s.order.Price, s.outcome, vdoForOutcome)
		ob.put(vdo)
		ob.metrics.VirtualOrdersCreated.Inc()
	}
}

func (ob *OrderBook) newVirtualOrder(stake int64, price models.Price, outcome int, forOutcome bool) *models.Order {
	return &models.Order{
		ID:                   uuid.New(),
		PlacedTime:           ob.now(),
		Seq:                  ob.nextSequence(),
		BackerStake:          stake,
		UnmatchedBackerStake: stake,
		Price:                price,
		OutcomeIndex:         outcome,
		ForOutcome:           forOutcome,
		IsVirtual:            true,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
