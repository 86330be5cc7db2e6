package matchingengine

import (
	"math"

	"github.com/fairmatch/matching-engine/internal/models"
)

// MatchOrPut is the engine's single entry point: try to match order against
// the opposite side of its outcome (and, when crossMatching is enabled,
// against virtual liquidity synthesised from sibling outcomes), then rest
// whatever remains unmatched. It is safe for concurrent use; the whole call
// runs under the book's mutex, so observers never see a partially applied
// match.
//
// order's outcome index must lie in [0, Outcomes()), and crossMatching must
// be false for an order that is itself virtual — synthesis never recurses
// into synthesis. Both of these are the caller's
// responsibility to get right and panic with PreconditionViolation if
// violated, rather than being reported as an ordinary error.
func (ob *OrderBook) MatchOrPut(order *models.Order, crossMatching bool) []*models.Match {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.matchOrPutLocked(order, crossMatching)
}

func (ob *OrderBook) matchOrPutLocked(order *models.Order, crossMatching bool) []*models.Match {
	ob.checkPreconditions(order, crossMatching)
	clearVirtual := !order.IsVirtual
	return ob.matchOrPut(order, crossMatching, clearVirtual)
}

func (ob *OrderBook) checkPreconditions(order *models.Order, crossMatching bool) {
	if order.OutcomeIndex < 0 || order.OutcomeIndex >= ob.outcomes {
		panic(models.PreconditionViolation{Reason: "outcome index out of range"})
	}
	if crossMatching && order.IsVirtual {
		panic(models.PreconditionViolation{Reason: "virtual order submitted with cross-matching enabled"})
	}
}

// matchOrPut runs the matching loop for order until it is either completely
// matched or rests unmatched, against the opposite real side of its outcome
// plus, while crossMatching, virtual liquidity regenerated fresh every
// iteration. clearVirtual controls whether virtual orders are swept from the
// whole book before each look at the market and once more on exit — true
// only for the outermost call on a real order; recursive calls matching a
// virtual dual order always pass crossMatching=false and inherit
// clearVirtual=false via matchOrPutLocked, since the top-level call already
// owns cleanup.
func (ob *OrderBook) matchOrPut(order *models.Order, crossMatching bool, clearVirtual bool) []*models.Match {
	var matches []*models.Match
	otherSide := ob.Orders(order.OutcomeIndex, !order.ForOutcome)

	for order.UnmatchedBackerStake > 0 {
		if clearVirtual {
			ob.clearVirtualOrders()
		}
		if crossMatching {
			ob.generateVirtualOrders(order)
		}

		making := ob.popBestExecutable(otherSide, &order.Price, order.ForOutcome)
		if making == nil {
			ob.put(order)
			if clearVirtual {
				ob.clearVirtualOrders()
			}
			return matches
		}

		if order.IsVirtual && making.IsVirtual {
			panic(models.InvariantViolation{Reason: "virtual order matched against virtual order"})
		}
		if order.IsVirtual && order.PartiallyMatched() {
			panic(models.InvariantViolation{Reason: "virtual taking order found partially matched before its match"})
		}
		if making.IsVirtual && making.PartiallyMatched() {
			panic(models.InvariantViolation{Reason: "virtual making order found partially matched before its match"})
		}

		if making.UnmatchedBackerStake <= order.UnmatchedBackerStake {
			matched := making.UnmatchedBackerStake
			m := models.NewMatch(order, making, matched)
			making.UnmatchedBackerStake = 0
			order.UnmatchedBackerStake -= matched
			matches = append(matches, m)
			ob.recordMatch(m)

			if making.IsVirtual {
				matches = append(matches, ob.matchVirtualDualOrders(order)...)
			}
			continue
		}

		matched := order.UnmatchedBackerStake
		m := models.NewMatch(order, making, matched)
		making.UnmatchedBackerStake -= matched
		order.UnmatchedBackerStake = 0
		matches = append(matches, m)
		ob.recordMatch(m)

		if making.IsVirtual {
			ob.rescaleVirtualDualOrders(making)
			matches = append(matches, ob.matchVirtualDualOrders(order)...)
		} else {
			ob.put(making)
		}
	}

	if clearVirtual {
		ob.clearVirtualOrders()
	}
	return matches
}

// matchVirtualDualOrders matches every virtual dual order resting opposite
// order's side on the sibling outcomes against the book, recursively. Each
// VDO match-or-put runs with crossMatching=false (no nested synthesis) and
// clearVirtual=false (the top-level call owns sweeping virtual orders).
func (ob *OrderBook) matchVirtualDualOrders(order *models.Order) []*models.Match {
	vdos := ob.findVirtualDualOrders(order.OutcomeIndex, order.ForOutcome)
	var matches []*models.Match
	for _, vdo := range vdos {
		matches = append(matches, ob.matchOrPutLocked(vdo, false)...)
	}
	return matches
}

// rescaleVirtualDualOrders adjusts the stake of every virtual dual order
// still resting against vmo's sibling outcomes, after vmo itself was only
// partially consumed. The VMO and its VDOs were synthesised so that matching
// the VMO in full would exactly exhaust the sibling liquidity they were
// built from; matching only part of the VMO means each VDO's stake must
// shrink in proportion, floored to the nearest whole cent so a VDO never
// ends up wanting more backer stake than its synthesised price can still
// support against the real order it will in turn match.
func (ob *OrderBook) rescaleVirtualDualOrders(vmo *models.Order) {
	stakeTimesPrice := math.Floor(float64(vmo.BackerStake) * vmo.Price.Float64())
	// The VDOs rest on the VMO's own side; the taker was on the other one.
	vdos := ob.findVirtualDualOrders(vmo.OutcomeIndex, !vmo.ForOutcome)
	for _, vdo := range vdos {
		adjusted := int64(math.Floor(stakeTimesPrice / vdo.Price.Float64()))
		vdo.BackerStake = adjusted
		vdo.UnmatchedBackerStake = adjusted
	}
}

// findVirtualDualOrders returns the virtual dual orders resting opposite
// takingOrderForOutcome on every outcome other than takingOrderOutcomeIndex.
// It panics with InvariantViolation if any sibling outcome is missing its
// VDO, or if more than one virtual order rests at a single outcome side —
// both would mean synthesis left the book in a state it must never reach.
func (ob *OrderBook) findVirtualDualOrders(takingOrderOutcomeIndex int, takingOrderForOutcome bool) map[int]*models.Order {
	by := ob.sideFor(!takingOrderForOutcome)
	found := make(map[int]*models.Order)
	for i := 0; i < ob.outcomes; i++ {
		if i == takingOrderOutcomeIndex {
			continue
		}
		tree, ok := by[i]
		if !ok {
			continue
		}
		var virtual []*models.Order
		tree.Scan(func(level *PriceLevelQueue) bool {
			virtual = append(virtual, level.VirtualOrders()...)
			return true
		})
		if len(virtual) > 1 {
			panic(models.InvariantViolation{Reason: "more than one virtual order resting at a single outcome side"})
		}
		if len(virtual) == 1 {
			found[i] = virtual[0]
		}
	}
	if len(found) != ob.outcomes-1 {
		panic(models.InvariantViolation{Reason: "virtual dual order missing for a sibling outcome"})
	}
	return found
}
