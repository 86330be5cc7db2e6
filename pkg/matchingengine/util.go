package matchingengine

import (
	"strconv"

	"github.com/fairmatch/matching-engine/internal/models"
)

// bestLevel finds the level on tree that a taker would execute against.
//
// When takerIsBacking, the taker wants the highest price at or above
// takerPrice (nil means "any price qualifies"); decimal odds are a payout
// multiplier, so a higher offer price is better for a backer. Otherwise the
// taker wants the lowest price at or below takerPrice — a lower back price
// is better for a layer, since it minimises the layer's liability.
func (ob *OrderBook) bestLevel(tree *levelsByPrice, takerPrice *models.Price, takerIsBacking bool) *PriceLevelQueue {
	if takerIsBacking {
		level, ok := tree.Max()
		if !ok {
			return nil
		}
		if takerPrice != nil && level.Price < *takerPrice {
			return nil
		}
		return level
	}
	level, ok := tree.Min()
	if !ok {
		return nil
	}
	if takerPrice != nil && level.Price > *takerPrice {
		return nil
	}
	return level
}

// popBestExecutable removes and returns the oldest order at the best
// executable level on tree, pruning the level if it becomes empty.
func (ob *OrderBook) popBestExecutable(tree *levelsByPrice, takerPrice *models.Price, takerIsBacking bool) *models.Order {
	level := ob.bestLevel(tree, takerPrice, takerIsBacking)
	if level == nil {
		return nil
	}
	o := level.Pop()
	ob.removeIfEmpty(tree, level)
	if !o.IsVirtual {
		ob.metrics.RestingOrders.WithLabelValues(strconv.Itoa(o.OutcomeIndex), sideLabel(o.ForOutcome)).Dec()
	}
	return o
}

// clearVirtualOrders strips every virtual order from the entire book,
// pruning any level left empty. Invoked on entry, once per loop iteration,
// and on exit of a top-level (non-virtual) MatchOrPut call, preserving the
// invariant that no virtual order rests between top-level calls.
func (ob *OrderBook) clearVirtualOrders() {
	for _, by := range [2]map[int]*levelsByPrice{ob.bidsByOutcome, ob.offersByOutcome} {
		for _, tree := range by {
			var emptied []*PriceLevelQueue
			tree.Scan(func(level *PriceLevelQueue) bool {
				level.ClearVirtualOrders()
				if level.Empty() {
					emptied = append(emptied, level)
				}
				return true
			})
			for _, level := range emptied {
				tree.Delete(level)
			}
		}
	}
}

func (ob *OrderBook) recordMatch(m *models.Match) {
	ob.metrics.MatchesTotal.WithLabelValues(
		strconv.FormatBool(m.MakingOrderIsVirtual),
		strconv.FormatBool(m.TakingOrderIsVirtual),
	).Inc()
	ob.logger.Debug().
		Str("making_order_id", m.MakingOrderID.String()).
		Str("taking_order_id", m.TakingOrderID.String()).
		Str("price", m.MatchedPrice.String()).
		Int64("stake", m.MatchedBackerStake).
		Bool("making_virtual", m.MakingOrderIsVirtual).
		Bool("taking_virtual", m.TakingOrderIsVirtual).
		Msg("order matched")
}

func (ob *OrderBook) recordSynthesisAbort(reason string) {
	ob.metrics.SynthesisAbortedTotal.WithLabelValues(reason).Inc()
	ob.logger.Debug().Str("reason", reason).Msg("virtual order synthesis aborted")
}
