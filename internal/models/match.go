package models

import "github.com/google/uuid"

// Match is an immutable record of a single fill between a resting making
// order and an arriving taking order, created by NewMatch and never mutated
// afterward. Price improvement always accrues to the taker: MatchedPrice is
// the making order's price, not the taker's.
type Match struct {
	ID                    uuid.UUID
	MakingOrderID         uuid.UUID
	TakingOrderID         uuid.UUID
	MatchedPrice          Price
	MatchedBackerStake    int64
	MakingUnmatchedBefore int64
	TakingUnmatchedBefore int64
	MakingUnmatchedAfter  int64
	TakingUnmatchedAfter  int64
	MakingOrderIsVirtual  bool
	TakingOrderIsVirtual  bool
}

// NewMatch constructs a Match from the pre-subtraction state of the two
// orders. Callers must apply the stake subtraction to both orders themselves
// after constructing the record; NewMatch never mutates its inputs.
func NewMatch(taking, making *Order, matchedBackerStake int64) *Match {
	return &Match{
		ID:                    uuid.New(),
		MakingOrderID:         making.ID,
		TakingOrderID:         taking.ID,
		MatchedPrice:          making.Price,
		MatchedBackerStake:    matchedBackerStake,
		MakingUnmatchedBefore: making.UnmatchedBackerStake,
		TakingUnmatchedBefore: taking.UnmatchedBackerStake,
		MakingUnmatchedAfter:  making.UnmatchedBackerStake - matchedBackerStake,
		TakingUnmatchedAfter:  taking.UnmatchedBackerStake - matchedBackerStake,
		MakingOrderIsVirtual:  making.IsVirtual,
		TakingOrderIsVirtual:  taking.IsVirtual,
	}
}
