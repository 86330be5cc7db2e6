package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Order is an immutable identity with a mutable residual stake, resting on
// one (outcome, side, price) level of an OrderBook until fully matched.
//
// ForOutcome distinguishes a back (true, betting the outcome occurs) from a
// lay (false, betting it does not). BackerStake and UnmatchedBackerStake are
// always denominated in the backer's cents, regardless of which side of the
// order is the taker in a given match.
type Order struct {
	ID                   uuid.UUID
	PlacedTime           time.Time
	Seq                  uint64 // tie-break for orders sharing a PlacedTime
	BackerStake          int64
	UnmatchedBackerStake int64
	Price                Price
	OutcomeIndex         int
	ForOutcome           bool
	IsVirtual            bool
}

// CompletelyMatched reports whether the order has no residual stake left.
func (o *Order) CompletelyMatched() bool {
	return o.UnmatchedBackerStake == 0
}

// PartiallyMatched reports whether any of the order's stake has been filled.
func (o *Order) PartiallyMatched() bool {
	return o.UnmatchedBackerStake != o.BackerStake
}

func (o *Order) String() string {
	side := "lay"
	if o.ForOutcome {
		side = "back"
	}
	return side + " " + o.Price.String() + " outcome=" + strconv.Itoa(o.OutcomeIndex)
}
