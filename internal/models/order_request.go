package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// NewOrderRequest is the validated, decimal-speaking boundary DTO a caller
// builds before an Order is constructed. Structural preconditions — a
// non-positive stake or price, an out-of-range outcome index — are rejected
// here with a typed error, rather than deep inside the matching loop.
type NewOrderRequest struct {
	BackerStake  int64           `validate:"required,gt=0"`
	Price        decimal.Decimal `validate:"required"`
	OutcomeIndex int             `validate:"gte=0"`
	Outcomes     int             `validate:"gte=2"`
	ForOutcome   bool
}

// NewOrder validates req and constructs a resting, non-virtual Order with a
// fresh identity and the current time as its placement time. seq must be a
// monotonically increasing counter supplied by the owning OrderBook so that
// orders placed within the same clock tick still break ties deterministically.
func NewOrder(req NewOrderRequest, now time.Time, seq uint64) (*Order, error) {
	if req.Outcomes < 2 {
		return nil, ErrTooFewOutcomes
	}
	if req.OutcomeIndex < 0 || req.OutcomeIndex >= req.Outcomes {
		return nil, ErrInvalidOutcomeIndex
	}
	if req.BackerStake <= 0 {
		return nil, ErrNonPositiveStake
	}
	if !req.Price.IsPositive() {
		return nil, ErrNonPositivePrice
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	price := NewPriceFromDecimal(req.Price)
	if price <= 0 {
		return nil, ErrNonPositivePrice
	}

	return &Order{
		ID:                   uuid.New(),
		PlacedTime:           now,
		Seq:                  seq,
		BackerStake:          req.BackerStake,
		UnmatchedBackerStake: req.BackerStake,
		Price:                price,
		OutcomeIndex:         req.OutcomeIndex,
		ForOutcome:           req.ForOutcome,
		IsVirtual:            false,
	}, nil
}
