package matchingengine

import (
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/btree"

	"github.com/fairmatch/matching-engine/internal/models"
)

// levelsByPrice orders PriceLevelQueues ascending by price. Emptied levels
// are pruned on removal (see OrderBook.removeIfEmpty), so Min/Max always
// land on resting liquidity rather than scanning over dead levels.
type levelsByPrice = btree.BTreeG[*PriceLevelQueue]

func newLevels() *levelsByPrice {
	return btree.NewBTreeG(func(a, b *PriceLevelQueue) bool {
		return a.Price < b.Price
	})
}

// OrderBook holds resting liquidity across a fixed number of mutually
// exclusive, exhaustive outcomes and runs the price-time priority matching
// algorithm, optionally synthesising virtual liquidity across outcomes (see
// synthesis.go). Matching is single-threaded and synchronous: a single
// OrderBook is not safe for concurrent use beyond what its internal mutex
// serialises, but that mutex is enough to make MatchOrPut atomic with
// respect to observers.
type OrderBook struct {
	outcomes int

	bidsByOutcome   map[int]*levelsByPrice
	offersByOutcome map[int]*levelsByPrice

	nextSeq uint64
	now     func() time.Time

	logger  zerolog.Logger
	metrics *Metrics

	mu sync.Mutex
}

// NewOrderBook constructs an empty book for the given number of mutually
// exclusive, exhaustive outcomes. outcomes must be at least 2.
func NewOrderBook(outcomes int, opts ...Option) *OrderBook {
	if outcomes < 2 {
		panic(models.ErrTooFewOutcomes)
	}
	ob := &OrderBook{
		outcomes:        outcomes,
		bidsByOutcome:   make(map[int]*levelsByPrice, outcomes),
		offersByOutcome: make(map[int]*levelsByPrice, outcomes),
		now:             time.Now,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(ob)
	}
	if ob.metrics == nil {
		ob.metrics = NewNopMetrics()
	}
	return ob
}

// Option configures an OrderBook at construction time.
type Option func(*OrderBook)

// WithLogger attaches a structured logger; omit for a zerolog.Nop() default,
// which is what tests use.
func WithLogger(logger zerolog.Logger) Option {
	return func(ob *OrderBook) { ob.logger = logger.With().Str("component", "matching_engine").Logger() }
}

// WithMetrics attaches a Metrics collector; omit for zerolog.Nop()-style
// no-op metrics in tests.
func WithMetrics(m *Metrics) Option {
	return func(ob *OrderBook) { ob.metrics = m }
}

// withClock overrides the wall clock used to timestamp orders; exported only
// to _test.go files in this package for deterministic scenarios.
func withClock(now func() time.Time) Option {
	return func(ob *OrderBook) { ob.now = now }
}

// Outcomes returns the fixed outcome count the book was constructed with.
func (ob *OrderBook) Outcomes() int { return ob.outcomes }

// Bids returns the price-ordered levels of back orders resting on outcome i,
// auto-creating an empty (and immediately observable-as-empty) set of levels
// on first access. Read-only for callers; mutation must go through
// PlaceOrder/MatchOrPut.
func (ob *OrderBook) Bids(i int) *levelsByPrice {
	return ob.levels(ob.bidsByOutcome, i)
}

// Offers returns the price-ordered levels of lay orders resting on outcome i.
func (ob *OrderBook) Offers(i int) *levelsByPrice {
	return ob.levels(ob.offersByOutcome, i)
}

func (ob *OrderBook) levels(by map[int]*levelsByPrice, outcome int) *levelsByPrice {
	lv, ok := by[outcome]
	if !ok {
		lv = newLevels()
		by[outcome] = lv
	}
	return lv
}

// sideFor returns the real-order side map for forOutcome: bids if true
// (back orders), offers if false (lay orders).
func (ob *OrderBook) sideFor(forOutcome bool) map[int]*levelsByPrice {
	if forOutcome {
		return ob.bidsByOutcome
	}
	return ob.offersByOutcome
}

// Orders dispatches to Bids or Offers depending on forOutcome.
func (ob *OrderBook) Orders(outcome int, forOutcome bool) *levelsByPrice {
	return ob.levels(ob.sideFor(forOutcome), outcome)
}

// put routes o to its (outcome, side, price) level and enqueues it,
// auto-creating the level if this is the first order resting at that price.
func (ob *OrderBook) put(o *models.Order) {
	tree := ob.Orders(o.OutcomeIndex, o.ForOutcome)
	level, ok := tree.Get(&PriceLevelQueue{Price: o.Price})
	if !ok {
		level = newPriceLevelQueue(o.Price)
		tree.Set(level)
	}
	level.Put(o)
	if !o.IsVirtual {
		ob.metrics.RestingOrders.WithLabelValues(strconv.Itoa(o.OutcomeIndex), sideLabel(o.ForOutcome)).Inc()
	}
}

// removeIfEmpty prunes a level out of its tree once its last order is gone,
// so Min/Max scans never cross dead levels.
func (ob *OrderBook) removeIfEmpty(tree *levelsByPrice, level *PriceLevelQueue) {
	if level.Empty() {
		tree.Delete(level)
	}
}

func sideLabel(forOutcome bool) string {
	if forOutcome {
		return "back"
	}
	return "lay"
}

func (ob *OrderBook) nextSequence() uint64 {
	ob.nextSeq++
	return ob.nextSeq
}

// PlaceOrder validates req, constructs an Order stamped with the book's own
// clock and sequence counter, and runs it through MatchOrPut — the
// convenience entry point a caller reaches for instead of wiring
// models.NewOrder and MatchOrPut together itself.
func (ob *OrderBook) PlaceOrder(req models.NewOrderRequest, crossMatching bool) (*models.Order, []*models.Match, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	req.Outcomes = ob.outcomes
	order, err := models.NewOrder(req, ob.now(), ob.nextSequence())
	if err != nil {
		return nil, nil, err
	}

	matches := ob.matchOrPutLocked(order, crossMatching)
	return order, matches, nil
}
