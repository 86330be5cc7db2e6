package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fairmatch/matching-engine/internal/config"
	"github.com/fairmatch/matching-engine/internal/models"
	"github.com/fairmatch/matching-engine/internal/observability"
	"github.com/fairmatch/matching-engine/pkg/matchingengine"
)

// bookctl builds an OrderBook from configuration, replays the Betfair
// three-way cross-matching example (Newcastle v Chelsea, with the draw, from
// https://docs.developer.betfair.com) through it, and logs every resulting
// match. It is a demonstration harness, not a server: it opens no port and
// exits once the scenario finishes.
func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Initialize logger
	logger := observability.NewLogger(observability.LoggerConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Info().
		Str("service", cfg.Service.Name).
		Str("environment", cfg.Service.Environment).
		Int("outcomes", cfg.Engine.Outcomes).
		Bool("cross_matching", cfg.Engine.CrossMatching).
		Msg("matching engine starting")

	// 3. Initialize metrics
	metrics := matchingengine.NewMetrics()

	// 4. Build the order book
	book := matchingengine.NewOrderBook(
		cfg.Engine.Outcomes,
		matchingengine.WithLogger(logger),
		matchingengine.WithMetrics(metrics),
	)

	// 5. Replay the scenario
	runRecovered(logger, func() {
		replayBetfairExample(book, cfg.Engine.CrossMatching, logger)
	})

	logger.Info().Msg("scenario complete")
}

// runRecovered runs fn with a top-level recover: a panic out of the matching
// engine (PreconditionViolation, InvariantViolation) is a fatal, unrecoverable
// condition, so there is nothing to recover into — but it is still logged
// through zerolog with its own event before the process exits, rather than
// dumping a bare Go stack trace to stderr.
func runRecovered(logger zerolog.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Fatal().Interface("panic", r).Msg("matching engine aborted on an unrecoverable invariant or precondition violation")
		}
	}()
	fn()
}

const (
	newcastleOutcome = 0
	chelseaOutcome   = 1
	theDrawOutcome   = 2
)

// replayBetfairExample seeds the three-way book from Betfair's published
// cross-matching walkthrough, then submits the large lay-the-draw order that
// triggers a cascade of real and virtual matches across all three outcomes.
func replayBetfairExample(book *matchingengine.OrderBook, crossMatching bool, logger zerolog.Logger) {
	place := func(backerStake int64, price float64, outcome int, forOutcome bool) {
		_, matches, err := book.PlaceOrder(models.NewOrderRequest{
			BackerStake:  backerStake,
			Price:        decimal.NewFromFloat(price),
			OutcomeIndex: outcome,
			ForOutcome:   forOutcome,
		}, crossMatching)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to place order")
		}

		for _, m := range matches {
			logger.Info().
				Str("matched_price", m.MatchedPrice.String()).
				Int64("matched_backer_stake", m.MatchedBackerStake).
				Bool("making_virtual", m.MakingOrderIsVirtual).
				Bool("taking_virtual", m.TakingOrderIsVirtual).
				Msg("match")
		}
	}

	// Newcastle book
	place(200, 1000, newcastleOutcome, true)
	place(7500, 15, newcastleOutcome, true)
	place(12000, 4, newcastleOutcome, true)
	place(30000, 2, newcastleOutcome, false)
	place(20000, 1.5, newcastleOutcome, false)
	place(99900, 1.01, newcastleOutcome, false)

	// Chelsea book
	place(200, 1000, chelseaOutcome, true)
	place(1000, 20, chelseaOutcome, true)
	place(15000, 5, chelseaOutcome, true)
	place(15000, 3, chelseaOutcome, false)
	place(25000, 2.4, chelseaOutcome, false)
	place(99900, 1.01, chelseaOutcome, false)

	// The Draw book
	place(200, 1000, theDrawOutcome, true)
	place(5000, 50, theDrawOutcome, true)
	place(10000, 10, theDrawOutcome, true)
	place(15000, 5, theDrawOutcome, false)
	place(25000, 3, theDrawOutcome, false)
	place(99900, 1.01, theDrawOutcome, false)

	// The big lay-the-draw order: matches across all three outcomes via
	// virtual liquidity synthesised from the Newcastle and Chelsea books.
	place(1_000_000, 1000, theDrawOutcome, false)
}
