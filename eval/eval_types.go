package eval

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoCandles is returned when a simulation pass receives an empty
	// OHLC range
	ErrNoCandles = errors.New("no candles to evaluate")
	// ErrInvalidWindow is returned when a window breaks the positive
	// start-value/start-price/end-price invariant of well-formed history
	ErrInvalidWindow = errors.New("evaluation window violates input invariant")
	// ErrInvalidEvalConfig is returned on malformed evaluation settings
	ErrInvalidEvalConfig = errors.New("invalid evaluation config")
)

// Config bounds an evaluation
type Config struct {
	// StartTime and EndTime bound the full evaluated range
	StartTime time.Time `json:"start-time"`
	EndTime   time.Time `json:"end-time"`
	// EvaluationPeriodMonths is the length of each rolling window; windows
	// advance one month at a time. Zero evaluates a single window over the
	// whole range.
	EvaluationPeriodMonths int `json:"evaluation-period-months"`
	// FastEval skips the volatility accumulators
	FastEval bool `json:"fast-eval"`
}

// Validate checks the evaluation settings
func (c *Config) Validate() error {
	if !c.EndTime.After(c.StartTime) {
		return ErrInvalidEvalConfig
	}
	if c.EvaluationPeriodMonths < 0 {
		return ErrInvalidEvalConfig
	}
	return nil
}

// ExecutionResult is the immutable outcome of one simulation pass over one
// window
type ExecutionResult struct {
	StartBaseBalance  decimal.Decimal
	StartQuoteBalance decimal.Decimal
	EndBaseBalance    decimal.Decimal
	EndQuoteBalance   decimal.Decimal
	StartPrice        decimal.Decimal
	EndPrice          decimal.Decimal
	// StartValue and EndValue are the derived portfolio values
	// quote + price*base at the window boundaries
	StartValue decimal.Decimal
	EndValue   decimal.Decimal

	TotalExecutedOrders int
	TotalFee            decimal.Decimal

	// Annualised volatilities of the trader portfolio and of a pure
	// buy-and-hold baseline, zero in fast-eval mode
	TraderVolatility   float64
	BaselineVolatility float64
}

// Period is one evaluated window with its gains relative to buy-and-hold
type Period struct {
	StartTime         time.Time
	EndTime           time.Time
	Result            ExecutionResult
	TraderFinalGain   float64
	BaselineFinalGain float64
}

// Result aggregates all evaluated windows of one trader configuration
type Result struct {
	// TaskID identifies the batch task that produced the result; zero for
	// standalone evaluations
	TaskID     uuid.UUID
	TraderName string
	Periods    []Period
	// Score is the geometric mean of per-window trader/baseline gain ratios
	Score float64
	// Arithmetic means across windows
	AvgTraderGain          float64
	AvgBaselineGain        float64
	AvgTotalExecutedOrders float64
	AvgTotalFee            float64
}
