package config

import (
	"errors"

	"github.com/petercerno/trader-backtest-sub000/account"
	"github.com/petercerno/trader-backtest-sub000/eval"
)

var (
	// ErrUnknownTrader is returned when a trader block names an unknown type
	ErrUnknownTrader = errors.New("unknown trader type")
	// ErrEmptyTraderGrid is returned when a trader block expands to nothing
	ErrEmptyTraderGrid = errors.New("trader block expands to no emitters")
	// ErrInvalidDataConfig is returned on malformed data settings
	ErrInvalidDataConfig = errors.New("invalid data config")
	// ErrNoTraders is returned when no trader blocks are configured
	ErrNoTraders = errors.New("no traders configured")
)

// Supported trader block types
const (
	TraderStopLimit = "stoplimit"
	TraderRebalance = "rebalance"
	TraderRSI       = "rsi"
)

// DataConfig locates the input data and sets the cleaning parameters
type DataConfig struct {
	// PriceHistoryPath is a CSV (optionally .gz) of raw price ticks;
	// CandleDBPath alternatively names a sqlite candle store. Exactly one
	// must be set.
	PriceHistoryPath string `json:"price-history-path,omitempty"`
	CandleDBPath     string `json:"candle-db-path,omitempty"`
	// SideInputPath optionally names a CSV of side signals
	SideInputPath string `json:"side-input-path,omitempty"`
	// SamplingRateSec is the candle interval used when resampling raw ticks
	SamplingRateSec int64 `json:"sampling-rate-sec,omitempty"`
	// MaxPriceDeviationPerMin bounds the tolerated per-minute price jump
	// during outlier removal; zero disables cleaning
	MaxPriceDeviationPerMin float64 `json:"max-price-deviation-per-min,omitempty"`
	// TopGaps is how many longest gaps the gaps report prints
	TopGaps int `json:"top-gaps,omitempty"`
}

// TraderConfig is one trader block. Every parameter is a list; the block
// expands to the cartesian product of its lists, one emitter per element.
type TraderConfig struct {
	Type string `json:"type"`

	// stoplimit
	SellPrices []float64 `json:"sell-prices,omitempty"`
	BuyPrices  []float64 `json:"buy-prices,omitempty"`

	// rebalance
	Alphas   []float64 `json:"alphas,omitempty"`
	Epsilons []float64 `json:"epsilons,omitempty"`

	// rsi
	Periods []int     `json:"periods,omitempty"`
	Lows    []float64 `json:"lows,omitempty"`
	Highs   []float64 `json:"highs,omitempty"`
}

// Config is the full backtest configuration
type Config struct {
	Account    account.AccountConfig `json:"account"`
	Evaluation eval.Config           `json:"evaluation"`
	Data       DataConfig            `json:"data"`
	Traders    []TraderConfig        `json:"traders"`
}
