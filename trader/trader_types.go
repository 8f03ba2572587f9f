// Package trader defines the pluggable decision-policy contract consumed by
// the evaluation engine, together with the optional exchange-state observer.
package trader

import (
	"github.com/shopspring/decimal"

	"github.com/petercerno/trader-backtest-sub000/account"
	"github.com/petercerno/trader-backtest-sub000/kline"
)

// Trader is one decision policy instance. Update is called once per
// decision-bearing tick (gap ticks are skipped) and returns the orders to be
// evaluated for execution on the following tick; it may assume no other
// orders are active at call time. InternalState exposes a human-readable
// snapshot for diagnostics.
type Trader interface {
	Update(tick *kline.Candle, sideSignals []float64, baseBalance, quoteBalance decimal.Decimal) []account.Order
	InternalState() string
}

// Emitter produces structurally identical fresh Trader instances, one per
// evaluation window or batch task
type Emitter interface {
	Name() string
	NewTrader() Trader
}

// Logger observes exchange state transitions during a simulation pass. A nil
// Logger is a no-op. Implementations need not be safe for use across tasks;
// each evaluation owns its own.
type Logger interface {
	LogExchangeState(tick *kline.Candle, a *account.Account)
	LogExchangeOrder(tick *kline.Candle, a *account.Account, executed *account.Order)
	LogTraderState(state string)
}
