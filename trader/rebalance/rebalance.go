// Package rebalance implements a keep-ratio policy: it holds a target
// fraction of portfolio value in the base currency and emits market orders
// whenever the actual fraction drifts outside an epsilon band.
package rebalance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/petercerno/trader-backtest-sub000/account"
	"github.com/petercerno/trader-backtest-sub000/kline"
	"github.com/petercerno/trader-backtest-sub000/trader"
)

// Name is the trader name
const Name = "rebalance"

// Trader is an implementation of the trader.Trader interface
type Trader struct {
	alpha   decimal.Decimal
	epsilon decimal.Decimal
	state   string
}

// Emitter produces fresh rebalancing traders. Alpha in [0, 1] is the target
// base-value fraction, Epsilon > 0 the drift tolerated before trading.
type Emitter struct {
	Alpha   decimal.Decimal
	Epsilon decimal.Decimal
}

// Name returns the parameterised trader name
func (e *Emitter) Name() string {
	return fmt.Sprintf("%s[alpha=%v epsilon=%v]", Name, e.Alpha, e.Epsilon)
}

// NewTrader returns a fresh trader instance
func (e *Emitter) NewTrader() trader.Trader {
	return &Trader{alpha: e.Alpha, epsilon: e.Epsilon}
}

// Update compares the base-value fraction at the tick close against the
// target band and emits one corrective market order when it drifts out
func (t *Trader) Update(tick *kline.Candle, _ []float64, baseBalance, quoteBalance decimal.Decimal) []account.Order {
	price := tick.Close
	if !price.IsPositive() {
		return nil
	}
	baseValue := baseBalance.Mul(price)
	value := quoteBalance.Add(baseValue)
	if !value.IsPositive() {
		t.state = "no balance"
		return nil
	}
	ratio := baseValue.Div(value)
	t.state = fmt.Sprintf("base ratio %v, target %v", ratio.Round(4), t.alpha)
	diff := ratio.Sub(t.alpha)
	if diff.Abs().LessThanOrEqual(t.epsilon) {
		return nil
	}
	// corrective amount in base currency that moves the ratio back to alpha
	amount := diff.Abs().Mul(value).Div(price)
	if diff.IsPositive() {
		return []account.Order{{
			Type:   account.MarketOrder,
			Side:   account.Sell,
			Amount: account.BaseAmount(amount),
		}}
	}
	return []account.Order{{
		Type:   account.MarketOrder,
		Side:   account.Buy,
		Amount: account.BaseAmount(amount),
	}}
}

// InternalState returns a diagnostic snapshot
func (t *Trader) InternalState() string {
	return t.state
}
