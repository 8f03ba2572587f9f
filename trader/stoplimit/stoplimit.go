// Package stoplimit implements a two-state limit-order policy: while long it
// offers the whole base position at a fixed sell price, while in cash it bids
// the whole quote balance at a fixed buy price.
package stoplimit

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/petercerno/trader-backtest-sub000/account"
	"github.com/petercerno/trader-backtest-sub000/kline"
	"github.com/petercerno/trader-backtest-sub000/trader"
)

// Name is the trader name
const Name = "stoplimit"

// Trader is an implementation of the trader.Trader interface
type Trader struct {
	sellPrice decimal.Decimal
	buyPrice  decimal.Decimal
	state     string
}

// Emitter produces fresh stoplimit traders with fixed prices
type Emitter struct {
	SellPrice decimal.Decimal
	BuyPrice  decimal.Decimal
}

// Name returns the parameterised trader name
func (e *Emitter) Name() string {
	return fmt.Sprintf("%s[sell@%v buy@%v]", Name, e.SellPrice, e.BuyPrice)
}

// NewTrader returns a fresh trader instance
func (e *Emitter) NewTrader() trader.Trader {
	return &Trader{sellPrice: e.SellPrice, buyPrice: e.BuyPrice}
}

// Update emits one limit order matching the current side of the book
func (t *Trader) Update(_ *kline.Candle, _ []float64, baseBalance, quoteBalance decimal.Decimal) []account.Order {
	if baseBalance.IsPositive() {
		t.state = fmt.Sprintf("long %v base, offering @ %v", baseBalance, t.sellPrice)
		return []account.Order{{
			Type:   account.LimitOrder,
			Side:   account.Sell,
			Amount: account.BaseAmount(baseBalance),
			Price:  t.sellPrice,
		}}
	}
	if quoteBalance.IsPositive() {
		t.state = fmt.Sprintf("in cash %v quote, bidding @ %v", quoteBalance, t.buyPrice)
		return []account.Order{{
			Type:   account.LimitOrder,
			Side:   account.Buy,
			Amount: account.QuoteAmount(quoteBalance),
			Price:  t.buyPrice,
		}}
	}
	t.state = "no balance"
	return nil
}

// InternalState returns a diagnostic snapshot
func (t *Trader) InternalState() string {
	return t.state
}
