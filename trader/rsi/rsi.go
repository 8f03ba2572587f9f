// Package rsi implements a relative-strength-index policy: it buys the full
// quote balance when the indicator signals oversold and sells the full base
// position when it signals overbought.
package rsi

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"

	"github.com/petercerno/trader-backtest-sub000/account"
	"github.com/petercerno/trader-backtest-sub000/kline"
	"github.com/petercerno/trader-backtest-sub000/trader"
)

// Name is the trader name
const Name = "rsi"

// Trader is an implementation of the trader.Trader interface
type Trader struct {
	period int
	low    float64
	high   float64
	closes []float64
	state  string
}

// Emitter produces fresh RSI traders. Period is the indicator window, Low
// and High the oversold/overbought thresholds.
type Emitter struct {
	Period int
	Low    float64
	High   float64
}

// Name returns the parameterised trader name
func (e *Emitter) Name() string {
	return fmt.Sprintf("%s[%d %v/%v]", Name, e.Period, e.Low, e.High)
}

// NewTrader returns a fresh trader instance
func (e *Emitter) NewTrader() trader.Trader {
	return &Trader{period: e.Period, low: e.Low, high: e.High}
}

// Update appends the tick close to the indicator window and emits a single
// market order on an oversold or overbought reading
func (t *Trader) Update(tick *kline.Candle, _ []float64, baseBalance, quoteBalance decimal.Decimal) []account.Order {
	t.closes = append(t.closes, tick.Close.InexactFloat64())
	if len(t.closes) <= t.period {
		t.state = "warming up"
		return nil
	}
	rsi := indicators.RSI(t.closes, t.period)
	latest := rsi[len(rsi)-1]
	t.state = fmt.Sprintf("RSI %.2f", latest)
	switch {
	case latest <= t.low && quoteBalance.IsPositive():
		return []account.Order{{
			Type:   account.MarketOrder,
			Side:   account.Buy,
			Amount: account.QuoteAmount(quoteBalance),
		}}
	case latest >= t.high && baseBalance.IsPositive():
		return []account.Order{{
			Type:   account.MarketOrder,
			Side:   account.Sell,
			Amount: account.BaseAmount(baseBalance),
		}}
	}
	return nil
}

// InternalState returns a diagnostic snapshot
func (t *Trader) InternalState() string {
	return t.state
}
