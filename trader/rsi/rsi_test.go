package rsi

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petercerno/trader-backtest-sub000/account"
	"github.com/petercerno/trader-backtest-sub000/kline"
	"github.com/petercerno/trader-backtest-sub000/trader"
)

func feed(tr trader.Trader, closes []float64, base, quote decimal.Decimal) []account.Order {
	var orders []account.Order
	for _, c := range closes {
		orders = tr.Update(&kline.Candle{Close: decimal.NewFromFloat(c)}, nil, base, quote)
	}
	return orders
}

func TestWarmUp(t *testing.T) {
	t.Parallel()
	e := &Emitter{Period: 3, Low: 30, High: 70}
	tr := e.NewTrader()
	orders := feed(tr, []float64{100, 101, 102}, decimal.Zero, decimal.NewFromInt(1000))
	assert.Empty(t, orders)
	assert.Equal(t, "warming up", tr.InternalState())
}

func TestOversoldBuys(t *testing.T) {
	t.Parallel()
	e := &Emitter{Period: 3, Low: 30, High: 70}
	tr := e.NewTrader()
	// a pure decline drives the indicator to zero
	orders := feed(tr, []float64{100, 95, 90, 85, 80}, decimal.Zero, decimal.NewFromInt(1000))
	require.Len(t, orders, 1)
	assert.Equal(t, account.Buy, orders[0].Side)
	assert.False(t, orders[0].Amount.IsBase())
	assert.True(t, orders[0].Amount.Value().Equal(decimal.NewFromInt(1000)))
}

func TestOverboughtSells(t *testing.T) {
	t.Parallel()
	e := &Emitter{Period: 3, Low: 30, High: 70}
	tr := e.NewTrader()
	// a pure rally drives the indicator to one hundred
	orders := feed(tr, []float64{100, 105, 110, 115, 120}, decimal.NewFromInt(10), decimal.Zero)
	require.Len(t, orders, 1)
	assert.Equal(t, account.Sell, orders[0].Side)
	assert.True(t, orders[0].Amount.IsBase())
}

func TestNoBalanceNoOrder(t *testing.T) {
	t.Parallel()
	e := &Emitter{Period: 3, Low: 30, High: 70}
	tr := e.NewTrader()
	// oversold reading with nothing to buy with
	orders := feed(tr, []float64{100, 95, 90, 85, 80}, decimal.NewFromInt(10), decimal.Zero)
	assert.Empty(t, orders)
}
