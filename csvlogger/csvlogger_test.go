package csvlogger

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petercerno/trader-backtest-sub000/account"
	"github.com/petercerno/trader-backtest-sub000/kline"
)

func TestLoggerRows(t *testing.T) {
	t.Parallel()
	cfg := &account.AccountConfig{
		StartBaseBalance: decimal.NewFromInt(10),
		BaseUnit:         decimal.NewFromFloat(0.1),
		QuoteUnit:        decimal.NewFromInt(1),
		MarketLiquidity:  decimal.NewFromInt(1),
	}
	a := account.New(cfg)
	tick := &kline.Candle{
		Time:   time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		Open:   decimal.NewFromInt(100),
		High:   decimal.NewFromInt(150),
		Low:    decimal.NewFromInt(80),
		Close:  decimal.NewFromInt(120),
		Volume: decimal.NewFromInt(1000),
	}
	order := &account.Order{
		Type:   account.LimitOrder,
		Side:   account.Sell,
		Amount: account.BaseAmount(decimal.NewFromInt(10)),
		Price:  decimal.NewFromInt(200),
	}

	var exchangeBuf, traderBuf bytes.Buffer
	l := New(&exchangeBuf, &traderBuf)
	l.LogExchangeState(tick, a)
	l.LogExchangeOrder(tick, a, order)
	l.LogTraderState("in cash")
	require.NoError(t, l.Flush())

	rows, err := csv.NewReader(&exchangeBuf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exchangeHeader, rows[0])
	assert.Equal(t, "1483228800", rows[1][0])
	assert.Equal(t, "10", rows[1][6])
	assert.Equal(t, "", rows[1][9], "state rows carry no order fields")
	assert.Equal(t, "LIMIT", rows[2][9])
	assert.Equal(t, "SELL", rows[2][10])
	assert.Equal(t, "base", rows[2][11])
	assert.Equal(t, "10", rows[2][12])
	assert.Equal(t, "200", rows[2][13])

	traderRows, err := csv.NewReader(&traderBuf).ReadAll()
	require.NoError(t, err)
	require.Len(t, traderRows, 2)
	assert.Equal(t, []string{"1483228800", "in cash"}, traderRows[1])
}

func TestLoggerNilTraderStream(t *testing.T) {
	t.Parallel()
	var exchangeBuf bytes.Buffer
	l := New(&exchangeBuf, nil)
	l.LogTraderState("ignored")
	require.NoError(t, l.Flush())
}
