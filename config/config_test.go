package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigJSON = `{
	"account": {
		"start-base-balance": "10",
		"start-quote-balance": "0",
		"base-unit": "0.1",
		"quote-unit": "1",
		"market-liquidity": "0.5",
		"max-volume-ratio": "0.1",
		"market-order-fee": {"relative-fee": "0.1", "fixed-fee": "1", "minimum-fee": "1.5"},
		"stop-order-fee": {"relative-fee": "0.1", "fixed-fee": "1", "minimum-fee": "1.5"},
		"limit-order-fee": {"relative-fee": "0.1", "fixed-fee": "1", "minimum-fee": "1.5"}
	},
	"evaluation": {
		"start-time": "2017-01-01T00:00:00Z",
		"end-time": "2017-07-01T00:00:00Z",
		"evaluation-period-months": 3,
		"fast-eval": true
	},
	"data": {
		"price-history-path": "prices.csv.gz",
		"sampling-rate-sec": 300,
		"max-price-deviation-per-min": 0.05,
		"top-gaps": 5
	},
	"traders": [
		{"type": "stoplimit", "sell-prices": [200, 250], "buy-prices": [50]},
		{"type": "rebalance", "alphas": [0.5], "epsilons": [0.05, 0.1]},
		{"type": "rsi", "periods": [14], "lows": [30], "highs": [70]}
	]
}`

func writeTestConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()
	c, err := Load(writeTestConfig(t, testConfigJSON))
	require.NoError(t, err)

	assert.True(t, c.Account.StartBaseBalance.IsPositive())
	assert.Equal(t, 3, c.Evaluation.EvaluationPeriodMonths)
	assert.Equal(t, int64(300), c.Data.SamplingRateSec)

	emitters, err := c.AllEmitters()
	require.NoError(t, err)
	// 2*1 stoplimit + 1*2 rebalance + 1*1*1 rsi
	require.Len(t, emitters, 5)
	assert.Contains(t, emitters[0].Name(), "stoplimit")
	assert.Contains(t, emitters[2].Name(), "rebalance")
	assert.Contains(t, emitters[4].Name(), "rsi")
}

func TestUnknownTrader(t *testing.T) {
	t.Parallel()
	tc := TraderConfig{Type: "martingale"}
	_, err := tc.Emitters()
	assert.ErrorIs(t, err, ErrUnknownTrader)
}

func TestValidateDataConfig(t *testing.T) {
	t.Parallel()
	d := DataConfig{}
	assert.ErrorIs(t, d.validate(), ErrInvalidDataConfig, "neither source set")

	d = DataConfig{PriceHistoryPath: "p.csv", CandleDBPath: "c.db", SamplingRateSec: 60}
	assert.ErrorIs(t, d.validate(), ErrInvalidDataConfig, "both sources set")

	d = DataConfig{PriceHistoryPath: "p.csv"}
	assert.ErrorIs(t, d.validate(), ErrInvalidDataConfig, "missing sampling rate")

	d = DataConfig{CandleDBPath: "c.db"}
	assert.NoError(t, d.validate(), "candle store needs no sampling rate")
}

func TestEmptyTraderGrid(t *testing.T) {
	t.Parallel()
	tc := TraderConfig{Type: TraderStopLimit, SellPrices: []float64{200}}
	_, err := tc.Emitters()
	assert.ErrorIs(t, err, ErrEmptyTraderGrid)
}
