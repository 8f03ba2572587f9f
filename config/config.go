// Package config loads and validates the JSON backtest configuration and
// expands trader blocks into concrete emitter grids.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/petercerno/trader-backtest-sub000/trader"
	"github.com/petercerno/trader-backtest-sub000/trader/rebalance"
	"github.com/petercerno/trader-backtest-sub000/trader/rsi"
	"github.com/petercerno/trader-backtest-sub000/trader/stoplimit"
)

// Load reads and validates the configuration at path
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err = json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the whole configuration
func (c *Config) Validate() error {
	if err := c.Account.Validate(); err != nil {
		return err
	}
	if err := c.Evaluation.Validate(); err != nil {
		return err
	}
	if err := c.Data.validate(); err != nil {
		return err
	}
	if len(c.Traders) == 0 {
		return ErrNoTraders
	}
	for i := range c.Traders {
		if _, err := c.Traders[i].Emitters(); err != nil {
			return fmt.Errorf("trader block %d: %w", i, err)
		}
	}
	return nil
}

func (d *DataConfig) validate() error {
	if (d.PriceHistoryPath == "") == (d.CandleDBPath == "") {
		return fmt.Errorf("%w: exactly one of price-history-path and candle-db-path must be set", ErrInvalidDataConfig)
	}
	if d.PriceHistoryPath != "" && d.SamplingRateSec <= 0 {
		return fmt.Errorf("%w: sampling-rate-sec must be positive for raw price history", ErrInvalidDataConfig)
	}
	if d.MaxPriceDeviationPerMin < 0 {
		return fmt.Errorf("%w: max-price-deviation-per-min must not be negative", ErrInvalidDataConfig)
	}
	return nil
}

// Emitters expands a trader block into the cartesian product of its
// parameter lists
func (t *TraderConfig) Emitters() ([]trader.Emitter, error) {
	var emitters []trader.Emitter
	switch t.Type {
	case TraderStopLimit:
		for _, sell := range t.SellPrices {
			for _, buy := range t.BuyPrices {
				emitters = append(emitters, &stoplimit.Emitter{
					SellPrice: decimal.NewFromFloat(sell),
					BuyPrice:  decimal.NewFromFloat(buy),
				})
			}
		}
	case TraderRebalance:
		for _, alpha := range t.Alphas {
			for _, epsilon := range t.Epsilons {
				emitters = append(emitters, &rebalance.Emitter{
					Alpha:   decimal.NewFromFloat(alpha),
					Epsilon: decimal.NewFromFloat(epsilon),
				})
			}
		}
	case TraderRSI:
		for _, period := range t.Periods {
			for _, low := range t.Lows {
				for _, high := range t.Highs {
					emitters = append(emitters, &rsi.Emitter{
						Period: period,
						Low:    low,
						High:   high,
					})
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrader, t.Type)
	}
	if len(emitters) == 0 {
		return nil, ErrEmptyTraderGrid
	}
	return emitters, nil
}

// AllEmitters expands every trader block in configuration order
func (c *Config) AllEmitters() ([]trader.Emitter, error) {
	var all []trader.Emitter
	for i := range c.Traders {
		emitters, err := c.Traders[i].Emitters()
		if err != nil {
			return nil, fmt.Errorf("trader block %d: %w", i, err)
		}
		all = append(all, emitters...)
	}
	return all, nil
}
