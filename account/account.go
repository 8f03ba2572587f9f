// Package account simulates a single exchange account executing orders
// against OHLC ticks with unit-quantised balance bookkeeping, configurable
// fees and slippage. Business outcomes are reported as booleans; every
// rejection leaves the account untouched.
package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/petercerno/trader-backtest-sub000/common"
	"github.com/petercerno/trader-backtest-sub000/kline"
)

var one = decimal.NewFromInt(1)

// New returns a fresh account seeded from the config. Starting balances are
// floored to their units so the quantisation invariant holds from the start.
func New(cfg *AccountConfig) *Account {
	return &Account{
		BaseBalance:     common.FloorToUnit(cfg.StartBaseBalance, cfg.BaseUnit),
		QuoteBalance:    common.FloorToUnit(cfg.StartQuoteBalance, cfg.QuoteUnit),
		TotalFee:        decimal.Zero,
		baseUnit:        cfg.BaseUnit,
		quoteUnit:       cfg.QuoteUnit,
		marketLiquidity: cfg.MarketLiquidity,
		maxVolumeRatio:  cfg.MaxVolumeRatio,
	}
}

// GetFee returns the fee charged on a quote-currency amount, never below the
// configured minimum and always ceiled to the quote unit
func (a *Account) GetFee(fc FeeConfig, quoteAmount decimal.Decimal) decimal.Decimal {
	fee := fc.FixedFee.Add(fc.RelativeFee.Mul(quoteAmount))
	if fee.LessThan(fc.MinimumFee) {
		fee = fc.MinimumFee
	}
	return common.CeilToUnit(fee, a.quoteUnit)
}

// GetMarketBuyPrice interpolates between the tick open (full liquidity) and
// its high (no liquidity)
func (a *Account) GetMarketBuyPrice(t *kline.Candle) decimal.Decimal {
	return a.marketLiquidity.Mul(t.Open).Add(one.Sub(a.marketLiquidity).Mul(t.High))
}

// GetMarketSellPrice interpolates between the tick open and its low
func (a *Account) GetMarketSellPrice(t *kline.Candle) decimal.Decimal {
	return a.marketLiquidity.Mul(t.Open).Add(one.Sub(a.marketLiquidity).Mul(t.Low))
}

// GetStopBuyPrice interpolates between the effective trigger price and the
// tick high
func (a *Account) GetStopBuyPrice(t *kline.Candle, stopPrice decimal.Decimal) decimal.Decimal {
	triggered := decimal.Max(stopPrice, t.Open)
	return a.marketLiquidity.Mul(triggered).Add(one.Sub(a.marketLiquidity).Mul(t.High))
}

// GetStopSellPrice interpolates between the effective trigger price and the
// tick low
func (a *Account) GetStopSellPrice(t *kline.Candle, stopPrice decimal.Decimal) decimal.Decimal {
	triggered := decimal.Min(stopPrice, t.Open)
	return a.marketLiquidity.Mul(triggered).Add(one.Sub(a.marketLiquidity).Mul(t.Low))
}

// GetMaxBaseAmount returns the largest base amount a limit order may fill on
// the tick. capped is false when MaxVolumeRatio is zero, meaning no cap.
func (a *Account) GetMaxBaseAmount(t *kline.Candle) (maxAmount decimal.Decimal, capped bool) {
	if !a.maxVolumeRatio.IsPositive() {
		return decimal.Zero, false
	}
	return common.FloorToUnit(a.maxVolumeRatio.Mul(t.Volume), a.baseUnit), true
}

// BuyBase buys baseAmount of the base currency at price. The amount is
// rounded to the base unit and rejected when below one unit; the quote cost
// is ceiled to the quote unit so the exchange never undercharges.
func (a *Account) BuyBase(fc FeeConfig, baseAmount, price decimal.Decimal) bool {
	amount := common.RoundToUnit(baseAmount, a.baseUnit)
	if !amount.IsPositive() || amount.LessThan(a.baseUnit) {
		return false
	}
	quoteCost := common.CeilToUnit(amount.Mul(price), a.quoteUnit)
	fee := a.GetFee(fc, quoteCost)
	if quoteCost.Add(fee).GreaterThan(a.QuoteBalance) {
		return false
	}
	a.BaseBalance = a.BaseBalance.Add(amount)
	a.QuoteBalance = a.QuoteBalance.Sub(quoteCost).Sub(fee)
	a.TotalFee = a.TotalFee.Add(fee)
	return true
}

// SellBase sells baseAmount of the base currency at price. Proceeds are
// floored to the quote unit so the exchange never pays out more than the
// true sale value after rounding.
func (a *Account) SellBase(fc FeeConfig, baseAmount, price decimal.Decimal) bool {
	amount := common.RoundToUnit(baseAmount, a.baseUnit)
	if !amount.IsPositive() || amount.LessThan(a.baseUnit) {
		return false
	}
	if amount.GreaterThan(a.BaseBalance) {
		return false
	}
	quoteProceeds := common.FloorToUnit(amount.Mul(price), a.quoteUnit)
	fee := a.GetFee(fc, quoteProceeds)
	newQuoteBalance := a.QuoteBalance.Add(quoteProceeds).Sub(fee)
	if newQuoteBalance.IsNegative() {
		return false
	}
	a.BaseBalance = a.BaseBalance.Sub(amount)
	a.QuoteBalance = newQuoteBalance
	a.TotalFee = a.TotalFee.Add(fee)
	return true
}

// BuyAtQuote spends at most quoteAmount (fee included) buying the base
// currency at price. The fee is applied twice, once to derive the base
// amount from the net budget and once inside BuyBase, which guarantees the
// total spend never exceeds the requested budget.
func (a *Account) BuyAtQuote(fc FeeConfig, quoteAmount, price decimal.Decimal) bool {
	return a.buyAtQuote(fc, quoteAmount, price, decimal.Zero, false)
}

func (a *Account) buyAtQuote(fc FeeConfig, quoteAmount, price, maxBaseAmount decimal.Decimal, capped bool) bool {
	if !price.IsPositive() {
		return false
	}
	fee := a.GetFee(fc, quoteAmount)
	budget := quoteAmount.Sub(fee)
	if !budget.IsPositive() {
		return false
	}
	baseAmount := common.FloorToUnit(budget.Div(price), a.baseUnit)
	if capped && baseAmount.GreaterThan(maxBaseAmount) {
		baseAmount = maxBaseAmount
	}
	return a.BuyBase(fc, baseAmount, price)
}

// SellAtQuote sells enough of the base currency at price to raise at least
// quoteAmount net of fees, selling slightly more to cover the fee rather
// than undershooting the requested proceeds.
func (a *Account) SellAtQuote(fc FeeConfig, quoteAmount, price decimal.Decimal) bool {
	return a.sellAtQuote(fc, quoteAmount, price, decimal.Zero, false)
}

func (a *Account) sellAtQuote(fc FeeConfig, quoteAmount, price, maxBaseAmount decimal.Decimal, capped bool) bool {
	if !price.IsPositive() {
		return false
	}
	fee := a.GetFee(fc, quoteAmount)
	baseAmount := common.FloorToUnit(quoteAmount.Add(fee).Div(price), a.baseUnit)
	if capped && baseAmount.GreaterThan(maxBaseAmount) {
		baseAmount = maxBaseAmount
	}
	return a.SellBase(fc, baseAmount, price)
}

// MarketBuy executes an immediate buy at the market buy price of the tick
func (a *Account) MarketBuy(fc FeeConfig, t *kline.Candle, baseAmount decimal.Decimal) bool {
	return a.BuyBase(fc, baseAmount, a.GetMarketBuyPrice(t))
}

// MarketBuyAtQuote executes an immediate buy sized by a quote budget
func (a *Account) MarketBuyAtQuote(fc FeeConfig, t *kline.Candle, quoteAmount decimal.Decimal) bool {
	return a.BuyAtQuote(fc, quoteAmount, a.GetMarketBuyPrice(t))
}

// MarketSell executes an immediate sell at the market sell price of the tick
func (a *Account) MarketSell(fc FeeConfig, t *kline.Candle, baseAmount decimal.Decimal) bool {
	return a.SellBase(fc, baseAmount, a.GetMarketSellPrice(t))
}

// MarketSellAtQuote executes an immediate sell sized by a quote target
func (a *Account) MarketSellAtQuote(fc FeeConfig, t *kline.Candle, quoteAmount decimal.Decimal) bool {
	return a.SellAtQuote(fc, quoteAmount, a.GetMarketSellPrice(t))
}

// StopBuy executes only when the tick high reaches the stop price
func (a *Account) StopBuy(fc FeeConfig, t *kline.Candle, baseAmount, stopPrice decimal.Decimal) bool {
	if t.High.LessThan(stopPrice) {
		return false
	}
	return a.BuyBase(fc, baseAmount, a.GetStopBuyPrice(t, stopPrice))
}

// StopBuyAtQuote executes only when the tick high reaches the stop price
func (a *Account) StopBuyAtQuote(fc FeeConfig, t *kline.Candle, quoteAmount, stopPrice decimal.Decimal) bool {
	if t.High.LessThan(stopPrice) {
		return false
	}
	return a.BuyAtQuote(fc, quoteAmount, a.GetStopBuyPrice(t, stopPrice))
}

// StopSell executes only when the tick low reaches the stop price
func (a *Account) StopSell(fc FeeConfig, t *kline.Candle, baseAmount, stopPrice decimal.Decimal) bool {
	if t.Low.GreaterThan(stopPrice) {
		return false
	}
	return a.SellBase(fc, baseAmount, a.GetStopSellPrice(t, stopPrice))
}

// StopSellAtQuote executes only when the tick low reaches the stop price
func (a *Account) StopSellAtQuote(fc FeeConfig, t *kline.Candle, quoteAmount, stopPrice decimal.Decimal) bool {
	if t.Low.GreaterThan(stopPrice) {
		return false
	}
	return a.SellAtQuote(fc, quoteAmount, a.GetStopSellPrice(t, stopPrice))
}

// LimitBuy executes at the limit price when the tick low reaches it; the
// fill size is capped by GetMaxBaseAmount to simulate partial fills
func (a *Account) LimitBuy(fc FeeConfig, t *kline.Candle, baseAmount, limitPrice decimal.Decimal) bool {
	if t.Low.GreaterThan(limitPrice) {
		return false
	}
	if maxAmount, capped := a.GetMaxBaseAmount(t); capped && baseAmount.GreaterThan(maxAmount) {
		baseAmount = maxAmount
	}
	return a.BuyBase(fc, baseAmount, limitPrice)
}

// LimitBuyAtQuote executes at the limit price when the tick low reaches it
func (a *Account) LimitBuyAtQuote(fc FeeConfig, t *kline.Candle, quoteAmount, limitPrice decimal.Decimal) bool {
	if t.Low.GreaterThan(limitPrice) {
		return false
	}
	maxAmount, capped := a.GetMaxBaseAmount(t)
	return a.buyAtQuote(fc, quoteAmount, limitPrice, maxAmount, capped)
}

// LimitSell executes at the limit price when the tick high reaches it; the
// fill size is capped by GetMaxBaseAmount to simulate partial fills
func (a *Account) LimitSell(fc FeeConfig, t *kline.Candle, baseAmount, limitPrice decimal.Decimal) bool {
	if t.High.LessThan(limitPrice) {
		return false
	}
	if maxAmount, capped := a.GetMaxBaseAmount(t); capped && baseAmount.GreaterThan(maxAmount) {
		baseAmount = maxAmount
	}
	return a.SellBase(fc, baseAmount, limitPrice)
}

// LimitSellAtQuote executes at the limit price when the tick high reaches it
func (a *Account) LimitSellAtQuote(fc FeeConfig, t *kline.Candle, quoteAmount, limitPrice decimal.Decimal) bool {
	if t.High.LessThan(limitPrice) {
		return false
	}
	maxAmount, capped := a.GetMaxBaseAmount(t)
	return a.sellAtQuote(fc, quoteAmount, limitPrice, maxAmount, capped)
}

// ExecuteOrder executes one order against one OHLC tick, dispatching over
// order type, side and amount denomination with the fee config matching the
// order type. A malformed order panics: the only legitimate producer is the
// trader collaborator, which is assumed correct.
func (a *Account) ExecuteOrder(cfg *AccountConfig, o *Order, t *kline.Candle) bool {
	if err := o.validate(); err != nil {
		panic(fmt.Sprintf("account: malformed order %v: %v", o, err))
	}
	amount := o.Amount.Value()
	switch o.Type {
	case MarketOrder:
		fc := cfg.MarketOrderFee
		switch {
		case o.Side == Buy && o.Amount.IsBase():
			return a.MarketBuy(fc, t, amount)
		case o.Side == Buy:
			return a.MarketBuyAtQuote(fc, t, amount)
		case o.Amount.IsBase():
			return a.MarketSell(fc, t, amount)
		default:
			return a.MarketSellAtQuote(fc, t, amount)
		}
	case StopOrder:
		fc := cfg.StopOrderFee
		switch {
		case o.Side == Buy && o.Amount.IsBase():
			return a.StopBuy(fc, t, amount, o.Price)
		case o.Side == Buy:
			return a.StopBuyAtQuote(fc, t, amount, o.Price)
		case o.Amount.IsBase():
			return a.StopSell(fc, t, amount, o.Price)
		default:
			return a.StopSellAtQuote(fc, t, amount, o.Price)
		}
	default:
		fc := cfg.LimitOrderFee
		switch {
		case o.Side == Buy && o.Amount.IsBase():
			return a.LimitBuy(fc, t, amount, o.Price)
		case o.Side == Buy:
			return a.LimitBuyAtQuote(fc, t, amount, o.Price)
		case o.Amount.IsBase():
			return a.LimitSell(fc, t, amount, o.Price)
		default:
			return a.LimitSellAtQuote(fc, t, amount, o.Price)
		}
	}
}

// Value returns the portfolio value quote + price*base at the given price
func (a *Account) Value(price decimal.Decimal) decimal.Decimal {
	return a.QuoteBalance.Add(price.Mul(a.BaseBalance))
}
