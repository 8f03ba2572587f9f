package account

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidLiquidity is returned when market liquidity is outside [0, 1]
	ErrInvalidLiquidity = errors.New("market liquidity must be within [0, 1]")
	// ErrNegativeSetting is returned on negative units, ratios, fees or
	// starting balances
	ErrNegativeSetting = errors.New("account setting cannot be negative")
)

// OrderType denotes how an order derives its execution price and trigger
type OrderType uint8

// Supported order types
const (
	MarketOrder OrderType = iota
	StopOrder
	LimitOrder
)

// String implements fmt.Stringer
func (t OrderType) String() string {
	switch t {
	case MarketOrder:
		return "MARKET"
	case StopOrder:
		return "STOP"
	case LimitOrder:
		return "LIMIT"
	}
	return "UNKNOWN"
}

// OrderSide denotes the direction of an order
type OrderSide uint8

// Supported order sides
const (
	Buy OrderSide = iota
	Sell
)

// String implements fmt.Stringer
func (s OrderSide) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return "UNKNOWN"
}

type amountKind uint8

const (
	amountUnset amountKind = iota
	amountBase
	amountQuote
)

// Amount is the tagged base-xor-quote order size. The zero value is unset
// and rejected by ExecuteOrder; construct via BaseAmount or QuoteAmount.
type Amount struct {
	kind  amountKind
	value decimal.Decimal
}

// BaseAmount sizes an order in units of the base currency
func BaseAmount(v decimal.Decimal) Amount {
	return Amount{kind: amountBase, value: v}
}

// QuoteAmount sizes an order by a quote-currency budget
func QuoteAmount(v decimal.Decimal) Amount {
	return Amount{kind: amountQuote, value: v}
}

// IsBase reports whether the amount is denominated in the base currency
func (a Amount) IsBase() bool {
	return a.kind == amountBase
}

// Value returns the raw amount value
func (a Amount) Value() decimal.Decimal {
	return a.value
}

// String implements fmt.Stringer
func (a Amount) String() string {
	switch a.kind {
	case amountBase:
		return a.value.String() + " base"
	case amountQuote:
		return a.value.String() + " quote"
	}
	return "unset"
}

// Order is a single instruction emitted by a trader; it is immutable once
// emitted and evaluated for execution exactly once, on the tick following
// its emission. Price is required and positive for stop and limit orders.
type Order struct {
	Type   OrderType
	Side   OrderSide
	Amount Amount
	Price  decimal.Decimal
}

// validate reports the first structural defect of the order shape. A
// non-nil result is a producer bug, not a business condition.
func (o *Order) validate() error {
	if o.Type > LimitOrder {
		return fmt.Errorf("unknown order type %d", o.Type)
	}
	if o.Side > Sell {
		return fmt.Errorf("unknown order side %d", o.Side)
	}
	if o.Amount.kind == amountUnset {
		return errors.New("order amount not set")
	}
	if !o.Amount.value.IsPositive() {
		return fmt.Errorf("order amount %v not positive", o.Amount.value)
	}
	if o.Type != MarketOrder && !o.Price.IsPositive() {
		return fmt.Errorf("%v order requires a positive price, got %v", o.Type, o.Price)
	}
	return nil
}

// String implements fmt.Stringer
func (o *Order) String() string {
	if o.Type == MarketOrder {
		return fmt.Sprintf("%v %v %v", o.Type, o.Side, o.Amount)
	}
	return fmt.Sprintf("%v %v %v @ %v", o.Type, o.Side, o.Amount, o.Price)
}

// FeeConfig describes the fee schedule of one order type
type FeeConfig struct {
	RelativeFee decimal.Decimal `json:"relative-fee"`
	FixedFee    decimal.Decimal `json:"fixed-fee"`
	MinimumFee  decimal.Decimal `json:"minimum-fee"`
}

func (f *FeeConfig) validate() error {
	if f.RelativeFee.IsNegative() || f.FixedFee.IsNegative() || f.MinimumFee.IsNegative() {
		return fmt.Errorf("%w: fee values", ErrNegativeSetting)
	}
	return nil
}

// AccountConfig seeds a fresh simulated exchange account for one evaluation
// window
type AccountConfig struct {
	StartBaseBalance  decimal.Decimal `json:"start-base-balance"`
	StartQuoteBalance decimal.Decimal `json:"start-quote-balance"`
	// BaseUnit and QuoteUnit set the balance quantisation granularity;
	// zero means unlimited precision
	BaseUnit  decimal.Decimal `json:"base-unit"`
	QuoteUnit decimal.Decimal `json:"quote-unit"`
	// MarketLiquidity in [0, 1] interpolates the execution price between the
	// tick open (1) and its worst-case extreme (0)
	MarketLiquidity decimal.Decimal `json:"market-liquidity"`
	// MaxVolumeRatio caps limit-order fills at a fraction of tick volume to
	// model partial fills; zero disables the cap
	MaxVolumeRatio decimal.Decimal `json:"max-volume-ratio"`
	MarketOrderFee FeeConfig       `json:"market-order-fee"`
	StopOrderFee   FeeConfig       `json:"stop-order-fee"`
	LimitOrderFee  FeeConfig       `json:"limit-order-fee"`
}

// Validate checks all account settings
func (c *AccountConfig) Validate() error {
	if c.StartBaseBalance.IsNegative() || c.StartQuoteBalance.IsNegative() {
		return fmt.Errorf("%w: starting balances", ErrNegativeSetting)
	}
	if c.BaseUnit.IsNegative() || c.QuoteUnit.IsNegative() {
		return fmt.Errorf("%w: units", ErrNegativeSetting)
	}
	if c.MarketLiquidity.IsNegative() || c.MarketLiquidity.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidLiquidity
	}
	if c.MaxVolumeRatio.IsNegative() {
		return fmt.Errorf("%w: max volume ratio", ErrNegativeSetting)
	}
	for _, fc := range []*FeeConfig{&c.MarketOrderFee, &c.StopOrderFee, &c.LimitOrderFee} {
		if err := fc.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Account is the mutable balance and fee state machine of the simulated
// exchange. It is exclusively owned by the evaluation task running one
// window and must not be shared.
type Account struct {
	BaseBalance  decimal.Decimal
	QuoteBalance decimal.Decimal
	TotalFee     decimal.Decimal

	baseUnit        decimal.Decimal
	quoteUnit       decimal.Decimal
	marketLiquidity decimal.Decimal
	maxVolumeRatio  decimal.Decimal
}
