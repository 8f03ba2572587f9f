// Package csvlogger streams the per-tick exchange state of a simulation
// pass, together with executed orders and trader diagnostics, as CSV.
package csvlogger

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/petercerno/trader-backtest-sub000/account"
	"github.com/petercerno/trader-backtest-sub000/kline"
)

var exchangeHeader = []string{
	"time", "open", "high", "low", "close", "volume",
	"base_balance", "quote_balance", "total_fee",
	"order_type", "order_side", "order_amount_kind", "order_amount", "order_price",
}

var traderHeader = []string{"time", "state"}

// Logger writes one CSV row per observed exchange state and per executed
// order, and optionally a second stream of trader state snapshots. It
// implements trader.Logger and is not safe for concurrent use; each
// evaluation owns its own instance.
type Logger struct {
	exchange *csv.Writer
	trader   *csv.Writer
	lastTime string
}

// New returns a Logger writing exchange rows to exchangeLog and trader state
// rows to traderLog. A nil traderLog disables the trader stream. Headers are
// written immediately.
func New(exchangeLog, traderLog io.Writer) *Logger {
	l := &Logger{exchange: csv.NewWriter(exchangeLog)}
	_ = l.exchange.Write(exchangeHeader)
	if traderLog != nil {
		l.trader = csv.NewWriter(traderLog)
		_ = l.trader.Write(traderHeader)
	}
	return l
}

func tickFields(t *kline.Candle, a *account.Account) []string {
	return []string{
		strconv.FormatInt(t.Time.Unix(), 10),
		t.Open.String(),
		t.High.String(),
		t.Low.String(),
		t.Close.String(),
		t.Volume.String(),
		a.BaseBalance.String(),
		a.QuoteBalance.String(),
		a.TotalFee.String(),
	}
}

// LogExchangeState writes one row with the tick and the account balances
func (l *Logger) LogExchangeState(t *kline.Candle, a *account.Account) {
	row := append(tickFields(t, a), "", "", "", "", "")
	_ = l.exchange.Write(row)
	l.lastTime = row[0]
}

// LogExchangeOrder writes one row with the tick, the post-execution account
// balances and the executed order
func (l *Logger) LogExchangeOrder(t *kline.Candle, a *account.Account, o *account.Order) {
	amountKind := "quote"
	if o.Amount.IsBase() {
		amountKind = "base"
	}
	row := append(tickFields(t, a),
		o.Type.String(),
		o.Side.String(),
		amountKind,
		o.Amount.Value().String(),
		o.Price.String(),
	)
	_ = l.exchange.Write(row)
	l.lastTime = row[0]
}

// LogTraderState writes one trader diagnostic row, stamped with the time of
// the most recent exchange row
func (l *Logger) LogTraderState(state string) {
	if l.trader == nil {
		return
	}
	_ = l.trader.Write([]string{l.lastTime, state})
}

// Flush drains both streams and reports the first write error encountered
func (l *Logger) Flush() error {
	l.exchange.Flush()
	if err := l.exchange.Error(); err != nil {
		return err
	}
	if l.trader != nil {
		l.trader.Flush()
		return l.trader.Error()
	}
	return nil
}
