package eval

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/petercerno/trader-backtest-sub000/account"
	gctmath "github.com/petercerno/trader-backtest-sub000/common/math"
	"github.com/petercerno/trader-backtest-sub000/kline"
	"github.com/petercerno/trader-backtest-sub000/log"
	"github.com/petercerno/trader-backtest-sub000/sideinput"
	"github.com/petercerno/trader-backtest-sub000/trader"
)

// volAccumulator samples a value once per calendar day and reports the
// annualised volatility of its daily log returns
type volAccumulator struct {
	lastDay int64
	values  []float64
}

func (v *volAccumulator) observe(t time.Time, value float64) {
	day := t.Unix() / 86400
	if v.values != nil && day == v.lastDay {
		return
	}
	v.lastDay = day
	v.values = append(v.values, value)
}

func (v *volAccumulator) volatility() float64 {
	return gctmath.AnnualisedVolatility(v.values)
}

// ExecuteTrader runs a single trader over one contiguous candle range,
// executing the orders it emits against a fresh simulated account. Gap
// candles still settle pending orders but never reach the trader. The
// logger may be nil; fastEval skips the volatility accumulators.
func ExecuteTrader(cfg *account.AccountConfig, candles []kline.Candle, side *sideinput.SideInput, t trader.Trader, logger trader.Logger, fastEval bool) (ExecutionResult, error) {
	if len(candles) == 0 {
		return ExecutionResult{}, ErrNoCandles
	}
	acc := account.New(cfg)
	res := ExecutionResult{
		StartBaseBalance:  acc.BaseBalance,
		StartQuoteBalance: acc.QuoteBalance,
		StartPrice:        candles[0].Close,
	}
	var (
		orders    []account.Order
		signals   []float64
		sideIndex = -1
		traderVol volAccumulator
		baseVol   volAccumulator
	)
	for i := range candles {
		tick := &candles[i]
		if logger != nil {
			logger.LogExchangeState(tick, acc)
		}
		for j := range orders {
			if acc.ExecuteOrder(cfg, &orders[j], tick) {
				res.TotalExecutedOrders++
				if logger != nil {
					logger.LogExchangeOrder(tick, acc, &orders[j])
				}
			}
		}
		if !fastEval {
			traderVol.observe(tick.Time, acc.Value(tick.Close).InexactFloat64())
			baseVol.observe(tick.Time, tick.Close.InexactFloat64())
		}
		if tick.IsGap() {
			continue
		}
		orders = orders[:0]
		if side != nil {
			sideIndex = side.IndexSince(tick.Time, sideIndex)
			if sideIndex >= 0 {
				signals = side.Signals(sideIndex)
			} else {
				signals = nil
			}
		}
		orders = append(orders, t.Update(tick, signals, acc.BaseBalance, acc.QuoteBalance)...)
		if logger != nil {
			logger.LogTraderState(t.InternalState())
		}
	}
	last := &candles[len(candles)-1]
	res.EndBaseBalance = acc.BaseBalance
	res.EndQuoteBalance = acc.QuoteBalance
	res.EndPrice = last.Close
	res.StartValue = res.StartQuoteBalance.Add(res.StartPrice.Mul(res.StartBaseBalance))
	res.EndValue = acc.Value(last.Close)
	res.TotalFee = acc.TotalFee
	if !fastEval {
		res.TraderVolatility = traderVol.volatility()
		res.BaselineVolatility = baseVol.volatility()
	}
	return res, nil
}

// EvaluateTrader scores one trader configuration over rolling monthly
// windows. Each window advances the start by one month and spans
// EvaluationPeriodMonths; a zero period evaluates the whole range as a
// single window. Windows without any candles are skipped.
func EvaluateTrader(cfg *account.AccountConfig, evalCfg *Config, candles []kline.Candle, side *sideinput.SideInput, emitter trader.Emitter, logger trader.Logger) (Result, error) {
	if err := evalCfg.Validate(); err != nil {
		return Result{}, err
	}
	res := Result{TraderName: emitter.Name()}
	var ratios, gains, baseGains, orderCounts, fees []float64
	for k := 0; ; k++ {
		windowStart := evalCfg.StartTime.AddDate(0, k, 0)
		windowEnd := windowStart.AddDate(0, evalCfg.EvaluationPeriodMonths, 0)
		if evalCfg.EvaluationPeriodMonths == 0 {
			windowStart = evalCfg.StartTime
			windowEnd = evalCfg.EndTime
		}
		if windowEnd.After(evalCfg.EndTime) {
			break
		}
		window := kline.SliceRange(candles, windowStart, windowEnd)
		if len(window) > 0 {
			exec, err := ExecuteTrader(cfg, window, side, emitter.NewTrader(), logger, evalCfg.FastEval)
			if err != nil {
				return Result{}, err
			}
			if !exec.StartValue.IsPositive() || !exec.StartPrice.IsPositive() || !exec.EndPrice.IsPositive() {
				return Result{}, fmt.Errorf("%w: window %v .. %v", ErrInvalidWindow, windowStart, windowEnd)
			}
			traderGain := exec.EndValue.Div(exec.StartValue).InexactFloat64()
			baselineGain := exec.EndPrice.Div(exec.StartPrice).InexactFloat64()
			res.Periods = append(res.Periods, Period{
				StartTime:         windowStart,
				EndTime:           windowEnd,
				Result:            exec,
				TraderFinalGain:   traderGain,
				BaselineFinalGain: baselineGain,
			})
			ratios = append(ratios, traderGain/baselineGain)
			gains = append(gains, traderGain)
			baseGains = append(baseGains, baselineGain)
			orderCounts = append(orderCounts, float64(exec.TotalExecutedOrders))
			fees = append(fees, exec.TotalFee.InexactFloat64())
			log.Debugf(log.Eval, "%s window %v .. %v gain %.4f baseline %.4f",
				res.TraderName, windowStart, windowEnd, traderGain, baselineGain)
		}
		if evalCfg.EvaluationPeriodMonths == 0 {
			break
		}
	}
	if len(ratios) > 0 {
		res.Score = gctmath.GeometricAverage(ratios)
		res.AvgTraderGain = gctmath.ArithmeticAverage(gains)
		res.AvgBaselineGain = gctmath.ArithmeticAverage(baseGains)
		res.AvgTotalExecutedOrders = gctmath.ArithmeticAverage(orderCounts)
		res.AvgTotalFee = gctmath.ArithmeticAverage(fees)
	}
	return res, nil
}

// EvaluateBatchOfTraders evaluates every emitter concurrently, one
// goroutine each, and returns results in emitter order once all have
// finished. Loggers are never attached to batch runs.
func EvaluateBatchOfTraders(cfg *account.AccountConfig, evalCfg *Config, candles []kline.Candle, side *sideinput.SideInput, emitters []trader.Emitter) ([]Result, error) {
	results := make([]Result, len(emitters))
	errs := make([]error, len(emitters))
	var wg sync.WaitGroup
	for i := range emitters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := uuid.NewV4()
			if err != nil {
				errs[i] = err
				return
			}
			log.Debugf(log.Eval, "task %s evaluating %s", id, emitters[i].Name())
			results[i], errs[i] = EvaluateTrader(cfg, evalCfg, candles, side, emitters[i], nil)
			if errs[i] != nil {
				errs[i] = fmt.Errorf("task %s (%s): %w", id, emitters[i].Name(), errs[i])
				return
			}
			results[i].TaskID = id
		}(i)
	}
	wg.Wait()
	return results, errors.Join(errs...)
}
