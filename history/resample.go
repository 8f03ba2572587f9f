package history

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/petercerno/trader-backtest-sub000/kline"
)

// Resample buckets raw price records into fixed-width candles aligned to the
// sampling grid rate*floor(ts/rate). Buckets with no records are filled with
// flat zero-volume candles carrying the previous close so that the output is
// strictly contiguous, which the evaluator relies on. Records must be sorted
// chronologically; invalid records are skipped.
func Resample(records []PriceRecord, rate time.Duration) ([]kline.Candle, error) {
	if rate <= 0 {
		return nil, ErrInvalidSamplingRate
	}
	rateSec := int64(rate.Seconds())
	var candles []kline.Candle
	var prev time.Time
	for i := range records {
		r := &records[i]
		if !r.Valid() {
			continue
		}
		if !prev.IsZero() && r.Time.Before(prev) {
			return nil, ErrUnsortedHistory
		}
		prev = r.Time
		bucket := time.Unix(rateSec*(r.Time.Unix()/rateSec), 0).UTC()
		price := decimal.NewFromFloat(r.Price)
		volume := decimal.NewFromFloat(r.Volume)
		if len(candles) == 0 || bucket.After(candles[len(candles)-1].Time) {
			if len(candles) > 0 {
				padGaps(&candles, bucket, rate)
			}
			candles = append(candles, kline.Candle{
				Time:   bucket,
				Open:   price,
				High:   price,
				Low:    price,
				Close:  price,
				Volume: volume,
			})
			continue
		}
		c := &candles[len(candles)-1]
		if price.GreaterThan(c.High) {
			c.High = price
		}
		if price.LessThan(c.Low) {
			c.Low = price
		}
		c.Close = price
		c.Volume = c.Volume.Add(volume)
	}
	return candles, nil
}

// padGaps appends flat zero-volume candles for every empty bucket between
// the last emitted candle and the exclusive target bucket
func padGaps(candles *[]kline.Candle, target time.Time, rate time.Duration) {
	last := (*candles)[len(*candles)-1]
	for ts := last.Time.Add(rate); ts.Before(target); ts = ts.Add(rate) {
		*candles = append(*candles, kline.Candle{
			Time:   ts,
			Open:   last.Close,
			High:   last.Close,
			Low:    last.Close,
			Close:  last.Close,
			Volume: decimal.Zero,
		})
	}
}
