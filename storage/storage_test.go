package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petercerno/trader-backtest-sub000/history"
	"github.com/petercerno/trader-backtest-sub000/kline"
)

func testRecords() []history.PriceRecord {
	base := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	return []history.PriceRecord{
		{Time: base, Price: 100.5, Volume: 1.25},
		{Time: base.Add(time.Minute), Price: 101, Volume: 0},
		{Time: base.Add(2 * time.Minute), Price: 99.75, Volume: 3},
	}
}

func testCandles() []kline.Candle {
	base := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	var candles []kline.Candle
	for i := 0; i < 3; i++ {
		price := decimal.NewFromInt(int64(100 + i))
		candles = append(candles, kline.Candle{
			Time:   base.Add(time.Duration(i) * time.Hour),
			Open:   price,
			High:   price.Add(decimal.NewFromInt(10)),
			Low:    price.Sub(decimal.NewFromInt(10)),
			Close:  price.Add(decimal.NewFromInt(1)),
			Volume: decimal.NewFromInt(1000),
		})
	}
	return candles
}

func TestPriceRecordRoundTrip(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"prices.csv", "prices.csv.gz"} {
		path := filepath.Join(t.TempDir(), name)
		records := testRecords()
		require.NoError(t, WritePriceRecords(path, records))
		got, err := ReadPriceRecords(path)
		require.NoError(t, err)
		assert.Equal(t, records, got, name)
	}
}

func TestCandleRoundTrip(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"candles.csv", "candles.csv.gz"} {
		path := filepath.Join(t.TempDir(), name)
		candles := testCandles()
		require.NoError(t, WriteCandles(path, candles))
		got, err := ReadCandles(path)
		require.NoError(t, err)
		require.Len(t, got, len(candles), name)
		for i := range candles {
			assert.True(t, candles[i].Time.Equal(got[i].Time))
			assert.True(t, candles[i].Close.Equal(got[i].Close))
			assert.True(t, candles[i].Volume.Equal(got[i].Volume))
		}
	}
}

func TestDecodeMalformedRecords(t *testing.T) {
	t.Parallel()
	_, err := DecodePriceRecords(strings.NewReader("1483228800,not-a-price,1\n"))
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = DecodeCandles(strings.NewReader("nope,1,2,3,4,5\n"))
	assert.ErrorIs(t, err, ErrMalformedRecord)

	// wrong column count is a csv layer error
	_, err = DecodePriceRecords(strings.NewReader("1483228800,100\n"))
	assert.Error(t, err)
}

func TestDecodeSideInput(t *testing.T) {
	t.Parallel()
	records, err := DecodeSideInput(strings.NewReader("1483228800,1.5,2\n1483228860,1.75,3\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []float64{1.5, 2}, records[0].Signals)
	assert.True(t, records[1].Time.After(records[0].Time))

	_, err = DecodeSideInput(strings.NewReader("1483228800\n"))
	assert.ErrorIs(t, err, ErrMalformedRecord)

	// inconsistent signal counts fail at the csv layer
	_, err = DecodeSideInput(strings.NewReader("1,1.5,2\n2,1.5\n"))
	assert.Error(t, err)
}

func TestCandleStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := OpenCandleStore(filepath.Join(t.TempDir(), "candles.db"))
	require.NoError(t, err)
	defer store.Close()

	candles := testCandles()
	require.NoError(t, store.Insert(ctx, candles))

	got, err := store.Series(ctx, candles[0].Time, candles[2].Time)
	require.NoError(t, err)
	require.Len(t, got, 2, "range end is exclusive")
	assert.True(t, got[0].Time.Equal(candles[0].Time))
	assert.True(t, got[1].Close.Equal(candles[1].Close))

	// reinsert updates in place
	candles[0].Close = decimal.NewFromInt(555)
	require.NoError(t, store.Insert(ctx, candles[:1]))
	got, err = store.Series(ctx, candles[0].Time, candles[0].Time.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Close.Equal(decimal.NewFromInt(555)))
}

func TestCandleStoreNil(t *testing.T) {
	t.Parallel()
	var store *CandleStore
	assert.ErrorIs(t, store.Insert(context.Background(), nil), ErrNilStore)
	_, err := store.Series(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrNilStore)
	assert.ErrorIs(t, store.Close(), ErrNilStore)
}
