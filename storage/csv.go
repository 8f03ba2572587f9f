// Package storage reads and writes price histories and OHLC candles, as
// plain or gzip-compressed CSV files and as a sqlite-backed candle store.
package storage

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/petercerno/trader-backtest-sub000/history"
	"github.com/petercerno/trader-backtest-sub000/kline"
)

// openReader opens path for reading, transparently decompressing files with
// a .gz suffix
func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipReadCloser{gz: gz, file: f}, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipReadCloser) Close() error {
	err := g.gz.Close()
	if cErr := g.file.Close(); err == nil {
		err = cErr
	}
	return err
}

// openWriter creates path for writing, compressing files with a .gz suffix
func openWriter(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipWriteCloser{gz: gzip.NewWriter(f), file: f}, nil
}

type gzipWriteCloser struct {
	gz   *gzip.Writer
	file *os.File
}

func (g *gzipWriteCloser) Write(p []byte) (int, error) {
	return g.gz.Write(p)
}

func (g *gzipWriteCloser) Close() error {
	err := g.gz.Close()
	if cErr := g.file.Close(); err == nil {
		err = cErr
	}
	return err
}

// ReadPriceRecords loads raw price ticks from a CSV file with rows of
// unix_seconds,price,volume. No header row is expected.
func ReadPriceRecords(path string) ([]history.PriceRecord, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return DecodePriceRecords(rc)
}

// DecodePriceRecords parses raw price ticks from r
func DecodePriceRecords(r io.Reader) ([]history.PriceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = priceRecordFields
	var records []history.PriceRecord
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		sec, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		price, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		volume, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		records = append(records, history.PriceRecord{
			Time:   time.Unix(sec, 0).UTC(),
			Price:  price,
			Volume: volume,
		})
	}
}

// WritePriceRecords stores raw price ticks as CSV
func WritePriceRecords(path string, records []history.PriceRecord) error {
	wc, err := openWriter(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(wc)
	for i := range records {
		r := &records[i]
		row := []string{
			strconv.FormatInt(r.Time.Unix(), 10),
			strconv.FormatFloat(r.Price, 'f', -1, 64),
			strconv.FormatFloat(r.Volume, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			wc.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// ReadCandles loads OHLC candles from a CSV file with rows of
// unix_seconds,open,high,low,close,volume. No header row is expected.
func ReadCandles(path string) ([]kline.Candle, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return DecodeCandles(rc)
}

// DecodeCandles parses OHLC candles from r
func DecodeCandles(r io.Reader) ([]kline.Candle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = candleFields
	var candles []kline.Candle
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			return candles, nil
		}
		if err != nil {
			return nil, err
		}
		sec, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		c := kline.Candle{Time: time.Unix(sec, 0).UTC()}
		for i, field := range []*decimal.Decimal{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume} {
			if *field, err = decimal.NewFromString(row[i+1]); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
			}
		}
		candles = append(candles, c)
	}
}

// WriteCandles stores OHLC candles as CSV
func WriteCandles(path string, candles []kline.Candle) error {
	wc, err := openWriter(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(wc)
	for i := range candles {
		c := &candles[i]
		row := []string{
			strconv.FormatInt(c.Time.Unix(), 10),
			c.Open.String(),
			c.High.String(),
			c.Low.String(),
			c.Close.String(),
			c.Volume.String(),
		}
		if err := w.Write(row); err != nil {
			wc.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
