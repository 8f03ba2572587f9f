package storage

import (
	"context"
	"database/sql"
	"time"

	// sqlite driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/petercerno/trader-backtest-sub000/kline"
	"github.com/petercerno/trader-backtest-sub000/log"
)

const candleSchema = `
CREATE TABLE IF NOT EXISTS candle (
	time   INTEGER NOT NULL PRIMARY KEY,
	open   TEXT NOT NULL,
	high   TEXT NOT NULL,
	low    TEXT NOT NULL,
	close  TEXT NOT NULL,
	volume TEXT NOT NULL
);`

// CandleStore persists OHLC candles in a sqlite database, keyed by their
// timestamp. Prices are stored as exact decimal strings.
type CandleStore struct {
	db *sql.DB
}

// OpenCandleStore opens (creating if needed) the sqlite database at path
func OpenCandleStore(path string) (*CandleStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err = db.Exec(candleSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &CandleStore{db: db}, nil
}

// Close releases the underlying database handle
func (s *CandleStore) Close() error {
	if s == nil || s.db == nil {
		return ErrNilStore
	}
	return s.db.Close()
}

// Insert upserts candles in a single transaction
func (s *CandleStore) Insert(ctx context.Context, candles []kline.Candle) error {
	if s == nil || s.db == nil {
		return ErrNilStore
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candle (time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(time) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for i := range candles {
		c := &candles[i]
		_, err = stmt.ExecContext(ctx, c.Time.Unix(),
			c.Open.String(), c.High.String(), c.Low.String(),
			c.Close.String(), c.Volume.String())
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	log.Debugf(log.Storage, "stored %d candles", len(candles))
	return nil
}

// Series returns all candles with start <= time < end in chronological order
func (s *CandleStore) Series(ctx context.Context, start, end time.Time) ([]kline.Candle, error) {
	if s == nil || s.db == nil {
		return nil, ErrNilStore
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT time, open, high, low, close, volume FROM candle
		WHERE time >= ? AND time < ? ORDER BY time`,
		start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var candles []kline.Candle
	for rows.Next() {
		var (
			sec    int64
			fields [5]string
		)
		if err = rows.Scan(&sec, &fields[0], &fields[1], &fields[2], &fields[3], &fields[4]); err != nil {
			return nil, err
		}
		c := kline.Candle{Time: time.Unix(sec, 0).UTC()}
		for i, target := range []*decimal.Decimal{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume} {
			if *target, err = decimal.NewFromString(fields[i]); err != nil {
				return nil, err
			}
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}
