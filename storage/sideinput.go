package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/petercerno/trader-backtest-sub000/sideinput"
)

// ReadSideInput loads side-signal records from a CSV file with rows of
// unix_seconds followed by one column per signal. All rows must carry the
// same number of signals.
func ReadSideInput(path string) ([]sideinput.Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return DecodeSideInput(rc)
}

// DecodeSideInput parses side-signal records from r
func DecodeSideInput(r io.Reader) ([]sideinput.Record, error) {
	reader := csv.NewReader(r)
	var records []sideinput.Record
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected a timestamp and at least one signal", ErrMalformedRecord, line)
		}
		sec, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		signals := make([]float64, len(row)-1)
		for i, field := range row[1:] {
			if signals[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
			}
		}
		records = append(records, sideinput.Record{
			Time:    time.Unix(sec, 0).UTC(),
			Signals: signals,
		})
	}
}
