package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"coach-insights-go/internal/logger"
	"coach-insights-go/internal/types"
)

var httpClient = &http.Client{Timeout: 12 * time.Second}

// FetchSheet downloads a published CSV export of the record sheet and
// parses it into call records. Transient HTTP failures are retried with
// exponential backoff.
func FetchSheet(url string) ([]types.CallRecord, error) {
	log := logger.Component("dataset.sheet").WithField("url", url)

	body, err := fetchCSV(url)
	if err != nil {
		log.WithError(err).Error("sheet fetch failed")
		return nil, err
	}

	r := csv.NewReader(body)
	r.FieldsPerRecord = -1 // sheets pad rows unevenly
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	records := recordsFromRows(rows)
	log.WithField("rows", len(rows)-1).WithField("records", len(records)).Info("sheet fetched")
	return records, nil
}

func fetchCSV(url string) (io.Reader, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 12 * time.Second

	var body []byte
	var lastErr error
	op := func() error {
		resp, err := httpClient.Get(url)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			return lastErr
		}
		if resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("fetch failed: %d %s", resp.StatusCode, string(b))
			return backoff.Permanent(lastErr)
		}
		body = b
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		return nil, lastErr
	}
	return bytes.NewReader(body), nil
}
