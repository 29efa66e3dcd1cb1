// journal/csv.go
package journal

import (
	"encoding/csv"
	"io"
	"os"
	"time"

	"github.com/rustyeddy/papertrader/broker"
)

var (
	transactionHeader = []string{"id", "time", "symbol", "side", "quantity", "price", "amount"}
	equityHeader      = []string{"time", "cash", "positions_value", "portfolio_value"}
)

// CSVJournal appends transactions and equity snapshots to two CSV files.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

// NewCSV opens both files for appending, creating them if needed. A header
// row is written only to an empty file.
func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, tw, err := openCSV(tradesPath, transactionHeader)
	if err != nil {
		return nil, err
	}
	ef, ew, err := openCSV(equityPath, equityHeader)
	if err != nil {
		tf.Close()
		return nil, err
	}
	return &CSVJournal{tw, ew, tf, ef}, nil
}

func openCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, nil, err
		}
	}
	return f, w, nil
}

func (j *CSVJournal) RecordTransaction(t broker.Transaction) error {
	if err := j.trades.Write(transactionRow(t)); err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.Time.UTC().Format(time.RFC3339),
		e.Cash.StringFixed(2),
		e.PositionsValue.StringFixed(2),
		e.PortfolioValue.StringFixed(2),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return err
	}
	return nil
}

// WriteTransactionsCSV writes txs, header first, in the order given.
func WriteTransactionsCSV(w io.Writer, txs []broker.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionHeader); err != nil {
		return err
	}
	for _, t := range txs {
		if err := cw.Write(transactionRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func transactionRow(t broker.Transaction) []string {
	return []string{
		t.ID,
		t.Time.UTC().Format(time.RFC3339),
		t.Symbol,
		string(t.Side),
		t.Quantity.String(),
		t.Price.String(),
		t.Amount().StringFixed(2),
	}
}
