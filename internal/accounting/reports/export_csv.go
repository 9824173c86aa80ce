package reports

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

// rupiah renders whole-Rupiah amounts with Indonesian digit grouping for
// the exported files the finance staff open in spreadsheets.
var rupiah = message.NewPrinter(language.Indonesian)

func formatRupiah(v int64) string {
	return rupiah.Sprintf("%d", v)
}

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	_, err := s.buf.WriteString(line)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

// WriteTrialBalanceCSV streams a trial balance as CSV. An unreconciled
// ledger shows up in the warnings comment so the discrepancy survives the
// export.
func WriteTrialBalanceCSV(w io.Writer, tb TrialBalance, asOf time.Time) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeComment("# Report: Trial Balance"); err != nil {
		return err
	}
	if err := streamer.writeComment(fmt.Sprintf("# As Of: %s", asOf.Format("2006-01-02"))); err != nil {
		return err
	}
	warning := "none"
	if tb.Imbalanced {
		warning = fmt.Sprintf("ledger does not reconcile, difference %s", formatRupiah(tb.Imbalance))
	}
	if err := streamer.writeComment("# Warnings: " + warning); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Account Code", "Account Name", "Type", "Debit Balance", "Credit Balance"}); err != nil {
		return err
	}
	for _, row := range tb.Rows {
		if err := streamer.writeRow([]string{
			row.Code,
			row.Name,
			row.Type,
			formatRupiah(row.DebitBalance),
			formatRupiah(row.CreditBalance),
		}); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"Totals", "", "", formatRupiah(tb.TotalDebit), formatRupiah(tb.TotalCredit)}); err != nil {
		return err
	}
	return streamer.Flush()
}
