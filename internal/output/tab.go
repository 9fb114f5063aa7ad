// Package output provides assignment result writers.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/UCSCComparativeGenomics/parentassign/internal/assign"
)

// TabWriter writes assignment records in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"TranscriptId",
			"AssignedGeneId",
			"AlternativeGeneIds",
			"ResolutionMethod",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single assignment record. Null fields render as "-".
func (tw *TabWriter) Write(rec *assign.Record) error {
	fields := []string{
		rec.TranscriptID,
		orDash(rec.AssignedGeneID),
		orDash(rec.AlternativeGeneIDs),
		orDash(string(rec.Method)),
	}
	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// WriteAll writes the header followed by every record and flushes.
func (tw *TabWriter) WriteAll(recs []assign.Record) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for i := range recs {
		if err := tw.Write(&recs[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
