package gp

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/UCSCComparativeGenomics/parentassign/internal/intervals"
)

// genePred extended format columns (tab-separated):
// name chrom strand txStart txEnd cdsStart cdsEnd exonCount exonStarts exonEnds score name2 ...
// Coordinates are 0-based half-open. exonStarts/exonEnds are
// comma-separated lists with a trailing comma.
const minGenePredFields = 12

// LoadGenePred loads all transcripts from a genePred file, tagging them
// with the given source. Gzipped files are handled transparently.
func LoadGenePred(path string, source Source) ([]*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genePred file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	txs, err := ParseGenePred(reader, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return txs, nil
}

// ParseGenePred parses genePred content and returns transcripts.
func ParseGenePred(reader io.Reader, source Source) ([]*Transcript, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var txs []*Transcript
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := parseGenePredLine(line, source)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		txs = append(txs, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read genePred: %w", err)
	}
	return txs, nil
}

func parseGenePredLine(line string, source Source) (*Transcript, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minGenePredFields {
		return nil, fmt.Errorf("expected at least %d fields, got %d", minGenePredFields, len(fields))
	}

	txStart, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("txStart: %w", err)
	}
	txEnd, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("txEnd: %w", err)
	}
	exonCount, err := strconv.Atoi(fields[7])
	if err != nil {
		return nil, fmt.Errorf("exonCount: %w", err)
	}

	starts, err := parseCommaList(fields[8])
	if err != nil {
		return nil, fmt.Errorf("exonStarts: %w", err)
	}
	ends, err := parseCommaList(fields[9])
	if err != nil {
		return nil, fmt.Errorf("exonEnds: %w", err)
	}
	if len(starts) != exonCount || len(ends) != exonCount {
		return nil, fmt.Errorf("exonCount %d does not match %d starts / %d ends",
			exonCount, len(starts), len(ends))
	}

	var strand int8
	switch fields[2] {
	case "+":
		strand = 1
	case "-":
		strand = -1
	default:
		return nil, fmt.Errorf("bad strand %q", fields[2])
	}

	exons := make([]intervals.Interval, exonCount)
	for i := range exonCount {
		if ends[i] < starts[i] {
			return nil, fmt.Errorf("exon %d end %d before start %d", i, ends[i], starts[i])
		}
		exons[i] = intervals.Interval{Start: starts[i], End: ends[i]}
	}

	return &Transcript{
		Name:    fields[0],
		GeneID:  fields[11],
		Chrom:   fields[1],
		Strand:  strand,
		TxStart: txStart,
		TxEnd:   txEnd,
		Exons:   exons,
		Source:  source,
	}, nil
}

// parseCommaList parses a genePred comma-separated coordinate list,
// tolerating the conventional trailing comma.
func parseCommaList(s string) ([]int64, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	vals := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q", p)
		}
		vals[i] = v
	}
	return vals, nil
}
