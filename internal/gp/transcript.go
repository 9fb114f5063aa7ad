// Package gp provides genePred transcript models and lookup structures.
package gp

import "github.com/UCSCComparativeGenomics/parentassign/internal/intervals"

// Source tags which collection a transcript came from.
type Source int

const (
	// SourceDenovo marks ab-initio predicted transcripts.
	SourceDenovo Source = iota
	// SourceFilteredRef marks reference projections that survived filtering.
	SourceFilteredRef
	// SourceUnfilteredRef marks the permissive reference projection set.
	SourceUnfilteredRef
)

func (s Source) String() string {
	switch s {
	case SourceDenovo:
		return "denovo"
	case SourceFilteredRef:
		return "filtered-reference"
	case SourceUnfilteredRef:
		return "unfiltered-reference"
	}
	return "unknown"
}

// Transcript represents one genePred gene model. Immutable after loading.
type Transcript struct {
	Name    string // transcript identifier, unique within its source
	GeneID  string // genePred name2 column
	Chrom   string
	Strand  int8  // +1 or -1
	TxStart int64 // 0-based
	TxEnd   int64 // half-open
	Exons   []intervals.Interval
	Source  Source
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (t *Transcript) IsForwardStrand() bool {
	return t.Strand == 1
}

// ExonicLength returns the number of bases covered by the transcript's exons.
func (t *Transcript) ExonicLength() int64 {
	var n int64
	for _, e := range t.Exons {
		n += e.Len()
	}
	return n
}
