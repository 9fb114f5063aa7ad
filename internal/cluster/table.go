// Package cluster invokes the clusterGenes oracle and partitions its
// output into per-cluster candidate sets.
package cluster

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ConflictRef identifies a transcript reported as exon-conflicting,
// parsed from the oracle's "source:transcriptId" notation.
type ConflictRef struct {
	Source string
	TxName string
}

// Entry is one row of the oracle's cluster table.
type Entry struct {
	ClusterID int
	TxName    string
	Conflicts []ConflictRef
}

// Column names in clusterGenes output. Rows are located by header name,
// not position, since the tool emits extra columns.
const (
	colCluster       = "#cluster"
	colGene          = "gene"
	colExonConflicts = "exonConflicts"
)

// ParseTable parses clusterGenes tab-separated output. The exonConflicts
// column is optional; when absent no entry carries conflicts.
func ParseTable(reader io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var entries []Entry
	var clusterIdx, geneIdx, conflictIdx int
	haveHeader := false
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		if !haveHeader {
			var err error
			clusterIdx, geneIdx, conflictIdx, err = locateColumns(fields)
			if err != nil {
				return nil, err
			}
			haveHeader = true
			continue
		}

		if len(fields) <= clusterIdx || len(fields) <= geneIdx {
			return nil, fmt.Errorf("line %d: truncated row", lineNum)
		}
		id, err := strconv.Atoi(fields[clusterIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: cluster id: %w", lineNum, err)
		}

		e := Entry{ClusterID: id, TxName: fields[geneIdx]}
		if conflictIdx >= 0 && len(fields) > conflictIdx {
			e.Conflicts, err = parseConflicts(fields[conflictIdx])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cluster table: %w", err)
	}
	if !haveHeader {
		return nil, fmt.Errorf("cluster table is empty")
	}
	return entries, nil
}

func locateColumns(header []string) (clusterIdx, geneIdx, conflictIdx int, err error) {
	clusterIdx, geneIdx, conflictIdx = -1, -1, -1
	for i, name := range header {
		switch name {
		case colCluster:
			clusterIdx = i
		case colGene:
			geneIdx = i
		case colExonConflicts:
			conflictIdx = i
		}
	}
	if clusterIdx < 0 || geneIdx < 0 {
		return 0, 0, 0, fmt.Errorf("cluster table header missing %q or %q columns", colCluster, colGene)
	}
	return clusterIdx, geneIdx, conflictIdx, nil
}

// parseConflicts splits a comma-joined conflict cell. clusterGenes emits a
// trailing comma; empty and "NA" cells mean no conflicts.
func parseConflicts(cell string) ([]ConflictRef, error) {
	cell = strings.TrimSuffix(cell, ",")
	if cell == "" || cell == "NA" {
		return nil, nil
	}
	parts := strings.Split(cell, ",")
	refs := make([]ConflictRef, len(parts))
	for i, p := range parts {
		src, tx, ok := strings.Cut(p, ":")
		if !ok || tx == "" {
			return nil, fmt.Errorf("malformed conflict entry %q", p)
		}
		refs[i] = ConflictRef{Source: src, TxName: tx}
	}
	return refs, nil
}
