// Package duckdb persists assignment results in a queryable DuckDB
// database, append-only across runs.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/UCSCComparativeGenomics/parentassign/internal/assign"
)

// Store manages a DuckDB connection for assignment results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS assignment_runs (
		run_id BIGINT PRIMARY KEY,
		started_at TIMESTAMP,
		min_distance DOUBLE,
		tm_jaccard_distance DOUBLE,
		stranded BOOLEAN,
		cluster_count INTEGER,
		denovo_count INTEGER
	)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS parent_assignments (
		run_id BIGINT,
		transcript_id VARCHAR,
		assigned_gene_id VARCHAR,
		alternative_gene_ids VARCHAR,
		resolution_method VARCHAR,
		PRIMARY KEY (run_id, transcript_id)
	)`)
	return err
}

// RunParams captures the configuration of one resolution run.
type RunParams struct {
	MinDistance       float64
	TmJaccardDistance float64
	Stranded          bool
	ClusterCount      int
	DenovoCount       int
}

// BeginRun records run metadata and returns the new run id.
func (s *Store) BeginRun(p RunParams) (int64, error) {
	var runID int64
	row := s.db.QueryRow(`SELECT coalesce(max(run_id), 0) + 1 FROM assignment_runs`)
	if err := row.Scan(&runID); err != nil {
		return 0, fmt.Errorf("allocate run id: %w", err)
	}
	_, err := s.db.Exec(`INSERT INTO assignment_runs VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), p.MinDistance, p.TmJaccardDistance, p.Stranded,
		p.ClusterCount, p.DenovoCount)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return runID, nil
}

// WriteAssignments batch-inserts assignment records for a run using the
// Appender API. Null fields are stored as SQL NULLs.
func (s *Store) WriteAssignments(runID int64, recs []assign.Record) error {
	if len(recs) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "parent_assignments")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range recs {
		if err := appender.AppendRow(
			runID, r.TranscriptID,
			nullable(r.AssignedGeneID),
			nullable(r.AlternativeGeneIDs),
			nullable(string(r.Method)),
		); err != nil {
			return fmt.Errorf("append assignment: %w", err)
		}
	}

	return appender.Flush()
}

// LookupAssignment returns the record for a transcript in a given run,
// or nil if absent.
func (s *Store) LookupAssignment(runID int64, transcriptID string) (*assign.Record, error) {
	row := s.db.QueryRow(`SELECT
		transcript_id, assigned_gene_id, alternative_gene_ids, resolution_method
		FROM parent_assignments
		WHERE run_id=? AND transcript_id=?`, runID, transcriptID)

	var rec assign.Record
	var gene, alts, method sql.NullString
	if err := row.Scan(&rec.TranscriptID, &gene, &alts, &method); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	rec.AssignedGeneID = gene.String
	rec.AlternativeGeneIDs = alts.String
	rec.Method = assign.Method(method.String)
	return &rec, nil
}

// SearchByGene returns all records across runs where the gene was the
// assigned parent.
func (s *Store) SearchByGene(geneID string) ([]assign.Record, error) {
	rows, err := s.db.Query(`SELECT
		transcript_id, assigned_gene_id, alternative_gene_ids, resolution_method
		FROM parent_assignments
		WHERE assigned_gene_id=?
		ORDER BY transcript_id`, geneID)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	var recs []assign.Record
	for rows.Next() {
		var rec assign.Record
		var gene, alts, method sql.NullString
		if err := rows.Scan(&rec.TranscriptID, &gene, &alts, &method); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		rec.AssignedGeneID = gene.String
		rec.AlternativeGeneIDs = alts.String
		rec.Method = assign.Method(method.String)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return recs, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
