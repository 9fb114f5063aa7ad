package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UCSCComparativeGenomics/parentassign/internal/assign"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestBeginRunAllocatesSequentialIDs(t *testing.T) {
	s := openInMemory(t)

	p := RunParams{MinDistance: 0.4, TmJaccardDistance: 0.25, Stranded: true, ClusterCount: 3, DenovoCount: 5}
	first, err := s.BeginRun(p)
	require.NoError(t, err)
	second, err := s.BeginRun(p)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestWriteAndLookupAssignments(t *testing.T) {
	s := openInMemory(t)

	runID, err := s.BeginRun(RunParams{MinDistance: 0.4, TmJaccardDistance: 0.25, Stranded: true})
	require.NoError(t, err)

	recs := []assign.Record{
		{TranscriptID: "aug-1", AssignedGeneID: "gene-A"},
		{TranscriptID: "aug-2", AssignedGeneID: "gene-B", AlternativeGeneIDs: "gene-C", Method: assign.MethodRescued},
		{TranscriptID: "aug-3", Method: assign.MethodBadAnnotOrTm},
	}
	require.NoError(t, s.WriteAssignments(runID, recs))

	got, err := s.LookupAssignment(runID, "aug-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, recs[1], *got)

	// Null columns round-trip as empty fields.
	got, err = s.LookupAssignment(runID, "aug-3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.AssignedGeneID)
	assert.Empty(t, got.AlternativeGeneIDs)
	assert.Equal(t, assign.MethodBadAnnotOrTm, got.Method)

	missing, err := s.LookupAssignment(runID, "aug-99")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSearchByGene(t *testing.T) {
	s := openInMemory(t)

	runID, err := s.BeginRun(RunParams{})
	require.NoError(t, err)
	require.NoError(t, s.WriteAssignments(runID, []assign.Record{
		{TranscriptID: "aug-2", AssignedGeneID: "gene-A"},
		{TranscriptID: "aug-1", AssignedGeneID: "gene-A", Method: assign.MethodRescued, AlternativeGeneIDs: "gene-B"},
		{TranscriptID: "aug-3", AssignedGeneID: "gene-B"},
	}))

	recs, err := s.SearchByGene("gene-A")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "aug-1", recs[0].TranscriptID)
	assert.Equal(t, "aug-2", recs[1].TranscriptID)
}

func TestWriteAssignmentsEmpty(t *testing.T) {
	s := openInMemory(t)
	assert.NoError(t, s.WriteAssignments(1, nil))
}
