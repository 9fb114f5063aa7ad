package cluster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `#cluster	table	gene	chrom	txStart	txEnd	strand	exonConflicts
1	no	tm-1	chr1	1000	5000	+
1	no	aug-1	chr1	1200	4800	+
2	no	tm-2	chr1	8000	9000	-	unfiltered.gp:tm-3,denovo.gp:aug-2,
2	no	tm-3	chr1	8100	8900	-
2	no	aug-2	chr1	8000	9000	-	unfiltered.gp:tm-2,
`

func TestParseTable(t *testing.T) {
	entries, err := ParseTable(strings.NewReader(sampleTable))
	require.NoError(t, err)
	require.Len(t, entries, 5)

	assert.Equal(t, Entry{ClusterID: 1, TxName: "tm-1"}, entries[0])
	assert.Equal(t, Entry{ClusterID: 1, TxName: "aug-1"}, entries[1])

	assert.Equal(t, 2, entries[2].ClusterID)
	assert.Equal(t, "tm-2", entries[2].TxName)
	assert.Equal(t, []ConflictRef{
		{Source: "unfiltered.gp", TxName: "tm-3"},
		{Source: "denovo.gp", TxName: "aug-2"},
	}, entries[2].Conflicts)

	assert.Nil(t, entries[3].Conflicts)
	assert.Equal(t, []ConflictRef{{Source: "unfiltered.gp", TxName: "tm-2"}}, entries[4].Conflicts)
}

func TestParseTableWithoutConflictColumn(t *testing.T) {
	in := "#cluster\tgene\n7\ttm-1\n"
	entries, err := ParseTable(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{ClusterID: 7, TxName: "tm-1"}, entries[0])
}

func TestParseTableNAConflicts(t *testing.T) {
	in := "#cluster\tgene\texonConflicts\n1\ttm-1\tNA\n"
	entries, err := ParseTable(strings.NewReader(in))
	require.NoError(t, err)
	assert.Nil(t, entries[0].Conflicts)
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty input", ""},
		{"missing gene column", "#cluster\tchrom\n1\tchr1\n"},
		{"bad cluster id", "#cluster\tgene\nx\ttm-1\n"},
		{"truncated row", "#cluster\tgene\n1\n"},
		{"malformed conflict", "#cluster\tgene\texonConflicts\n1\ttm-1\tnocolon,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestRunnerArgs(t *testing.T) {
	r := NewRunner("", true)
	assert.Equal(t,
		[]string{"-ignoreBases=10", "-conflicted", "out.tsv", "no", "unfiltered.gp", "denovo.gp"},
		r.Args("out.tsv", "unfiltered.gp", "denovo.gp"))

	r = NewRunner("/opt/kent/clusterGenes", false)
	assert.Equal(t, "/opt/kent/clusterGenes", r.Bin)
	assert.Contains(t, r.Args("out.tsv", "u.gp", "d.gp"), "-ignoreStrand")
}
