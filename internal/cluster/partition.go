package cluster

import (
	"fmt"
	"sort"

	"github.com/UCSCComparativeGenomics/parentassign/internal/gp"
)

// Cluster holds one overlap cluster's members, split by source, plus the
// gene grouping maps used during resolution. Clusters with no de novo
// member are dropped by Partition since there is nothing to assign.
type Cluster struct {
	ID      int
	Denovo  []*gp.Transcript
	// Filtered holds reference members present in the filtered set;
	// Unfiltered holds reference members only found in the permissive set.
	Filtered   []*gp.Transcript
	Unfiltered []*gp.Transcript

	// TxToGene and GeneToTxs span both reference subsets.
	TxToGene  map[string]string
	GeneToTxs map[string][]string

	conflicts map[string][]ConflictRef
}

// Conflicts returns the oracle-reported exon conflicts for a member
// transcript, or nil if none were reported.
func (c *Cluster) Conflicts(txName string) []ConflictRef {
	return c.conflicts[txName]
}

// FilteredGenes returns the sorted set of gene ids present in the
// filtered-reference subset.
func (c *Cluster) FilteredGenes() []string {
	return geneSet(c.Filtered)
}

// UnfilteredGenes returns the sorted set of gene ids present only in the
// unfiltered-reference subset.
func (c *Cluster) UnfilteredGenes() []string {
	return geneSet(c.Unfiltered)
}

func geneSet(txs []*gp.Transcript) []string {
	seen := make(map[string]bool)
	var genes []string
	for _, t := range txs {
		if !seen[t.GeneID] {
			seen[t.GeneID] = true
			genes = append(genes, t.GeneID)
		}
	}
	sort.Strings(genes)
	return genes
}

// Partition groups the cluster table by cluster id and resolves each
// member against the transcript index. Members are classified de novo
// first, then filtered-reference, then unfiltered-reference; a name
// found in none of the partitions is a data-integrity fault.
func Partition(entries []Entry, idx *gp.Index) ([]*Cluster, error) {
	byID := make(map[int][]Entry)
	var ids []int
	for _, e := range entries {
		if _, ok := byID[e.ClusterID]; !ok {
			ids = append(ids, e.ClusterID)
		}
		byID[e.ClusterID] = append(byID[e.ClusterID], e)
	}
	sort.Ints(ids)

	var clusters []*Cluster
	for _, id := range ids {
		c, err := buildCluster(id, byID[id], idx)
		if err != nil {
			return nil, err
		}
		if len(c.Denovo) == 0 {
			continue
		}
		clusters = append(clusters, c)
	}
	return clusters, nil
}

func buildCluster(id int, members []Entry, idx *gp.Index) (*Cluster, error) {
	c := &Cluster{
		ID:        id,
		TxToGene:  make(map[string]string),
		GeneToTxs: make(map[string][]string),
		conflicts: make(map[string][]ConflictRef),
	}

	for _, e := range members {
		if len(e.Conflicts) > 0 {
			c.conflicts[e.TxName] = e.Conflicts
		}
		if t, ok := idx.Denovo(e.TxName); ok {
			c.Denovo = append(c.Denovo, t)
			continue
		}
		if t, ok := idx.Filtered(e.TxName); ok {
			c.Filtered = append(c.Filtered, t)
			continue
		}
		if t, ok := idx.Unfiltered(e.TxName); ok {
			c.Unfiltered = append(c.Unfiltered, t)
			continue
		}
		return nil, fmt.Errorf("cluster %d: transcript %s not found in any input collection", id, e.TxName)
	}

	sortByName(c.Denovo)
	sortByName(c.Filtered)
	sortByName(c.Unfiltered)

	for _, t := range c.Filtered {
		c.TxToGene[t.Name] = t.GeneID
		c.GeneToTxs[t.GeneID] = append(c.GeneToTxs[t.GeneID], t.Name)
	}
	for _, t := range c.Unfiltered {
		c.TxToGene[t.Name] = t.GeneID
		c.GeneToTxs[t.GeneID] = append(c.GeneToTxs[t.GeneID], t.Name)
	}
	return c, nil
}

func sortByName(txs []*gp.Transcript) {
	sort.Slice(txs, func(i, j int) bool { return txs[i].Name < txs[j].Name })
}
