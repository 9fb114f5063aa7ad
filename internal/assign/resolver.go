package assign

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/UCSCComparativeGenomics/parentassign/internal/cluster"
	"github.com/UCSCComparativeGenomics/parentassign/internal/gp"
	"github.com/UCSCComparativeGenomics/parentassign/internal/intervals"
)

// Default thresholds for the resolution policy.
const (
	// DefaultMinDistance is the minimum asymmetric-overlap support for
	// any single-gene assignment, and the margin required to rescue one
	// gene over the others.
	DefaultMinDistance = 0.4
	// DefaultTmJaccardDistance is the reference-to-reference Jaccard
	// above which two candidate genes are deemed mutually overlapping
	// loci (badAnnotOrTm).
	DefaultTmJaccardDistance = 0.25
)

// Resolver decides the parent gene for each de novo transcript in a
// cluster. It is read-only over the index and safe for concurrent use.
type Resolver struct {
	idx               *gp.Index
	minDistance       float64
	tmJaccardDistance float64
	logger            *zap.Logger
}

// NewResolver creates a resolver with the given thresholds.
func NewResolver(idx *gp.Index, minDistance, tmJaccardDistance float64) *Resolver {
	return &Resolver{
		idx:               idx,
		minDistance:       minDistance,
		tmJaccardDistance: tmJaccardDistance,
		logger:            zap.NewNop(),
	}
}

// SetLogger sets the logger for per-cluster decision messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// ResolveCluster produces one Record per de novo member of the cluster.
// Clusters share no mutable state, so calls are independent.
func (r *Resolver) ResolveCluster(c *cluster.Cluster) ([]Record, error) {
	recs := make([]Record, 0, len(c.Denovo))
	for _, dn := range c.Denovo {
		rec, err := r.resolveTranscript(dn, c)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *Resolver) resolveTranscript(dn *gp.Transcript, c *cluster.Cluster) (Record, error) {
	if conflicts := c.Conflicts(dn.Name); len(conflicts) > 0 {
		return r.resolveWithConflicts(dn, c, conflicts)
	}
	return r.resolveDirect(dn, c)
}

// resolveDirect handles the common case: no exon conflicts were reported,
// so every filtered-reference gene in the cluster is a candidate.
func (r *Resolver) resolveDirect(dn *gp.Transcript, c *cluster.Cluster) (Record, error) {
	filteredGenes := c.FilteredGenes()

	var assigned string
	var method Method
	var err error
	switch {
	case len(filteredGenes) > 1:
		assigned, method = r.resolveMultipleGenes(dn, c.Filtered)
	case len(filteredGenes) == 1:
		assigned, err = r.checkSingleGene(dn, filteredGenes[0], c)
		if err != nil {
			return Record{}, err
		}
	default:
		// No candidates: putative novel locus.
	}

	// Genes present only in the permissive reference set are paralogy
	// markers, not primary candidates.
	return r.assembleRecord(dn, c, assigned, method, c.UnfilteredGenes())
}

// resolveWithConflicts handles clusters formed by spatial proximity
// without true exon sharing, typically readthrough artifacts. Genes whose
// every cluster transcript conflicts with the de novo model are not true
// candidates and are dropped before scoring.
func (r *Resolver) resolveWithConflicts(dn *gp.Transcript, c *cluster.Cluster, conflicts []cluster.ConflictRef) (Record, error) {
	// Group conflicting reference transcripts by gene. Conflicts naming
	// de novo or out-of-cluster transcripts do not narrow candidacy.
	conflictTxsByGene := make(map[string]map[string]bool)
	excludedTxs := make(map[string]bool)
	for _, ref := range conflicts {
		gene, ok := c.TxToGene[ref.TxName]
		if !ok {
			continue
		}
		if conflictTxsByGene[gene] == nil {
			conflictTxsByGene[gene] = make(map[string]bool)
		}
		conflictTxsByGene[gene][ref.TxName] = true
		if _, ok := r.idx.Filtered(ref.TxName); ok {
			excludedTxs[ref.TxName] = true
		}
	}

	// A gene is nonoverlapping only when every one of its transcripts in
	// the cluster appears in the conflict list; partial conflict does not
	// disqualify it.
	nonoverlapping := make(map[string]bool)
	for gene, txs := range c.GeneToTxs {
		if set, ok := conflictTxsByGene[gene]; ok && len(set) == len(txs) {
			nonoverlapping[gene] = true
		}
	}

	filteredGenes := c.FilteredGenes()
	var overlappingGenes []string
	for _, g := range filteredGenes {
		if !nonoverlapping[g] {
			overlappingGenes = append(overlappingGenes, g)
		}
	}

	refiltered := make([]*gp.Transcript, 0, len(c.Filtered))
	for _, t := range c.Filtered {
		if !excludedTxs[t.Name] {
			refiltered = append(refiltered, t)
		}
	}

	var assigned string
	var method Method
	var err error
	switch {
	case len(overlappingGenes) == 0:
		// Every candidate was a clustering artifact: putative novel.
	case len(filteredGenes) == 1:
		assigned, err = r.checkSingleGene(dn, filteredGenes[0], c)
	case len(nonoverlapping) > 0:
		if len(overlappingGenes) > 1 {
			assigned, method = r.resolveMultipleGenes(dn, refiltered)
		} else {
			assigned, err = r.checkSingleGene(dn, overlappingGenes[0], c)
		}
	case len(overlappingGenes) > 1:
		assigned, method = r.resolveMultipleGenes(dn, c.Filtered)
	}
	if err != nil {
		return Record{}, err
	}

	return r.assembleRecord(dn, c, assigned, method, transcriptGeneSet(refiltered))
}

// checkSingleGene verifies that the sole candidate gene actually overlaps
// the de novo transcript well enough to be its parent.
func (r *Resolver) checkSingleGene(dn *gp.Transcript, gene string, c *cluster.Cluster) (string, error) {
	best, err := r.bestOverlap(dn, c.GeneToTxs[gene])
	if err != nil {
		return "", err
	}
	if best > r.minDistance {
		return gene, nil
	}
	return "", nil
}

// bestOverlap returns the highest asymmetric overlap of the de novo
// transcript against the named reference transcripts. Geometry always
// uses the unfiltered-set bodies, since filtered models may be
// coordinate-trimmed.
func (r *Resolver) bestOverlap(dn *gp.Transcript, txNames []string) (float64, error) {
	var best float64
	for _, name := range txNames {
		body, err := r.idx.UnfilteredBody(name)
		if err != nil {
			return 0, err
		}
		if s := intervals.AsymmetricJaccard(dn.Exons, body.Exons); s > best {
			best = s
		}
	}
	return best, nil
}

// resolveMultipleGenes disambiguates between several candidate genes.
// First the candidates are compared against each other: if every pair of
// gene footprints overlaps above the Jaccard threshold, the reference
// itself is at fault (badAnnotOrTm). Otherwise the gene with the best
// asymmetric score wins, but only with a sufficient margin over every
// other gene and no tie for the maximum.
func (r *Resolver) resolveMultipleGenes(dn *gp.Transcript, candidates []*gp.Transcript) (string, Method) {
	byGene := make(map[string][]*gp.Transcript)
	var genes []string
	for _, t := range candidates {
		if _, ok := byGene[t.GeneID]; !ok {
			genes = append(genes, t.GeneID)
		}
		byGene[t.GeneID] = append(byGene[t.GeneID], t)
	}
	sort.Strings(genes)

	allPairsOverlap := true
	for i := 0; i < len(genes) && allPairsOverlap; i++ {
		for j := i + 1; j < len(genes); j++ {
			if geneJaccard(byGene[genes[i]], byGene[genes[j]]) <= r.tmJaccardDistance {
				allPairsOverlap = false
				break
			}
		}
	}
	if allPairsOverlap {
		return "", MethodBadAnnotOrTm
	}

	scores := make(map[string]float64, len(genes))
	for _, gene := range genes {
		var best float64
		for _, t := range byGene[gene] {
			if s := intervals.AsymmetricJaccard(dn.Exons, t.Exons); s > best {
				best = s
			}
		}
		scores[gene] = best
	}

	highGene := genes[0]
	highScore := scores[highGene]
	for _, gene := range genes[1:] {
		if scores[gene] > highScore {
			highGene, highScore = gene, scores[gene]
		}
	}

	// Scores equal to the maximum are excluded from the margin check;
	// the tie safeguard below catches them.
	for _, gene := range genes {
		if x := scores[gene]; x != highScore && highScore-x < r.minDistance {
			return "", MethodAmbiguousOrFusion
		}
	}

	// Re-select by stable ascending sort; a disagreement with highGene
	// means several genes attained exactly the maximum score.
	order := make([]string, len(genes))
	copy(order, genes)
	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] < scores[order[j]] })
	if best := order[len(order)-1]; best != highGene {
		return "", MethodAmbiguousOrFusion
	}
	return highGene, MethodRescued
}

// geneJaccard measures how much two genes' merged exonic footprints
// overlap each other.
func geneJaccard(a, b []*gp.Transcript) float64 {
	return intervals.Jaccard(collectExons(a), collectExons(b))
}

func collectExons(txs []*gp.Transcript) []intervals.Interval {
	var ivs []intervals.Interval
	for _, t := range txs {
		ivs = append(ivs, t.Exons...)
	}
	return ivs
}

// assembleRecord gathers qualifying alternative genes and emits the final
// record. Alternatives must overlap the de novo transcript above the
// support threshold; when none survive, a rescued or ambiguousOrFusion
// method is downgraded to null, since the disambiguation it reports no
// longer has live alternatives behind it.
func (r *Resolver) assembleRecord(dn *gp.Transcript, c *cluster.Cluster, assigned string, method Method, altPool []string) (Record, error) {
	var alts []string
	for _, gene := range altPool {
		if gene == assigned {
			continue
		}
		best, err := r.bestOverlap(dn, c.GeneToTxs[gene])
		if err != nil {
			return Record{}, err
		}
		if best > r.minDistance {
			alts = append(alts, gene)
		}
	}
	if len(alts) == 0 && (method == MethodRescued || method == MethodAmbiguousOrFusion) {
		method = ""
	}
	sort.Strings(alts)

	rec := Record{
		TranscriptID:       dn.Name,
		AssignedGeneID:     assigned,
		AlternativeGeneIDs: strings.Join(alts, ","),
		Method:             method,
	}
	r.logger.Debug("resolved transcript",
		zap.String("transcript", rec.TranscriptID),
		zap.String("gene", rec.AssignedGeneID),
		zap.String("method", string(rec.Method)))
	return rec, nil
}

func transcriptGeneSet(txs []*gp.Transcript) []string {
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
