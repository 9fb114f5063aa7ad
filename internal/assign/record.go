// Package assign implements parental gene assignment for de novo
// predicted transcripts against reference-projected gene models.
package assign

// Method classifies how an assignment decision was reached. The zero
// value means no disambiguation was required (trivial unique match,
// insufficient support, or putative novel locus).
type Method string

const (
	// MethodRescued marks a multi-gene cluster resolved by a clear
	// asymmetric-overlap margin.
	MethodRescued Method = "rescued"
	// MethodBadAnnotOrTm marks candidate reference genes that overlap
	// each other too much to disambiguate; the defect is upstream, in
	// the annotation or the projection.
	MethodBadAnnotOrTm Method = "badAnnotOrTm"
	// MethodAmbiguousOrFusion marks a cluster where no single gene is
	// clearly best; possibly a gene fusion.
	MethodAmbiguousOrFusion Method = "ambiguousOrFusion"
)

// Record is the per-de-novo-transcript assignment result. Empty strings
// stand for null fields.
type Record struct {
	TranscriptID       string
	AssignedGeneID     string
	AlternativeGeneIDs string // comma-joined, sorted
	Method             Method
}
