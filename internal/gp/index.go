package gp

import "fmt"

// Index holds the three transcript partitions for one resolution run.
// Read-only after construction; safe for concurrent readers.
type Index struct {
	denovo     map[string]*Transcript
	filtered   map[string]*Transcript
	unfiltered map[string]*Transcript
}

// NewIndex builds an Index from the three loaded collections.
// The unfiltered collection is expected to be a superset of the filtered one.
func NewIndex(denovo, filtered, unfiltered []*Transcript) (*Index, error) {
	x := &Index{
		denovo:     make(map[string]*Transcript, len(denovo)),
		filtered:   make(map[string]*Transcript, len(filtered)),
		unfiltered: make(map[string]*Transcript, len(unfiltered)),
	}
	for _, t := range denovo {
		x.denovo[t.Name] = t
	}
	for _, t := range unfiltered {
		x.unfiltered[t.Name] = t
	}
	for _, t := range filtered {
		x.filtered[t.Name] = t
		if _, ok := x.unfiltered[t.Name]; !ok {
			return nil, fmt.Errorf("filtered transcript %s missing from unfiltered collection", t.Name)
		}
	}
	return x, nil
}

// Denovo looks up a de novo transcript by name.
func (x *Index) Denovo(name string) (*Transcript, bool) {
	t, ok := x.denovo[name]
	return t, ok
}

// Filtered looks up a filtered-reference transcript by name.
func (x *Index) Filtered(name string) (*Transcript, bool) {
	t, ok := x.filtered[name]
	return t, ok
}

// Unfiltered looks up a transcript in the permissive reference set by name.
func (x *Index) Unfiltered(name string) (*Transcript, bool) {
	t, ok := x.unfiltered[name]
	return t, ok
}

// UnfilteredBody returns the unfiltered-set gene model for a reference
// transcript. Overlap geometry always uses these bodies, since filtered
// models may be coordinate-trimmed. A missing name is a data-integrity
// fault between the cluster table and the transcript collections.
func (x *Index) UnfilteredBody(name string) (*Transcript, error) {
	t, ok := x.unfiltered[name]
	if !ok {
		return nil, fmt.Errorf("transcript %s referenced by cluster table but absent from unfiltered collection", name)
	}
	return t, nil
}

// DenovoCount returns the number of de novo transcripts.
func (x *Index) DenovoCount() int {
	return len(x.denovo)
}

// FilteredCount returns the number of filtered-reference transcripts.
func (x *Index) FilteredCount() int {
	return len(x.filtered)
}

// UnfilteredCount returns the number of unfiltered-reference transcripts.
func (x *Index) UnfilteredCount() int {
	return len(x.unfiltered)
}
