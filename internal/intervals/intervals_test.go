package intervals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGapMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		gap  int64
		want []Interval
	}{
		{
			name: "empty",
			in:   nil,
			gap:  0,
			want: nil,
		},
		{
			name: "disjoint stay separate",
			in:   []Interval{{100, 200}, {300, 400}},
			gap:  0,
			want: []Interval{{100, 200}, {300, 400}},
		},
		{
			name: "overlapping coalesce",
			in:   []Interval{{100, 250}, {200, 400}},
			gap:  0,
			want: []Interval{{100, 400}},
		},
		{
			name: "adjacent half-open coalesce",
			in:   []Interval{{100, 200}, {200, 300}},
			gap:  0,
			want: []Interval{{100, 300}},
		},
		{
			name: "unsorted input",
			in:   []Interval{{300, 400}, {100, 200}, {150, 350}},
			gap:  0,
			want: []Interval{{100, 400}},
		},
		{
			name: "gap tolerance closes small gaps",
			in:   []Interval{{100, 200}, {205, 300}},
			gap:  10,
			want: []Interval{{100, 300}},
		},
		{
			name: "contained interval absorbed",
			in:   []Interval{{100, 400}, {150, 200}},
			gap:  0,
			want: []Interval{{100, 400}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GapMerge(tt.in, tt.gap))
		})
	}
}

func TestAsymmetricJaccard(t *testing.T) {
	a := []Interval{{100, 200}}    // 100 bases
	b := []Interval{{150, 300}}    // covers 50 of a
	assert.Equal(t, 0.5, AsymmetricJaccard(a, b))
	// Directional: b is 150 bases, 50 covered by a.
	assert.InDelta(t, 1.0/3.0, AsymmetricJaccard(b, a), 1e-15)
}

func TestAsymmetricJaccardFragmented(t *testing.T) {
	// Exon-like structure: three 100-base exons, partner covers two fully.
	a := []Interval{{0, 100}, {200, 300}, {400, 500}}
	b := []Interval{{0, 100}, {200, 300}}
	assert.InDelta(t, 2.0/3.0, AsymmetricJaccard(a, b), 1e-15)
	assert.Equal(t, 1.0, AsymmetricJaccard(b, a))
}

func TestAsymmetricJaccardDegenerate(t *testing.T) {
	a := []Interval{{100, 200}}
	assert.Equal(t, 0.0, AsymmetricJaccard(nil, a))
	assert.Equal(t, 0.0, AsymmetricJaccard(a, nil))
	assert.Equal(t, 0.0, AsymmetricJaccard(nil, nil))
}

func TestJaccard(t *testing.T) {
	a := []Interval{{100, 200}}
	b := []Interval{{150, 250}}
	// intersection 50, union 150
	assert.InDelta(t, 50.0/150.0, Jaccard(a, b), 1e-15)
	// Symmetric.
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
}

func TestJaccardIdentical(t *testing.T) {
	a := []Interval{{0, 100}, {200, 300}}
	assert.Equal(t, 1.0, Jaccard(a, a))
}

func TestJaccardDisjoint(t *testing.T) {
	a := []Interval{{0, 100}}
	b := []Interval{{500, 600}}
	assert.Equal(t, 0.0, Jaccard(a, b))
}

func TestJaccardDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, Jaccard(nil, nil))
}

func TestOverlapExactlyReproducible(t *testing.T) {
	// Tie-break comparisons rely on identical computed values, so the
	// same inputs must produce bit-identical scores.
	a := []Interval{{0, 97}, {150, 263}}
	b := []Interval{{50, 180}}
	first := AsymmetricJaccard(a, b)
	for range 100 {
		assert.Equal(t, first, AsymmetricJaccard(a, b))
	}
}
