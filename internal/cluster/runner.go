package cluster

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"go.uber.org/zap"
)

// DefaultIgnoreBases is the merge tolerance passed to clusterGenes,
// absorbing adjacent-exon noise at cluster boundaries.
const DefaultIgnoreBases = 10

// Runner invokes the external clusterGenes oracle. The oracle is called
// once per run, synchronously; any failure is fatal to the whole run.
type Runner struct {
	Bin         string // clusterGenes executable, default "clusterGenes"
	IgnoreBases int
	Stranded    bool
	logger      *zap.Logger
}

// NewRunner creates a runner with the default oracle settings.
func NewRunner(bin string, stranded bool) *Runner {
	if bin == "" {
		bin = "clusterGenes"
	}
	return &Runner{
		Bin:         bin,
		IgnoreBases: DefaultIgnoreBases,
		Stranded:    stranded,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger for oracle invocation messages.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Args returns the clusterGenes argument list for the given inputs,
// writing the cluster table to outPath. The de novo models are clustered
// together with the unfiltered reference models.
func (r *Runner) Args(outPath, unfilteredGP, denovoGP string) []string {
	args := []string{
		"-ignoreBases=" + strconv.Itoa(r.IgnoreBases),
		"-conflicted",
	}
	if !r.Stranded {
		args = append(args, "-ignoreStrand")
	}
	// "no" is the positional database argument; the inputs are table files.
	return append(args, outPath, "no", unfilteredGP, denovoGP)
}

// Cluster runs the oracle over the union of the unfiltered-reference and
// de novo collections and returns the parsed cluster table.
func (r *Runner) Cluster(ctx context.Context, unfilteredGP, denovoGP string) ([]Entry, error) {
	tmp, err := os.CreateTemp("", "parentassign-clusters-*.tsv")
	if err != nil {
		return nil, fmt.Errorf("create cluster output file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := r.Args(tmpPath, unfilteredGP, denovoGP)
	r.logger.Info("running clustering oracle",
		zap.String("bin", r.Bin),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, r.Bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("clusterGenes failed: %w: %s", err, stderr.String())
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open cluster table: %w", err)
	}
	defer f.Close()

	entries, err := ParseTable(f)
	if err != nil {
		return nil, err
	}
	r.logger.Info("clustering oracle finished", zap.Int("rows", len(entries)))
	return entries, nil
}
