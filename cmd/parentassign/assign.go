package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/UCSCComparativeGenomics/parentassign/internal/assign"
	"github.com/UCSCComparativeGenomics/parentassign/internal/cluster"
	"github.com/UCSCComparativeGenomics/parentassign/internal/duckdb"
	"github.com/UCSCComparativeGenomics/parentassign/internal/gp"
	"github.com/UCSCComparativeGenomics/parentassign/internal/output"
)

func newAssignCmd() *cobra.Command {
	var (
		filteredPath   string
		unfilteredPath string
		denovoPath     string
		outputFile     string
		dbPath         string
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Resolve parental gene assignments for de novo predictions",
		Example: `  parentassign assign \
      --filtered-tm filtered.gp --unfiltered-tm unfiltered.gp \
      --denovo augustus.gp -o assignments.tsv

  # keep a queryable copy of the results
  parentassign assign --filtered-tm f.gp --unfiltered-tm u.gp \
      --denovo d.gp --db runs.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssign(cmd, filteredPath, unfilteredPath, denovoPath, outputFile, dbPath)
		},
	}

	cmd.Flags().StringVar(&filteredPath, "filtered-tm", "", "filtered transMap genePred file (required)")
	cmd.Flags().StringVar(&unfilteredPath, "unfiltered-tm", "", "unfiltered transMap genePred file (required)")
	cmd.Flags().StringVar(&denovoPath, "denovo", "", "de novo prediction genePred file (required)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output TSV file (default: stdout)")
	cmd.Flags().StringVar(&dbPath, "db", "", "also write results to a DuckDB database at this path")
	_ = cmd.MarkFlagRequired("filtered-tm")
	_ = cmd.MarkFlagRequired("unfiltered-tm")
	_ = cmd.MarkFlagRequired("denovo")

	cmd.Flags().Float64("min-distance", assign.DefaultMinDistance,
		"minimum asymmetric-overlap support and rescue margin")
	cmd.Flags().Float64("tm-jaccard-distance", assign.DefaultTmJaccardDistance,
		"reference-reference Jaccard above which genes are mutually overlapping loci")
	cmd.Flags().Bool("stranded", true, "require strand match when clustering")
	cmd.Flags().Int("workers", 0, "resolution workers (0 = all CPUs)")
	cmd.Flags().String("cluster-genes-bin", "clusterGenes", "clusterGenes executable")
	_ = viper.BindPFlag("min_distance", cmd.Flags().Lookup("min-distance"))
	_ = viper.BindPFlag("tm_jaccard_distance", cmd.Flags().Lookup("tm-jaccard-distance"))
	_ = viper.BindPFlag("stranded", cmd.Flags().Lookup("stranded"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("cluster_genes_bin", cmd.Flags().Lookup("cluster-genes-bin"))

	return cmd
}

func runAssign(cmd *cobra.Command, filteredPath, unfilteredPath, denovoPath, outputFile, dbPath string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	minDistance := viper.GetFloat64("min_distance")
	tmJaccard := viper.GetFloat64("tm_jaccard_distance")

	filtered, err := gp.LoadGenePred(filteredPath, gp.SourceFilteredRef)
	if err != nil {
		return err
	}
	unfiltered, err := gp.LoadGenePred(unfilteredPath, gp.SourceUnfilteredRef)
	if err != nil {
		return err
	}
	denovo, err := gp.LoadGenePred(denovoPath, gp.SourceDenovo)
	if err != nil {
		return err
	}
	logger.Info("loaded transcript collections",
		zap.Int("filtered", len(filtered)),
		zap.Int("unfiltered", len(unfiltered)),
		zap.Int("denovo", len(denovo)))

	idx, err := gp.NewIndex(denovo, filtered, unfiltered)
	if err != nil {
		return err
	}

	runner := oracleRunner()
	runner.SetLogger(logger)
	entries, err := runner.Cluster(cmd.Context(), unfilteredPath, denovoPath)
	if err != nil {
		return err
	}

	clusters, err := cluster.Partition(entries, idx)
	if err != nil {
		return err
	}
	logger.Info("partitioned clusters", zap.Int("clusters", len(clusters)))

	resolver := assign.NewResolver(idx, minDistance, tmJaccard)
	resolver.SetLogger(logger)
	records, err := resolver.ResolveAll(clusters, viper.GetInt("workers"))
	if err != nil {
		return err
	}
	logger.Info("resolved assignments", zap.Int("records", len(records)))

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}
	if err := output.NewTabWriter(out).WriteAll(records); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if dbPath != "" {
		store, err := duckdb.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err := store.BeginRun(duckdb.RunParams{
			MinDistance:       minDistance,
			TmJaccardDistance: tmJaccard,
			Stranded:          viper.GetBool("stranded"),
			ClusterCount:      len(clusters),
			DenovoCount:       len(denovo),
		})
		if err != nil {
			return err
		}
		if err := store.WriteAssignments(runID, records); err != nil {
			return err
		}
		logger.Info("stored assignments", zap.String("db", dbPath), zap.Int64("run", runID))
	}

	return nil
}
