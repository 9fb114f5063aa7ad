package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/UCSCComparativeGenomics/parentassign/internal/assign"
	"github.com/UCSCComparativeGenomics/parentassign/internal/cluster"
)

var (
	cfgFile string
	verbose bool
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "parentassign",
	Short: "Assign parental genes to de novo predicted transcripts",
	Long: `parentassign reconciles ab-initio ("de novo") gene predictions against
reference-projected (transMap) gene models. Each de novo transcript is
assigned to its single best-supported parent gene, or explicitly flagged
as unresolved (ambiguousOrFusion, badAnnotOrTm) or as a putative novel
locus. Clustering of overlapping transcripts is delegated to the UCSC
clusterGenes tool.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("parentassign version %s (%s) built %s\n", version, commit, date)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.parentassign.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetDefault("min_distance", assign.DefaultMinDistance)
	viper.SetDefault("tm_jaccard_distance", assign.DefaultTmJaccardDistance)
	viper.SetDefault("stranded", true)
	viper.SetDefault("cluster_genes_bin", "clusterGenes")
	viper.SetDefault("workers", 0)

	rootCmd.AddCommand(newAssignCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in the config file and PARENTASSIGN_* environment
// variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".parentassign")
	}

	viper.SetEnvPrefix("PARENTASSIGN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger; verbose enables debug output.
func newLogger() (*zap.Logger, error) {
	if viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// oracleRunner builds the clusterGenes runner from configuration.
func oracleRunner() *cluster.Runner {
	return cluster.NewRunner(viper.GetString("cluster_genes_bin"), viper.GetBool("stranded"))
}
