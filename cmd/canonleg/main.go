package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/coolbeans/canonleg/pkg/cite"
	"github.com/coolbeans/canonleg/pkg/ingest"
	"github.com/coolbeans/canonleg/pkg/pipeline"
	"github.com/coolbeans/canonleg/pkg/types"
)

var version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "canonleg",
		Short: "Canonical legal-section and annotation engine",
		Long: `Canonleg converts scraped legal-document rows into two canonical
record streams: structural sections and amendment annotations.

Each emitted section carries a stable, collision-free identity and a
machine-sortable ordering key that respects the legislature's
insertion-based amendment scheme (3, 3ZA, 3A, 3AA, ... without
renumbering), handles parallel territorial text variants, and survives
schedule-scoped numbering resets.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.canonleg/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(tablesCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig layers the configuration: flags > CANONLEG_* env > config file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".canonleg"))
			viper.SetConfigType("yaml")
			viper.SetConfigName("config")
		}
	}

	viper.SetEnvPrefix("CANONLEG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func processCmd() *cobra.Command {
	var (
		inputPath       string
		sectionsPath    string
		annotationsPath string
		tableDir        string
		format          string
		workers         int
		language        string
		jurisdiction    string
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Canonicalize scraped rows into section and annotation streams",
		Long: `Reads scraped provision rows (NDJSON, one row per line), groups them
per law, runs the two-pass canonicalization pipeline with one worker
per law, and writes two NDJSON streams: canonical sections and
amendment annotations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			registry := cite.NewRegistry()
			if tableDir != "" {
				if err := loadTableDir(registry, tableDir); err != nil {
					return err
				}
			}

			rows, err := ingest.ReadRowsFile(inputPath)
			if err != nil {
				return err
			}
			laws := ingest.GroupByLaw(rows)
			logger.Info("input loaded",
				zap.Int("rows", len(rows)), zap.Int("laws", len(laws)))

			sectionsFile, err := os.Create(sectionsPath)
			if err != nil {
				return fmt.Errorf("creating sections output: %w", err)
			}
			defer sectionsFile.Close()

			annotationsFile, err := os.Create(annotationsPath)
			if err != nil {
				return fmt.Errorf("creating annotations output: %w", err)
			}
			defer annotationsFile.Close()

			orchestrator := pipeline.NewOrchestrator(registry,
				pipeline.WithLogger(logger),
				pipeline.WithDefaultJurisdiction(jurisdiction),
				pipeline.WithLanguage(language),
			)

			var sink pipeline.Sink
			var arraySink *pipeline.JSONArraySink
			switch format {
			case "ndjson":
				sink = pipeline.NewNDJSONSink(sectionsFile, annotationsFile)
			case "json":
				arraySink = pipeline.NewJSONArraySink(sectionsFile, annotationsFile)
				sink = arraySink
			default:
				return fmt.Errorf("unknown output format %q (want ndjson or json)", format)
			}

			report, err := orchestrator.Run(cmd.Context(), laws, sink, workers)
			if err != nil {
				return fmt.Errorf("pipeline run: %w", err)
			}
			if arraySink != nil {
				if err := arraySink.Flush(); err != nil {
					return err
				}
			}

			fmt.Print(types.FormatRunReport(report))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "input NDJSON file (\"-\" for stdin)")
	cmd.Flags().StringVar(&sectionsPath, "sections-out", "sections.ndjson", "sections output file")
	cmd.Flags().StringVar(&annotationsPath, "annotations-out", "annotations.ndjson", "annotations output file")
	cmd.Flags().StringVar(&tableDir, "tables", "", "directory of extra prefix-table YAML files")
	cmd.Flags().StringVar(&format, "format", "ndjson", "output format: ndjson or json (single array)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent laws (0 = one per core)")
	cmd.Flags().StringVar(&language, "language", "en", "language code stamped on sections")
	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "UK", "default jurisdiction for unprefixed law names")

	return cmd
}

func tablesCmd() *cobra.Command {
	var tableDir string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List and validate citation-prefix tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := cite.NewRegistry()
			if tableDir != "" {
				if err := loadTableDir(registry, tableDir); err != nil {
					return err
				}
			}

			for _, jurisdiction := range registry.List() {
				table, _ := registry.Get(jurisdiction)
				fmt.Printf("%s (%d prefixes, %d labels)\n",
					jurisdiction, len(table.Prefixes), len(table.Labels))

				sectionTypes := make([]string, 0, len(table.Prefixes))
				for sectionType := range table.Prefixes {
					sectionTypes = append(sectionTypes, string(sectionType))
				}
				sort.Strings(sectionTypes)
				for _, sectionType := range sectionTypes {
					fmt.Printf("  %-14s %s\n", sectionType, table.Prefixes[types.SectionType(sectionType)])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tableDir, "tables", "", "directory of extra prefix-table YAML files")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the canonleg version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("canonleg %s\n", version)
		},
	}
}

// loadTableDir registers every .yaml/.yml prefix table in a directory.
func loadTableDir(registry *cite.Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading table directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		extension := filepath.Ext(entry.Name())
		if extension != ".yaml" && extension != ".yml" {
			continue
		}
		if err := registry.RegisterFile(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("loading table %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// buildLogger creates the run logger; verbose switches to development
// output with debug level.
func buildLogger() (*zap.Logger, error) {
	if verbose || viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.DisableStacktrace = true
	return config.Build()
}
