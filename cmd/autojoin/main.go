package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kasuganosora/autojoin/pkg/api"
	"github.com/kasuganosora/autojoin/pkg/join"
	"github.com/kasuganosora/autojoin/pkg/resource"
	"github.com/kasuganosora/autojoin/pkg/resource/sqldb"
	"github.com/kasuganosora/autojoin/pkg/types"
)

var (
	flagHow       string
	flagStrategy  string
	flagThreshold float64
	flagOutput    string
	flagVerbose   bool
	flagWorkers   int
	flagDB        []string
)

var rootCmd = &cobra.Command{
	Use:   "autojoin <file> <file> [file...]",
	Short: "Merge data files without specifying join keys",
	Long: `Autojoin infers the join keys between two or more tables and merges
them into one. Candidate keys are scored by value overlap; when no
column pair overlaps enough, an optional similarity strategy matches
near-identical text values before scoring again.

Supported formats: ` + strings.Join(resource.SupportedExtensions, ", ") + `

Database tables can be mixed in with --db "driver|dsn|table", where
driver is mysql or postgres. They are appended after the file inputs.`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&flagHow, "how", "inner", "Join type: inner, left, or outer")
	rootCmd.Flags().StringVar(&flagStrategy, "strategy", "", "Similarity strategy when no exact key is found: levenshtein or jaro")
	rootCmd.Flags().Float64Var(&flagThreshold, "threshold", 0.75, "Minimum similarity for a fuzzy value match, between 0 and 1")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (defaults next to the first input)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log inferred keys and merge steps")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Worker count for scoring and matching (0 = all CPUs)")
	rootCmd.Flags().StringArrayVar(&flagDB, "db", nil, `Additional database input as "driver|dsn|table"`)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	how, err := types.ParseJoinType(flagHow)
	if err != nil {
		return err
	}
	strategy, err := join.ParseStrategy(flagStrategy)
	if err != nil {
		return err
	}

	level := api.LogWarn
	if flagVerbose {
		level = api.LogInfo
	}
	logger := api.NewDefaultLoggerWithOutput(level, cmd.ErrOrStderr())

	tables := make([]*types.Table, 0, len(args)+len(flagDB))
	for _, path := range args {
		t, err := resource.Load(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		tables = append(tables, t)
	}
	for _, conn := range flagDB {
		parts := strings.SplitN(conn, "|", 3)
		if len(parts) != 3 {
			return fmt.Errorf("invalid --db value %q, want driver|dsn|table", conn)
		}
		t, err := sqldb.Load(ctx, parts[0], parts[1], parts[2])
		if err != nil {
			return fmt.Errorf("failed to load table %s from %s: %w", parts[2], parts[0], err)
		}
		tables = append(tables, t)
	}
	if len(tables) < 2 {
		return fmt.Errorf("need at least two inputs to join, got %d", len(tables))
	}

	result, err := join.Join(ctx, tables, join.Options{
		How:       how,
		Strategy:  strategy,
		Threshold: flagThreshold,
		Verbose:   flagVerbose,
		Logger:    logger,
		Workers:   flagWorkers,
	})
	if err != nil {
		return err
	}

	outPath := flagOutput
	if outPath == "" {
		outPath = defaultOutputPath(args)
	}
	if err := resource.Save(ctx, result.Table, outPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows, %d columns)\n",
		outPath, result.Table.RowCount(), len(result.Table.Columns))
	return nil
}

// defaultOutputPath joins the input base names next to the first input,
// keeping its format
func defaultOutputPath(inputs []string) string {
	names := make([]string, len(inputs))
	for i, p := range inputs {
		names[i] = resource.Label(p)
	}
	ext := filepath.Ext(inputs[0])
	return filepath.Join(filepath.Dir(inputs[0]), strings.Join(names, "_")+ext)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
