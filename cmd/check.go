package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/idkit/internal/presentation"
	"github.com/zjrosen/idkit/internal/tracing"
	"github.com/zjrosen/idkit/prefixid"
)

var checkCount int

var checkCmd = &cobra.Command{
	Use:   "check <kind>",
	Short: "Mint many identifiers and report collisions",
	Long: `Mint --count identifiers of a kind with the configured generator and
report duplicates, entropy and whether the longest form fits the storage
column (VARCHAR(26)).

Exits with an error when a duplicate is found or the column would overflow.`,
	Args: cobra.ExactArgs(1),
	RunE: traced("check", runCheck),
}

func init() {
	checkCmd.Flags().IntVarP(&checkCount, "count", "n", 100000, "number of identifiers to mint")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(ctx context.Context, cmd *cobra.Command, args []string) error {
	if checkCount < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", checkCount)
	}
	d, err := kinds.LookupFold(args[0])
	if err != nil {
		return err
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String(tracing.AttrKind, d.Name),
		attribute.Int(tracing.AttrCount, checkCount),
	)

	seen := make(map[string]struct{}, checkCount)
	duplicates := []string{}
	for i := 0; i < checkCount; i++ {
		id := d.Generate()
		if _, dup := seen[id]; dup {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = struct{}{}
	}

	gen := prefixid.DefaultGenerator()
	longest := len(d.Prefix)
	for _, a := range d.Aliases {
		longest = max(longest, len(a))
	}
	maxLen := longest + len(prefixid.Separator) + gen.Length()

	report := presentation.CheckReportDTO{
		Kind:        d.Name,
		Generated:   checkCount,
		Unique:      len(seen),
		Duplicates:  duplicates,
		Alphabet:    gen.Alphabet(),
		Length:      gen.Length(),
		EntropyBits: math.Round(float64(gen.Length())*math.Log2(float64(len(gen.Alphabet())))*100) / 100,
		MaxLength:   maxLen,
		FitsColumn:  maxLen <= prefixid.ColumnWidth,
	}
	if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatCheckReport(report); err != nil {
		return err
	}

	if len(duplicates) > 0 {
		return fmt.Errorf("%d duplicate identifiers in %d", len(duplicates), checkCount)
	}
	if !report.FitsColumn {
		return fmt.Errorf("identifiers up to %d characters do not fit %s", maxLen, prefixid.ColumnType)
	}
	return nil
}
