package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/idkit/internal/presentation"
	"github.com/zjrosen/idkit/internal/tracing"
)

var parseCmd = &cobra.Command{
	Use:   "parse <kind> <candidate>...",
	Short: "Check candidates against one kind",
	Long: `Parse each candidate as the given kind and print one JSON result per
candidate. Only the prefix is checked; the suffix is accepted as-is.

Exits with an error when any candidate is rejected.

Examples:
  idkit parse UserID usr_V1StGXR8_Z5jdHi6B-myT
  idkit parse usr user_abc ord_abc`,
	Args: cobra.MinimumNArgs(2),
	RunE: traced("parse", runParse),
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <candidate>...",
	Short: "Identify which kind a candidate belongs to",
	Long: `Resolve each candidate's kind from its prefix (primary or alias) and
print the kind, prefix and suffix as JSON.

Exits with an error when any candidate matches no configured kind.`,
	Args: cobra.MinimumNArgs(1),
	RunE: traced("inspect", runInspect),
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runParse(ctx context.Context, cmd *cobra.Command, args []string) error {
	d, err := kinds.LookupFold(args[0])
	if err != nil {
		return err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(tracing.AttrKind, d.Name))

	candidates := args[1:]
	results := make([]presentation.ParseResultDTO, 0, len(candidates))
	rejected := 0
	for _, c := range candidates {
		if _, err := d.Parse(c); err != nil {
			rejected++
			results = append(results, presentation.Rejected(d.Name, c, err))
			continue
		}
		results = append(results, presentation.Accepted(d, c))
	}

	if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatParseResults(results); err != nil {
		return err
	}
	if rejected > 0 {
		return fmt.Errorf("%d of %d candidates rejected", rejected, len(candidates))
	}
	return nil
}

func runInspect(_ context.Context, cmd *cobra.Command, args []string) error {
	results := make([]presentation.ParseResultDTO, 0, len(args))
	unknown := 0
	for _, c := range args {
		d, err := kinds.Resolve(c)
		if err != nil {
			unknown++
			results = append(results, presentation.Rejected("", c, err))
			continue
		}
		results = append(results, presentation.Accepted(d, c))
	}

	if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatParseResults(results); err != nil {
		return err
	}
	if unknown > 0 {
		return fmt.Errorf("%d of %d candidates match no kind", unknown, len(args))
	}
	return nil
}
