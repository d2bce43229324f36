package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/idkit/internal/ledger"
	"github.com/zjrosen/idkit/internal/presentation"
)

var (
	ledgerKind  string
	ledgerBatch string
	ledgerLimit int
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Read identifiers recorded with new --record",
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded identifiers",
	Long: `List recorded identifiers as JSON, newest first.

Examples:
  idkit ledger list
  idkit ledger list --kind UserID --limit 10
  idkit ledger list --batch bat_V1StGXR8_Z5jdHi6B-myT`,
	Args: cobra.NoArgs,
	RunE: traced("ledger.list", runLedgerList),
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show <mint-id|value>",
	Short: "Show the ledger row for a mint id or a recorded identifier",
	Args:  cobra.ExactArgs(1),
	RunE:  traced("ledger.show", runLedgerShow),
}

func init() {
	ledgerListCmd.Flags().StringVar(&ledgerKind, "kind", "", "filter by kind name or prefix")
	ledgerListCmd.Flags().StringVar(&ledgerBatch, "batch", "", "show one batch (bat_...)")
	ledgerListCmd.Flags().IntVar(&ledgerLimit, "limit", 0, "maximum rows (0 for all)")
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerShowCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func runLedgerList(ctx context.Context, cmd *cobra.Command, _ []string) error {
	db, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	repo := db.Repository()

	var mints []ledger.Mint
	if ledgerBatch != "" {
		batch, err := ledger.ParseBatchID(ledgerBatch)
		if err != nil {
			return err
		}
		mints, err = repo.ListByBatch(ctx, batch)
		if err != nil {
			return err
		}
	} else {
		filter := ledger.ListFilter{Kind: ledgerKind, Limit: ledgerLimit}
		if ledgerKind != "" {
			if d, err := kinds.LookupFold(ledgerKind); err == nil {
				filter.Kind = d.Name
			}
		}
		mints, err = repo.List(ctx, filter)
		if err != nil {
			return err
		}
	}

	return presentation.NewFormatter(cmd.OutOrStdout()).FormatMints(presentation.FromMints(mints))
}

func runLedgerShow(ctx context.Context, cmd *cobra.Command, args []string) error {
	db, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	repo := db.Repository()

	var m ledger.Mint
	if strings.HasPrefix(args[0], "mnt_") {
		id, err := ledger.ParseMintID(args[0])
		if err != nil {
			return err
		}
		m, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
	} else {
		m, err = repo.FindByValue(ctx, args[0])
		if err != nil {
			return err
		}
	}

	return presentation.NewFormatter(cmd.OutOrStdout()).FormatMints([]presentation.MintDTO{presentation.FromMint(m)})
}
