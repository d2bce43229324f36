package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/idkit/internal/config"
	"github.com/zjrosen/idkit/internal/log"
	"github.com/zjrosen/idkit/internal/presentation"
)

var kindAliases []string

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List configured identifier kinds",
	Long: `List configured identifier kinds as JSON, sorted by name.

Examples:
  idkit kinds
  idkit kinds | jq -r '.[].prefix'`,
	Args: cobra.NoArgs,
	RunE: traced("kinds", func(_ context.Context, cmd *cobra.Command, _ []string) error {
		dtos := presentation.FromDescriptors(kinds.List())
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatKinds(dtos)
	}),
}

var kindsAddCmd = &cobra.Command{
	Use:   "add <name> <prefix>",
	Short: "Declare a new kind in the config file",
	Long: `Declare a new kind and save it to the config file in use.

The prefix must be 1-4 printable ASCII characters without "_". Neither the
prefix nor any alias may already belong to another kind.

Examples:
  idkit kinds add TicketID tkt
  idkit kinds add InvoiceID inv --alias bill --alias invc`,
	Args: cobra.ExactArgs(2),
	RunE: traced("kinds.add", runKindsAdd),
}

func init() {
	kindsAddCmd.Flags().StringArrayVar(&kindAliases, "alias", nil, "alias accepted when parsing (repeatable)")
	kindsCmd.AddCommand(kindsAddCmd)
	rootCmd.AddCommand(kindsCmd)
}

func runKindsAdd(_ context.Context, cmd *cobra.Command, args []string) error {
	kc := config.KindConfig{Name: args[0], Prefix: args[1], Aliases: kindAliases}
	d := kc.Descriptor()
	if err := kinds.Register(d); err != nil {
		return err
	}

	path := configPath()
	updated := append(append([]config.KindConfig(nil), cfg.Kinds...), kc)
	if err := config.SaveKinds(path, updated); err != nil {
		return fmt.Errorf("saving kinds: %w", err)
	}
	cfg.Kinds = updated
	log.Info(log.CatConfig, "Added kind", "name", kc.Name, "prefix", kc.Prefix, "path", path)

	return presentation.NewFormatter(cmd.OutOrStdout()).FormatKinds([]presentation.KindDTO{presentation.FromDescriptor(d)})
}
