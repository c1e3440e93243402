package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/listmonkctl/format"
	"github.com/s0up4200/listmonkctl/listmonk"
)

var listID int

// listsCmd represents the lists command
var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show mailing lists",
	Long:  `Show every mailing list on the listmonk instance, or a single list with --id.`,
	RunE:  runLists,
}

func init() {
	listsCmd.Flags().IntVar(&listID, "id", 0, "show only the list with this ID")
}

func runLists(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := connect(ctx); err != nil {
		return err
	}

	var lists []listmonk.MailingList
	if listID > 0 {
		list, err := client.ListByID(ctx, listID)
		if err != nil {
			return err
		}
		lists = []listmonk.MailingList{*list}
	} else {
		var err error
		lists, err = client.Lists(ctx)
		if err != nil {
			return fmt.Errorf("failed to get lists: %w", err)
		}
	}

	if cfg.Output.Format != format.Table {
		return format.Encode(cmd.OutOrStdout(), cfg.Output.Format, lists)
	}

	formatter := format.NewConsoleFormatter()
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLists(lists, format.FormatOptions{ShowDetails: cfg.Output.ShowDetails}))
	return nil
}
