package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:     "health",
	Aliases: []string{"test"},
	Short:   "Test the connection to listmonk",
	Long:    `Log in to your listmonk instance and report whether it is healthy.`,
	RunE:    runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Testing connection to listmonk at %s...\n", client.BaseURL())

	if err := connect(ctx); err != nil {
		fmt.Fprintf(out, "✗ Login failed (%s)\n", client.State())
		return err
	}
	fmt.Fprintf(out, "✓ Logged in as %s\n", client.Username())

	if !client.Healthy(ctx) {
		return fmt.Errorf("listmonk at %s reported unhealthy", client.BaseURL())
	}
	fmt.Fprintln(out, "✓ listmonk is healthy")

	lists, err := client.Lists(ctx)
	if err != nil {
		return fmt.Errorf("failed to get lists: %w", err)
	}

	var subscribers int
	for _, l := range lists {
		subscribers += l.SubscriberCount
	}

	fmt.Fprintf(out, "\nlistmonk Statistics:\n")
	fmt.Fprintf(out, "- Total lists: %d\n", len(lists))
	fmt.Fprintf(out, "- Total list memberships: %d\n", subscribers)

	return nil
}
