package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/listmonkctl/filter"
	"github.com/s0up4200/listmonkctl/format"
	"github.com/s0up4200/listmonkctl/listmonk"
)

var (
	// list flags
	queryExpr  string
	subListID  int
	filterExpr string
	preset     string
	limit      int

	// get flags
	getEmail string
	getID    int
	getUUID  string

	// add flags
	addEmail   string
	addName    string
	addLists   []int
	preconfirm bool
	addAttribs []string

	// delete flags
	deleteIDs []int
	noConfirm bool
)

// subscribersCmd groups the subscriber commands
var subscribersCmd = &cobra.Command{
	Use:     "subscribers",
	Aliases: []string{"subs"},
	Short:   "Search, add and delete subscribers",
}

var subscribersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribers matching the query and filter",
	Long: `List subscribers, optionally narrowed server-side with a listmonk SQL
query or list ID, and client-side with a filter expression.

Examples:
  listmonkctl subscribers list --list-id 3
  listmonkctl subscribers list --query "subscribers.attribs->>'city' = 'Berlin'"
  listmonkctl subscribers list --filter 'Status == "blocklisted" and daysSince(CreatedAt) > 365'`,
	RunE: runSubscribersList,
}

var subscribersGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Look up a single subscriber by email, ID or UUID",
	RunE:  runSubscribersGet,
}

var subscribersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a subscriber",
	RunE:  runSubscribersAdd,
}

var subscribersDeleteCmd = &cobra.Command{
	Use:   "delete [email...]",
	Short: "Delete subscribers by email or ID",
	RunE:  runSubscribersDelete,
}

func init() {
	subscribersListCmd.Flags().StringVarP(&queryExpr, "query", "q", "", "listmonk SQL query expression")
	subscribersListCmd.Flags().IntVar(&subListID, "list-id", 0, "only subscribers of this list")
	subscribersListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	subscribersListCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	subscribersListCmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many matches (0 = all)")

	subscribersGetCmd.Flags().StringVar(&getEmail, "email", "", "subscriber email")
	subscribersGetCmd.Flags().IntVar(&getID, "id", 0, "subscriber ID")
	subscribersGetCmd.Flags().StringVar(&getUUID, "uuid", "", "subscriber UUID")
	subscribersGetCmd.MarkFlagsMutuallyExclusive("email", "id", "uuid")
	subscribersGetCmd.MarkFlagsOneRequired("email", "id", "uuid")

	subscribersAddCmd.Flags().StringVar(&addEmail, "email", "", "subscriber email")
	subscribersAddCmd.Flags().StringVar(&addName, "name", "", "subscriber name")
	subscribersAddCmd.Flags().IntSliceVar(&addLists, "list", nil, "list ID to subscribe to (repeatable)")
	subscribersAddCmd.Flags().BoolVar(&preconfirm, "preconfirm", false, "mark double opt-in subscriptions as confirmed")
	subscribersAddCmd.Flags().StringArrayVar(&addAttribs, "attrib", nil, "attribute as key=value (repeatable)")
	_ = subscribersAddCmd.MarkFlagRequired("email")
	_ = subscribersAddCmd.MarkFlagRequired("name")

	subscribersDeleteCmd.Flags().IntSliceVar(&deleteIDs, "id", nil, "subscriber ID to delete (repeatable)")
	subscribersDeleteCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")

	subscribersCmd.AddCommand(subscribersListCmd, subscribersGetCmd, subscribersAddCmd, subscribersDeleteCmd)
}

func runSubscribersList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := filters.Resolve(filterExpr, preset)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	if err := connect(ctx); err != nil {
		return err
	}

	q := listmonk.SubscriberQuery{Query: queryExpr, ListID: subListID}
	if f != nil {
		logger.Info().Str("filter", f.Expression()).Msg("Searching subscribers")
	}

	subs, err := collectSubscribers(client.SubscriberPages(ctx, q), f, limit)
	if err != nil {
		return err
	}

	return printSubscribers(cmd.OutOrStdout(), subs)
}

// collectSubscribers drains pages until limit matches are found. A nil filter
// keeps every subscriber and a limit of zero reads all pages.
func collectSubscribers(pages iter.Seq2[*listmonk.Page, error], f filter.Filter, limit int) ([]listmonk.Subscriber, error) {
	subs := []listmonk.Subscriber{}
	for page, err := range pages {
		if err != nil {
			return nil, err
		}

		matched := page.Results
		if f != nil {
			matched = filter.Apply(f, page.Results)
		}
		subs = append(subs, matched...)

		if limit > 0 && len(subs) >= limit {
			return subs[:limit], nil
		}
	}
	return subs, nil
}

func runSubscribersGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := connect(ctx); err != nil {
		return err
	}

	var (
		sub *listmonk.Subscriber
		err error
		key string
	)
	switch {
	case getEmail != "":
		key = getEmail
		sub, err = client.SubscriberByEmail(ctx, getEmail)
	case getID > 0:
		key = strconv.Itoa(getID)
		sub, err = client.SubscriberByID(ctx, getID)
	default:
		key = getUUID
		sub, err = client.SubscriberByUUID(ctx, getUUID)
	}
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("subscriber %s not found", key)
	}

	return printSubscribers(cmd.OutOrStdout(), []listmonk.Subscriber{*sub})
}

func runSubscribersAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	attribs, err := parseAttribs(addAttribs)
	if err != nil {
		return err
	}

	if cfg.Safety.DryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "[DRY RUN] Would create subscriber %s <%s> in lists %v\n", addName, addEmail, addLists)
		return nil
	}

	if err := connect(ctx); err != nil {
		return err
	}

	sub, err := client.CreateSubscriber(ctx, addEmail, addName, addLists, preconfirm, attribs)
	if err != nil {
		return err
	}

	return printSubscribers(cmd.OutOrStdout(), []listmonk.Subscriber{*sub})
}

func runSubscribersDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 && len(deleteIDs) == 0 {
		return errors.New("nothing to delete: pass one or more emails or --id")
	}

	if err := connect(ctx); err != nil {
		return err
	}

	targets, err := resolveTargets(ctx, client, args, deleteIDs)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintln(out, "No subscribers found to delete.")
		return nil
	}

	formatter := format.NewConsoleFormatter()
	fmt.Fprint(out, formatter.FormatSubscribersToDelete(targets))

	if cfg.Safety.DryRun {
		fmt.Fprintln(out, "[DRY RUN] No subscribers were deleted.")
		return nil
	}

	if cfg.Safety.ConfirmDelete && !noConfirm {
		if !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete %d subscriber(s)?", len(targets))) {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
	}

	deleted, failed := deleteSubscribers(ctx, client, targets, cfg.Safety.DeleteConcurrency)

	fmt.Fprintf(out, "\n✓ Deleted %d subscriber(s)\n", deleted)
	if failed > 0 {
		return fmt.Errorf("failed to delete %d subscriber(s)", failed)
	}
	return nil
}

// resolveTargets looks up the subscribers to delete. Unknown emails and IDs are
// logged and skipped.
func resolveTargets(ctx context.Context, api listmonk.SubscriberAPI, emails []string, ids []int) ([]listmonk.Subscriber, error) {
	var targets []listmonk.Subscriber
	seen := make(map[int]bool)

	add := func(key string, sub *listmonk.Subscriber) {
		if sub == nil {
			logger.Warn().Str("subscriber", key).Msg("Subscriber not found, skipping")
			return
		}
		if !seen[sub.ID] {
			seen[sub.ID] = true
			targets = append(targets, *sub)
		}
	}

	for _, email := range emails {
		sub, err := api.SubscriberByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s: %w", email, err)
		}
		add(email, sub)
	}

	for _, id := range ids {
		sub, err := api.SubscriberByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to look up subscriber %d: %w", id, err)
		}
		add(strconv.Itoa(id), sub)
	}

	return targets, nil
}

// deleteSubscribers removes the targets with at most concurrency requests in
// flight. A failed delete does not stop the others.
func deleteSubscribers(ctx context.Context, api listmonk.SubscriberAPI, targets []listmonk.Subscriber, concurrency int) (deleted, failed int) {
	var ok, bad atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for _, sub := range targets {
		g.Go(func() error {
			removed, err := api.DeleteSubscriber(ctx, "", sub.ID)
			switch {
			case err != nil:
				logger.Error().Err(err).Str("email", sub.Email).Msg("Failed to delete subscriber")
				bad.Add(1)
			case !removed:
				logger.Warn().Str("email", sub.Email).Msg("listmonk did not confirm the deletion")
				bad.Add(1)
			default:
				logger.Info().Str("email", sub.Email).Int("id", sub.ID).Msg("Deleted subscriber")
				ok.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(ok.Load()), int(bad.Load())
}

func printSubscribers(w io.Writer, subs []listmonk.Subscriber) error {
	if cfg.Output.Format != format.Table {
		return format.Encode(w, cfg.Output.Format, subs)
	}

	formatter := format.NewConsoleFormatter()
	fmt.Fprint(w, formatter.FormatSubscriberList(subs, format.FormatOptions{ShowDetails: cfg.Output.ShowDetails}))
	return nil
}

// parseAttribs turns key=value pairs into an attribute map. Values that parse
// as numbers or booleans keep that type.
func parseAttribs(pairs []string) (map[string]any, error) {
	attribs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute '%s': expected key=value", pair)
		}

		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			attribs[key] = n
		} else if f, err := strconv.ParseFloat(value, 64); err == nil {
			attribs[key] = f
		} else if b, err := strconv.ParseBool(value); err == nil {
			attribs[key] = b
		} else {
			attribs[key] = value
		}
	}
	return attribs, nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	return strings.ToLower(strings.TrimSpace(scanner.Text())) == "y"
}
