package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/s0up4200/listmonkctl/listmonk"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
}

// ConsoleFormatter provides console output formatting for lists and subscribers
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatLists formats mailing lists for console display
func (f *ConsoleFormatter) FormatLists(lists []listmonk.MailingList, options FormatOptions) string {
	if len(lists) == 0 {
		return "No lists found"
	}

	var sb strings.Builder
	writeHeader(&sb, "List", len(lists), "")

	for i, list := range lists {
		isLast := i == len(lists)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── %s (ID: %d)\n", prefix, list.Name, list.ID)

		if options.ShowDetails {
			fmt.Fprintf(&sb, "%sType: %s | Opt-in: %s | Subscribers: %d\n", indent, list.Type, list.Optin, list.SubscriberCount)
			if len(list.Tags) > 0 {
				fmt.Fprintf(&sb, "%sTags: %s\n", indent, strings.Join(list.Tags, ", "))
			}
			if list.Description != "" {
				fmt.Fprintf(&sb, "%s%s\n", indent, list.Description)
			}
			if len(list.SubscriberStatuses) > 0 {
				fmt.Fprintf(&sb, "%sStatuses: %s\n", indent, formatCounts(list.SubscriberStatuses))
			}
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatSubscriberList formats subscribers for console display
func (f *ConsoleFormatter) FormatSubscriberList(subs []listmonk.Subscriber, options FormatOptions) string {
	if len(subs) == 0 {
		return "No subscribers found"
	}

	var sb strings.Builder
	writeHeader(&sb, "Subscriber", len(subs), "")

	for i, sub := range subs {
		isLast := i == len(subs)-1
		f.formatSubscriber(&sb, sub, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatSubscribersToDelete formats subscribers for deletion confirmation
func (f *ConsoleFormatter) FormatSubscribersToDelete(subs []listmonk.Subscriber) string {
	if len(subs) == 0 {
		return ""
	}

	var sb strings.Builder
	writeHeader(&sb, "Subscriber", len(subs), " to be deleted")

	for i, sub := range subs {
		isLast := i == len(subs)-1
		f.formatSubscriber(&sb, sub, isLast, FormatOptions{})
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatSubscriber(sb *strings.Builder, sub listmonk.Subscriber, isLast bool, options FormatOptions) {
	prefix, indent := branch(isLast)

	name := sub.Name
	if name == "" {
		name = "(no name)"
	}
	fmt.Fprintf(sb, "%s── %s <%s>", prefix, name, sub.Email)
	if sub.Status != "" && sub.Status != listmonk.SubscriberStatusEnabled {
		fmt.Fprintf(sb, " [%s]", strings.ToUpper(string(sub.Status)))
	}
	sb.WriteString("\n")

	if !options.ShowDetails {
		return
	}

	fmt.Fprintf(sb, "%sID: %d | UUID: %s\n", indent, sub.ID, sub.UUID)

	if len(sub.Lists) > 0 {
		parts := make([]string, 0, len(sub.Lists))
		for _, l := range sub.Lists {
			parts = append(parts, fmt.Sprintf("%s (%s)", l.Name, l.SubscriptionStatus))
		}
		fmt.Fprintf(sb, "%sLists: %s\n", indent, strings.Join(parts, ", "))
	}

	if len(sub.Attribs) > 0 {
		keys := make([]string, 0, len(sub.Attribs))
		for k := range sub.Attribs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, sub.Attribs[k]))
		}
		fmt.Fprintf(sb, "%sAttribs: %s\n", indent, strings.Join(parts, ", "))
	}

	var dateParts []string
	if !sub.CreatedAt.IsZero() {
		dateParts = append(dateParts, fmt.Sprintf("Created: %s", sub.CreatedAt.Format("2006-01-02")))
	}
	if !sub.UpdatedAt.IsZero() && !sub.UpdatedAt.Equal(sub.CreatedAt) {
		dateParts = append(dateParts, fmt.Sprintf("Updated: %s", sub.UpdatedAt.Format("2006-01-02")))
	}
	if len(dateParts) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(dateParts, " | "))
	}
}

func writeHeader(sb *strings.Builder, noun string, count int, suffix string) {
	sb.WriteString("\n" + noun)
	if count != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(sb, "%s (%d):\n\n", suffix, count)
}

func branch(isLast bool) (prefix, indent string) {
	if isLast {
		return "╰", "    "
	}
	return "├", "│   "
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
