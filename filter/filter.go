// Package filter selects subscribers client-side with expr-lang expressions.
//
// Expressions see the subscriber fields (Email, Name, Status, UUID, ID,
// CreatedAt, UpdatedAt, Attribs, Lists) and the helpers inList, subscribedTo,
// hasAttrib, attrib, domain, daysSince, daysAgo, monthsAgo, yearsAgo and
// parseDate, for example:
//
//	Status == "enabled" and subscribedTo("Newsletter") and CreatedAt < daysAgo(30)
//	domain() == "example.com" or Attribs.city == "Berlin"
package filter

import (
	"github.com/s0up4200/listmonkctl/listmonk"
)

// Apply returns the subscribers matched by f, in their original order
func Apply(f Filter, subs []listmonk.Subscriber) []listmonk.Subscriber {
	matched := make([]listmonk.Subscriber, 0, len(subs))
	for _, sub := range subs {
		if f.Evaluate(sub) {
			matched = append(matched, sub)
		}
	}
	return matched
}

// ParseAndCreateFilter compiles an expression into a filter
func ParseAndCreateFilter(expression string) (Filter, error) {
	return CompileExprFilter(expression)
}
