package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/listmonkctl/listmonk"
)

// ExprFilter represents a compiled expr filter
type ExprFilter struct {
	program *vm.Program
	expr    string
}

// CompileExprFilter compiles an expr filter expression. The expression is type
// checked against the subscriber environment and must produce a bool.
func CompileExprFilter(expression string) (*ExprFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(subscriberEnv(listmonk.Subscriber{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	}

	return &ExprFilter{
		program: program,
		expr:    expression,
	}, nil
}

// Match evaluates the filter against a subscriber and reports runtime errors
func (f *ExprFilter) Match(sub listmonk.Subscriber) (bool, error) {
	result, err := expr.Run(f.program, subscriberEnv(sub))
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, Email: sub.Email, Reason: err.Error(), Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{Expression: f.expr, Email: sub.Email, Reason: fmt.Sprintf("result is %T, not bool", result)}
	}
	return matched, nil
}

// Evaluate evaluates the filter against a subscriber. Evaluation errors count
// as no match.
func (f *ExprFilter) Evaluate(sub listmonk.Subscriber) bool {
	matched, err := f.Match(sub)
	if err != nil {
		return false
	}
	return matched
}

// Expression returns the original expression
func (f *ExprFilter) Expression() string {
	return f.expr
}

// String returns the original expression
func (f *ExprFilter) String() string {
	return f.expr
}

// subscriberEnv exposes a subscriber's fields and helper functions to expressions
func subscriberEnv(sub listmonk.Subscriber) map[string]any {
	listNames := make([]string, 0, len(sub.Lists))
	for _, l := range sub.Lists {
		listNames = append(listNames, l.Name)
	}

	attribs := sub.Attribs
	if attribs == nil {
		attribs = map[string]any{}
	}

	return map[string]any{
		// Subscriber data
		"Subscriber": sub,
		"ID":         sub.ID,
		"UUID":       sub.UUID,
		"Email":      sub.Email,
		"Name":       sub.Name,
		"Status":     string(sub.Status),
		"CreatedAt":  sub.CreatedAt,
		"UpdatedAt":  sub.UpdatedAt,
		"Attribs":    attribs,
		"Lists":      listNames,

		// Membership helpers
		"inList": func(nameOrID string) bool {
			return sub.InList(nameOrID)
		},
		"subscribedTo": func(name string) bool {
			return sub.SubscribedTo(name)
		},

		// Attribute helpers
		"hasAttrib": func(key string) bool {
			_, ok := attribs[key]
			return ok
		},
		"attrib": func(key string) any {
			return attribs[key]
		},
		"domain": func() string {
			_, d, _ := strings.Cut(sub.Email, "@")
			return strings.ToLower(d)
		},

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
	}
}
