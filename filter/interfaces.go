package filter

import (
	"github.com/s0up4200/listmonkctl/listmonk"
)

// Filter defines the basic interface for subscriber filters
type Filter interface {
	// Evaluate checks if a subscriber matches the filter criteria
	Evaluate(sub listmonk.Subscriber) bool

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (Filter, error)
}
