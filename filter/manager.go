package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Manager holds named preset filters and a default expression
type Manager struct {
	compiler          Compiler
	filters           map[string]Filter
	defaultExpression string
	mu                sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithDefault sets the expression used when neither an expression nor a
// preset is requested
func WithDefault(expression string) ManagerOption {
	return func(m *Manager) {
		m.defaultExpression = expression
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: NewExprCompiler(WithCache(100)),
		filters:  make(map[string]Filter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers multiple filters at once. Nothing is registered if
// any expression fails to compile.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]Filter, len(filters))

	for name, expr := range filters {
		filter, err := m.compiler.Compile(expr)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (Filter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns all registered filter names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve picks the filter to apply. Priority: expression > preset > default.
// It returns nil when nothing is requested and no default is configured.
func (m *Manager) Resolve(expression, preset string) (Filter, error) {
	if expression != "" {
		return m.compiler.Compile(expression)
	}

	if preset != "" {
		if filter, ok := m.GetFilter(preset); ok {
			return filter, nil
		}
		return nil, fmt.Errorf("preset '%s' not found in config", preset)
	}

	if m.defaultExpression != "" {
		return m.compiler.Compile(m.defaultExpression)
	}

	return nil, nil
}
