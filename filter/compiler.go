package filter

// ExprCompiler compiles expressions and remembers the most recent programs
type ExprCompiler struct {
	cache *lruCache
}

// CompilerOption configures an ExprCompiler
type CompilerOption func(*ExprCompiler)

// WithCache sets the number of compiled programs kept
func WithCache(size int) CompilerOption {
	return func(c *ExprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// NewExprCompiler creates a compiler with a 100 entry cache
func NewExprCompiler(opts ...CompilerOption) *ExprCompiler {
	c := &ExprCompiler{cache: newLRUCache(100)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile implements Compiler
func (c *ExprCompiler) Compile(expression string) (Filter, error) {
	if f, ok := c.cache.Get(expression); ok {
		return f, nil
	}

	f, err := CompileExprFilter(expression)
	if err != nil {
		return nil, err
	}

	c.cache.Put(expression, f)
	return f, nil
}

// Clear removes all cached programs
func (c *ExprCompiler) Clear() {
	c.cache.Clear()
}

// Size returns the number of cached programs
func (c *ExprCompiler) Size() int {
	return c.cache.Size()
}
