package listmonk

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	// DefaultPageSize is the number of subscribers fetched per page when aggregating
	DefaultPageSize = 500

	listsPerPage    = 1000000
	lookupPerPage   = 100
	listByIDTimeout = 30 * time.Second
)

// Version is reported in the User-Agent header
var Version = "0.1.0"

func defaultUserAgent() string {
	return fmt.Sprintf("listmonk-go/%s (%s; %s; %s)", Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// Client represents a listmonk API session
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	username   string
	authHeader string
	state      AuthState

	http      *resty.Client
	userAgent string
	pageSize  int
	logger    zerolog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a new listmonk client. The client has no base URL and no
// credentials until SetBaseURL and Login are called.
func NewClient(logger zerolog.Logger, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		http:      newTransport(o, logger),
		userAgent: o.userAgent,
		pageSize:  o.pageSize,
		logger:    logger,
		state:     StateUnauthenticated,
	}
}

// SetBaseURL sets the root address prefixed to every request path
func (c *Client) SetBaseURL(baseURL string) error {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return configError("URL must not be empty")
	}

	c.mu.Lock()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.mu.Unlock()
	return nil
}

// BaseURL returns the configured base URL, or "" when unset
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// Username returns the user of the current authenticated session
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// State returns the current login state
func (c *Client) State() AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Login checks the credentials against the health endpoint and installs the
// authorization header only when the probe succeeds. A rejected probe is
// reported as false with a nil error.
func (c *Client) Login(ctx context.Context, username, password string) (bool, error) {
	if username == "" {
		return false, configError("username cannot be empty")
	}
	if password == "" {
		return false, configError("password cannot be empty")
	}

	c.mu.Lock()
	baseURL := c.baseURL
	if baseURL == "" {
		c.mu.Unlock()
		return false, preconditionError("URL base must be set to proceed")
	}
	c.state = StateProbing
	c.mu.Unlock()

	header := basicAuth(username, password)
	healthy, err := c.probe(ctx, session{baseURL: baseURL, authHeader: header})

	c.mu.Lock()
	defer c.mu.Unlock()

	if !healthy {
		c.authHeader = ""
		c.username = ""
		c.state = StateFailed
		c.logger.Warn().Err(err).Str("username", username).Msg("listmonk login rejected")
		return false, nil
	}

	c.authHeader = header
	c.username = username
	c.state = StateAuthenticated
	c.logger.Debug().Str("username", username).Str("url", baseURL).Msg("Logged in to listmonk")
	return true, nil
}

// validateState returns a snapshot of the session, or ErrPrecondition when the
// base URL or the authorization header is required but missing
func (c *Client) validateState(requireURL, requireAuth bool) (session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if requireURL && c.baseURL == "" {
		return session{}, preconditionError("URL base must be set to proceed")
	}
	if requireAuth && c.authHeader == "" {
		return session{}, preconditionError("you must login before proceeding")
	}

	return session{baseURL: c.baseURL, authHeader: c.authHeader}, nil
}
