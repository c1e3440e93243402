package listmonk

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient(zerolog.Nop())

	assert.Equal(t, "", client.BaseURL())
	assert.Equal(t, StateUnauthenticated, client.State())
	assert.Equal(t, DefaultPageSize, client.pageSize)
	assert.Contains(t, client.userAgent, "listmonk-go/"+Version)
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client := NewClient(logger, WithTimeout(5*time.Second))
		assert.Equal(t, 5*time.Second, client.http.GetClient().Timeout)
	})

	t.Run("with page size", func(t *testing.T) {
		client := NewClient(logger, WithPageSize(50))
		assert.Equal(t, 50, client.pageSize)

		client = NewClient(logger, WithPageSize(0))
		assert.Equal(t, DefaultPageSize, client.pageSize)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client := NewClient(logger, WithHTTPClient(customClient))
		assert.Same(t, customClient, client.http.GetClient())
	})

	t.Run("with user agent", func(t *testing.T) {
		client := NewClient(logger, WithUserAgent("newsletter-sync/2.0"))
		assert.Equal(t, "newsletter-sync/2.0", client.userAgent)
	})
}

func TestSetBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "http://localhost:9000", want: "http://localhost:9000"},
		{name: "surrounding whitespace", input: "  http://localhost:9000 \n", want: "http://localhost:9000"},
		{name: "trailing slash", input: "https://lists.example.com/", want: "https://lists.example.com"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: " \t ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(zerolog.Nop())
			err := client.SetBaseURL(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConfiguration)
				assert.Equal(t, "", client.BaseURL())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.BaseURL())
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		fake := newFakeListmonk()
		client := newTestClient(t, fake)

		assert.Equal(t, StateAuthenticated, client.State())
		assert.Equal(t, testUser, client.Username())
		assert.True(t, client.Healthy(ctx))

		probes := fake.requestsTo(http.MethodGet, pathHealth)
		require.NotEmpty(t, probes)
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte(testUser+":"+testPassword))
		assert.Equal(t, want, probes[0].Header.Get("Authorization"))
	})

	failures := []struct {
		name  string
		setup func(f *fakeListmonk)
	}{
		{name: "wrong password", setup: func(f *fakeListmonk) { f.password = "other" }},
		{name: "falsy health payload", setup: func(f *fakeListmonk) { f.healthy = false }},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeListmonk()
			tt.setup(fake)
			server := httptest.NewServer(fake)
			defer server.Close()

			client := NewClient(zerolog.Nop())
			require.NoError(t, client.SetBaseURL(server.URL))

			ok, err := client.Login(ctx, testUser, testPassword)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, StateFailed, client.State())
			assert.Empty(t, client.authHeader)

			_, err = client.Lists(ctx)
			assert.ErrorIs(t, err, ErrPrecondition)
		})
	}

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := NewClient(zerolog.Nop())
		require.NoError(t, client.SetBaseURL(url))

		ok, err := client.Login(ctx, testUser, testPassword)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, client.authHeader)
	})

	t.Run("failed login clears a previous session", func(t *testing.T) {
		fake := newFakeListmonk()
		client := newTestClient(t, fake)

		ok, err := client.Login(ctx, testUser, "wrong")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, client.authHeader)
		assert.Empty(t, client.Username())

		_, err = client.SubscriberByID(ctx, 1)
		assert.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("missing credentials", func(t *testing.T) {
		client := NewClient(zerolog.Nop())
		require.NoError(t, client.SetBaseURL("http://localhost:9000"))

		_, err := client.Login(ctx, "", testPassword)
		assert.ErrorIs(t, err, ErrConfiguration)

		_, err = client.Login(ctx, testUser, "")
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.Equal(t, StateUnauthenticated, client.State())
	})

	t.Run("missing base URL", func(t *testing.T) {
		client := NewClient(zerolog.Nop())
		_, err := client.Login(ctx, testUser, testPassword)
		assert.ErrorIs(t, err, ErrPrecondition)
	})
}

func TestRequestHeaders(t *testing.T) {
	fake := newFakeListmonk()
	client := newTestClient(t, fake, WithUserAgent("listmonk-go-test"))

	_, err := client.Lists(context.Background())
	require.NoError(t, err)

	reqs := fake.requestsTo(http.MethodGet, pathLists)
	require.Len(t, reqs, 1)
	assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, "listmonk-go-test", reqs[0].Header.Get("User-Agent"))
	assert.Equal(t, client.authHeader, reqs[0].Header.Get("Authorization"))
}

func TestPreconditions(t *testing.T) {
	ctx := context.Background()

	calls := map[string]func(c *Client) error{
		"Lists": func(c *Client) error {
			_, err := c.Lists(ctx)
			return err
		},
		"ListByID": func(c *Client) error {
			_, err := c.ListByID(ctx, 1)
			return err
		},
		"Subscribers": func(c *Client) error {
			_, err := c.Subscribers(ctx, SubscriberQuery{})
			return err
		},
		"SubscriberByEmail": func(c *Client) error {
			_, err := c.SubscriberByEmail(ctx, "a@b.com")
			return err
		},
		"SubscriberByID": func(c *Client) error {
			_, err := c.SubscriberByID(ctx, 1)
			return err
		},
		"SubscriberByUUID": func(c *Client) error {
			_, err := c.SubscriberByUUID(ctx, "abc")
			return err
		},
		"CreateSubscriber": func(c *Client) error {
			_, err := c.CreateSubscriber(ctx, "a@b.com", "A", nil, false, nil)
			return err
		},
		"DeleteSubscriber": func(c *Client) error {
			_, err := c.DeleteSubscriber(ctx, "a@b.com", 0)
			return err
		},
	}

	for name, call := range calls {
		t.Run(name+" without base URL", func(t *testing.T) {
			client := NewClient(zerolog.Nop())
			assert.ErrorIs(t, call(client), ErrPrecondition)
		})

		t.Run(name+" without login", func(t *testing.T) {
			client := NewClient(zerolog.Nop())
			require.NoError(t, client.SetBaseURL("http://localhost:9000"))
			assert.ErrorIs(t, call(client), ErrPrecondition)
		})
	}

	t.Run("Healthy without login", func(t *testing.T) {
		client := NewClient(zerolog.Nop())
		require.NoError(t, client.SetBaseURL("http://localhost:9000"))
		assert.False(t, client.Healthy(ctx))
	})
}

func TestAuthState(t *testing.T) {
	tests := []struct {
		state    AuthState
		expected string
	}{
		{StateUnauthenticated, "UNAUTHENTICATED"},
		{StateProbing, "PROBING"},
		{StateAuthenticated, "AUTHENTICATED"},
		{StateFailed, "FAILED"},
		{AuthState(42), "UNAUTHENTICATED"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Not Found"}
		assert.Equal(t, "listmonk API error: status 404: Not Found", err.Error())
	})

	t.Run("matches ErrTransport when wrapped", func(t *testing.T) {
		var err error = &APIError{StatusCode: 500}
		wrapped := errors.Join(errors.New("context"), err)
		assert.ErrorIs(t, wrapped, ErrTransport)
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{401, true},
			{403, true},
			{404, false},
			{500, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.expected, err.IsUnauthorized())
			assert.Equal(t, tt.code == 404, err.IsNotFound())
		}
	})

	t.Run("message taken from body", func(t *testing.T) {
		apiErr := newAPIError(http.StatusBadRequest, []byte(`{"message":"invalid email"}`))
		assert.Equal(t, "invalid email", apiErr.Message)

		apiErr = newAPIError(http.StatusBadGateway, []byte(`<html>bad gateway</html>`))
		assert.Equal(t, "Bad Gateway", apiErr.Message)
		assert.Equal(t, "<html>bad gateway</html>", apiErr.Body)
	})
}
