package listmonk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// newTransport builds the resty client shared by every request of a Client
func newTransport(o clientOptions, logger zerolog.Logger) *resty.Client {
	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
	}

	if o.timeout > 0 {
		rc.SetTimeout(o.timeout)
	}
	rc.SetLogger(restyLogger{logger: logger})

	return rc
}

// doRequest performs an HTTP request with the session's headers and returns the
// raw body of a 2xx response
func (c *Client) doRequest(ctx context.Context, s session, method, endpoint string, params url.Values, body any) ([]byte, error) {
	requestURL := s.baseURL + endpoint

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", c.userAgent)
	if s.authHeader != "" {
		req.SetHeader("Authorization", s.authHeader)
	}
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}
	if body != nil {
		req.SetBody(body)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making listmonk API request")

	resp, err := req.Execute(method, requestURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, endpoint, err)
	}

	if !resp.IsSuccess() {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}

	return resp.Body(), nil
}

// newAPIError extracts listmonk's {"message": "..."} error body when present
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
		Body:       string(body),
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		apiErr.Message = payload.Message
	}

	return apiErr
}

// decode unwraps the {"data": ...} envelope
func decode[T any](body []byte) (T, error) {
	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to parse response: %w", err)
	}
	return env.Data, nil
}

// restyLogger routes resty's internal warnings onto zerolog
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Str("component", "resty").Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Str("component", "resty").Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Str("component", "resty").Msgf(strings.TrimSpace(format), v...)
}
