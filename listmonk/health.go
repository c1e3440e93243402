package listmonk

import (
	"context"
	"net/http"
)

// Healthy reports whether the server answers the health endpoint with a truthy
// payload for the current session. Every failure is reported as false.
func (c *Client) Healthy(ctx context.Context) bool {
	s, err := c.validateState(true, true)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Skipping listmonk health check")
		return false
	}

	healthy, err := c.probe(ctx, s)
	if err != nil {
		c.logger.Debug().Err(err).Msg("listmonk health check failed")
	}
	return healthy
}

// probe calls the health endpoint with the given session
func (c *Client) probe(ctx context.Context, s session) (bool, error) {
	body, err := c.doRequest(ctx, s, http.MethodGet, pathHealth, nil, nil)
	if err != nil {
		return false, err
	}

	healthy, err := decode[bool](body)
	if err != nil {
		return false, err
	}
	return healthy, nil
}
