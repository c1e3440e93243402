package listmonk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Lists retrieves every mailing list in a single request
func (c *Client) Lists(ctx context.Context) ([]MailingList, error) {
	s, err := c.validateState(true, true)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", "1")
	params.Set("per_page", strconv.Itoa(listsPerPage))

	body, err := c.doRequest(ctx, s, http.MethodGet, pathLists, params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get lists: %w", err)
	}

	page, err := decode[listsPage](body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Int("count", len(page.Results)).Msg("Retrieved lists from listmonk")

	if page.Results == nil {
		return []MailingList{}, nil
	}
	return page.Results, nil
}

// ListByID retrieves one mailing list. A missing list is reported as an
// *APIError whose IsNotFound returns true.
func (c *Client) ListByID(ctx context.Context, listID int) (*MailingList, error) {
	s, err := c.validateState(true, true)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, listByIDTimeout)
	defer cancel()

	body, err := c.doRequest(ctx, s, http.MethodGet, listPath(listID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get list %d: %w", listID, err)
	}

	list, err := decode[MailingList](body)
	if err != nil {
		return nil, err
	}
	return &list, nil
}
