package listmonk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SubscriberByEmail returns the first subscriber with the given email, or nil
func (c *Client) SubscriberByEmail(ctx context.Context, email string) (*Subscriber, error) {
	return c.findSubscriber(ctx, "subscribers.email="+quoteLiteral(email))
}

// SubscriberByID returns the subscriber with the given ID, or nil
func (c *Client) SubscriberByID(ctx context.Context, subscriberID int) (*Subscriber, error) {
	return c.findSubscriber(ctx, "subscribers.id="+strconv.Itoa(subscriberID))
}

// SubscriberByUUID returns the subscriber with the given UUID, or nil
func (c *Client) SubscriberByUUID(ctx context.Context, subscriberUUID string) (*Subscriber, error) {
	return c.findSubscriber(ctx, "subscribers.uuid="+quoteLiteral(subscriberUUID))
}

// findSubscriber runs a single-field query and returns the first match
func (c *Client) findSubscriber(ctx context.Context, query string) (*Subscriber, error) {
	s, err := c.validateState(true, true)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", "1")
	params.Set("per_page", strconv.Itoa(lookupPerPage))
	params.Set("query", query)

	body, err := c.doRequest(ctx, s, http.MethodGet, pathSubscribers, params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}

	page, err := decode[Page](body)
	if err != nil {
		return nil, err
	}

	if len(page.Results) == 0 {
		return nil, nil
	}
	return &page.Results[0], nil
}

// CreateSubscriber creates an enabled subscriber. The email is lowercased and
// trimmed and the name trimmed before validation.
func (c *Client) CreateSubscriber(ctx context.Context, email, name string, listIDs []int, preconfirm bool, attribs map[string]any) (*Subscriber, error) {
	s, err := c.validateState(true, true)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" {
		return nil, validationError("email is required")
	}
	if name == "" {
		return nil, validationError("name is required")
	}

	if listIDs == nil {
		listIDs = []int{}
	}
	if attribs == nil {
		attribs = map[string]any{}
	}

	req := CreateSubscriberRequest{
		Email:                   email,
		Name:                    name,
		Status:                  SubscriberStatusEnabled,
		Lists:                   listIDs,
		PreconfirmSubscriptions: preconfirm,
		Attribs:                 attribs,
	}

	body, err := c.doRequest(ctx, s, http.MethodPost, pathSubscribers, nil, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriber %s: %w", email, err)
	}

	sub, err := decode[Subscriber](body)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Int("subscriber_id", sub.ID).Str("email", sub.Email).Msg("Created subscriber")
	return &sub, nil
}

// DeleteSubscriber deletes a subscriber by ID, or by email when subscriberID is
// zero. It returns false without deleting when the email matches no subscriber.
func (c *Client) DeleteSubscriber(ctx context.Context, email string, subscriberID int) (bool, error) {
	s, err := c.validateState(true, true)
	if err != nil {
		return false, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" && subscriberID == 0 {
		return false, validationError("email or subscriber ID is required")
	}

	if subscriberID == 0 {
		sub, err := c.SubscriberByEmail(ctx, email)
		if err != nil {
			return false, err
		}
		if sub == nil {
			c.logger.Debug().Str("email", email).Msg("No subscriber to delete")
			return false, nil
		}
		subscriberID = sub.ID
	}

	body, err := c.doRequest(ctx, s, http.MethodDelete, subscriberPath(subscriberID), nil, nil)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscriber %d: %w", subscriberID, err)
	}

	deleted, err := decode[bool](body)
	if err != nil {
		return false, err
	}

	c.logger.Info().Int("subscriber_id", subscriberID).Bool("deleted", deleted).Msg("Deleted subscriber")
	return deleted, nil
}

// quoteLiteral renders v as a single-quoted SQL string literal for listmonk's
// query parameter
func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
