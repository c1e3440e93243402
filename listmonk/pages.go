package listmonk

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
)

// Subscribers fetches every subscriber matching q, page by page, and returns
// them in server order (most recently updated first).
func (c *Client) Subscribers(ctx context.Context, q SubscriberQuery) ([]Subscriber, error) {
	all := []Subscriber{}

	for page, err := range c.SubscriberPages(ctx, q) {
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)

		c.logger.Debug().
			Int("page", page.Page).
			Int("count", len(page.Results)).
			Int("so_far", len(all)).
			Bool("more", page.HasMore(c.pageSize)).
			Msg("Retrieved subscribers from listmonk")
	}

	return all, nil
}

// SubscriberPages yields one page of matching subscribers at a time. Iteration
// stops after the page for which page*pageSize reaches the reported total, on
// the first error, or when the consumer breaks out of the loop.
func (c *Client) SubscriberPages(ctx context.Context, q SubscriberQuery) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		s, err := c.validateState(true, true)
		if err != nil {
			yield(nil, err)
			return
		}

		for pageNum := 1; ; pageNum++ {
			page, err := c.fetchSubscriberPage(ctx, s, pageNum, q)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) {
				return
			}
			if !page.HasMore(c.pageSize) {
				return
			}
		}
	}
}

// fetchSubscriberPage fetches one page of subscribers ordered by updated_at DESC
func (c *Client) fetchSubscriberPage(ctx context.Context, s session, pageNum int, q SubscriberQuery) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(pageNum))
	params.Set("per_page", strconv.Itoa(c.pageSize))
	params.Set("order_by", "updated_at")
	params.Set("order", "DESC")
	if q.ListID != 0 {
		params.Set("list_id", strconv.Itoa(q.ListID))
	}
	if q.Query != "" {
		params.Set("query", q.Query)
	}

	body, err := c.doRequest(ctx, s, http.MethodGet, pathSubscribers, params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscribers page %d: %w", pageNum, err)
	}

	page, err := decode[Page](body)
	if err != nil {
		return nil, err
	}

	// the continuation check uses the page we asked for, not the echoed one
	page.Page = pageNum
	page.PerPage = c.pageSize
	return &page, nil
}
