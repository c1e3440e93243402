package listmonk

import (
	"strconv"
	"strings"
	"time"
)

// SubscriberStatus is the account-level status of a subscriber
type SubscriberStatus string

const (
	// SubscriberStatusEnabled is an active subscriber
	SubscriberStatusEnabled SubscriberStatus = "enabled"
	// SubscriberStatusDisabled is a subscriber excluded from campaigns
	SubscriberStatusDisabled SubscriberStatus = "disabled"
	// SubscriberStatusBlocklisted is a subscriber blocked from all lists
	SubscriberStatusBlocklisted SubscriberStatus = "blocklisted"
)

// SubscriptionStatus is the status of a single list membership
type SubscriptionStatus string

const (
	SubscriptionStatusUnconfirmed  SubscriptionStatus = "unconfirmed"
	SubscriptionStatusConfirmed    SubscriptionStatus = "confirmed"
	SubscriptionStatusUnsubscribed SubscriptionStatus = "unsubscribed"
)

// MailingList represents a listmonk list
type MailingList struct {
	ID                 int            `json:"id" yaml:"id"`
	UUID               string         `json:"uuid" yaml:"uuid"`
	Name               string         `json:"name" yaml:"name"`
	Type               string         `json:"type" yaml:"type"`
	Optin              string         `json:"optin" yaml:"optin"`
	Tags               []string       `json:"tags" yaml:"tags,omitempty"`
	Description        string         `json:"description,omitempty" yaml:"description,omitempty"`
	SubscriberCount    int            `json:"subscriber_count" yaml:"subscriber_count"`
	SubscriberStatuses map[string]int `json:"subscriber_statuses,omitempty" yaml:"subscriber_statuses,omitempty"`
	CreatedAt          time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" yaml:"updated_at"`
}

// Membership is a list a subscriber belongs to, with the subscription status
type Membership struct {
	ID                 int                `json:"id" yaml:"id"`
	UUID               string             `json:"uuid" yaml:"uuid"`
	Name               string             `json:"name" yaml:"name"`
	Type               string             `json:"type" yaml:"type"`
	Optin              string             `json:"optin" yaml:"optin"`
	Tags               []string           `json:"tags" yaml:"tags,omitempty"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status" yaml:"subscription_status"`
	CreatedAt          time.Time          `json:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" yaml:"updated_at"`
}

// Subscriber represents a listmonk subscriber
type Subscriber struct {
	ID        int              `json:"id" yaml:"id"`
	UUID      string           `json:"uuid" yaml:"uuid"`
	Email     string           `json:"email" yaml:"email"`
	Name      string           `json:"name" yaml:"name"`
	Status    SubscriberStatus `json:"status" yaml:"status"`
	Lists     []Membership     `json:"lists" yaml:"lists,omitempty"`
	Attribs   map[string]any   `json:"attribs" yaml:"attribs,omitempty"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" yaml:"updated_at"`
}

// InList reports whether the subscriber is a member of the list with the given
// name (case-insensitive) or numeric ID
func (s *Subscriber) InList(nameOrID string) bool {
	for _, l := range s.Lists {
		if strings.EqualFold(l.Name, nameOrID) || strconv.Itoa(l.ID) == nameOrID {
			return true
		}
	}
	return false
}

// SubscribedTo reports whether the subscriber has a membership in the named list
// that has not been unsubscribed
func (s *Subscriber) SubscribedTo(name string) bool {
	for _, l := range s.Lists {
		if strings.EqualFold(l.Name, name) && l.SubscriptionStatus != SubscriptionStatusUnsubscribed {
			return true
		}
	}
	return false
}

// CreateSubscriberRequest is the body of a subscriber create call
type CreateSubscriberRequest struct {
	Email                   string           `json:"email"`
	Name                    string           `json:"name"`
	Status                  SubscriberStatus `json:"status"`
	Lists                   []int            `json:"lists"`
	PreconfirmSubscriptions bool             `json:"preconfirm_subscriptions"`
	Attribs                 map[string]any   `json:"attribs"`
}

// SubscriberQuery narrows a subscriber listing
type SubscriberQuery struct {
	// Query is a listmonk SQL expression, e.g. "subscribers.attribs->>'city' = 'Berlin'"
	Query string
	// ListID restricts results to one list when non-zero
	ListID int
}

// Page is one page of a paginated subscriber listing
type Page struct {
	Results []Subscriber `json:"results"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

// HasMore reports whether pages beyond this one remain, given the page size
// the client requested
func (p *Page) HasMore(pageSize int) bool {
	return p.Page*pageSize < p.Total
}

// envelope is the {"data": ...} wrapper every listmonk response uses
type envelope[T any] struct {
	Data T `json:"data"`
}

// listsPage is the data payload of the list collection endpoint
type listsPage struct {
	Results []MailingList `json:"results"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}
