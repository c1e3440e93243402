package listmonk

import (
	"context"
	"iter"
)

// API defines the interface for listmonk operations
type API interface {
	// SetBaseURL sets the server root used by every request
	SetBaseURL(baseURL string) error

	// Login verifies credentials with a health probe and installs them on success
	Login(ctx context.Context, username, password string) (bool, error)

	// Healthy reports whether the server answers the health endpoint
	Healthy(ctx context.Context) bool

	ListAPI
	SubscriberAPI
}

// ListAPI provides read access to mailing lists
type ListAPI interface {
	Lists(ctx context.Context) ([]MailingList, error)
	ListByID(ctx context.Context, listID int) (*MailingList, error)
}

// SubscriberAPI provides subscriber lookup, listing, creation and deletion
type SubscriberAPI interface {
	// Subscribers fetches every matching subscriber across all pages
	Subscribers(ctx context.Context, q SubscriberQuery) ([]Subscriber, error)

	// SubscriberPages yields matching subscribers one page at a time
	SubscriberPages(ctx context.Context, q SubscriberQuery) iter.Seq2[*Page, error]

	SubscriberByEmail(ctx context.Context, email string) (*Subscriber, error)
	SubscriberByID(ctx context.Context, subscriberID int) (*Subscriber, error)
	SubscriberByUUID(ctx context.Context, subscriberUUID string) (*Subscriber, error)

	CreateSubscriber(ctx context.Context, email, name string, listIDs []int, preconfirm bool, attribs map[string]any) (*Subscriber, error)
	DeleteSubscriber(ctx context.Context, email string, subscriberID int) (bool, error)
}
