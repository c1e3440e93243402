// Package listmonk provides a client for the listmonk mailing-list HTTP API.
//
// A Client holds one session: the server base URL and, after a successful
// login, a Basic authorization header sent with every request.
//
// # Usage
//
//	client := listmonk.NewClient(logger, listmonk.WithTimeout(time.Minute))
//	if err := client.SetBaseURL("https://lists.example.com"); err != nil {
//		log.Fatal(err)
//	}
//
//	ok, err := client.Login(ctx, "api-user", "api-token")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !ok {
//		log.Fatal("credentials rejected")
//	}
//
//	// All subscribers of list 3, every page
//	subs, err := client.Subscribers(ctx, listmonk.SubscriberQuery{ListID: 3})
//
//	// Or page by page, stopping early
//	for page, err := range client.SubscriberPages(ctx, listmonk.SubscriberQuery{}) {
//		if err != nil {
//			return err
//		}
//		if done(page.Results) {
//			break
//		}
//	}
//
// # Login
//
// listmonk has no login endpoint. Login computes the header for the given
// credentials and calls the health endpoint with it; the header is installed
// only if that probe succeeds. A rejected probe returns false and a nil error.
//
// # Error Handling
//
//   - ErrConfiguration: empty base URL, username or password
//   - ErrPrecondition: a call made before SetBaseURL or a successful Login
//   - ErrValidation: empty email/name on create, nothing to delete
//   - ErrTransport: network failures and *APIError (any non-2xx response)
//
// Lookups that match nothing return nil, not an error.
package listmonk
