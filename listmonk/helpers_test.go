package listmonk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "api"
	testPassword = "secret"
)

// fakeListmonk is an in-memory stand-in for the listmonk HTTP API
type fakeListmonk struct {
	mu sync.Mutex

	username string
	password string
	healthy  bool
	lists    []MailingList
	subs     []Subscriber

	requests []*http.Request
	created  []CreateSubscriberRequest
	deleted  []int
	nextID   int
}

func newFakeListmonk() *fakeListmonk {
	return &fakeListmonk{
		username: testUser,
		password: testPassword,
		healthy:  true,
		nextID:   1000,
	}
}

func (f *fakeListmonk) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Clone(context.Background()))

	user, pass, ok := r.BasicAuth()
	if !ok || user != f.username || pass != f.password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid API credentials"})
		return
	}

	switch {
	case r.URL.Path == pathHealth:
		writeJSON(w, http.StatusOK, map[string]any{"data": f.healthy})

	case r.URL.Path == pathLists && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"results":  f.lists,
			"total":    len(f.lists),
			"page":     1,
			"per_page": listsPerPage,
		}})

	case strings.HasPrefix(r.URL.Path, pathLists+"/") && r.Method == http.MethodGet:
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, pathLists+"/"))
		for _, l := range f.lists {
			if l.ID == id {
				writeJSON(w, http.StatusOK, map[string]any{"data": l})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "List not found."})

	case r.URL.Path == pathSubscribers && r.Method == http.MethodGet:
		f.serveSubscribers(w, r)

	case r.URL.Path == pathSubscribers && r.Method == http.MethodPost:
		var req CreateSubscriberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		f.created = append(f.created, req)
		f.nextID++
		sub := Subscriber{ID: f.nextID, UUID: "uuid-" + strconv.Itoa(f.nextID), Email: req.Email, Name: req.Name, Status: req.Status, Attribs: req.Attribs}
		for _, id := range req.Lists {
			sub.Lists = append(sub.Lists, Membership{ID: id, SubscriptionStatus: SubscriptionStatusUnconfirmed})
		}
		f.subs = append(f.subs, sub)
		writeJSON(w, http.StatusOK, map[string]any{"data": sub})

	case strings.HasPrefix(r.URL.Path, pathSubscribers+"/") && r.Method == http.MethodDelete:
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, pathSubscribers+"/"))
		f.deleted = append(f.deleted, id)
		writeJSON(w, http.StatusOK, map[string]any{"data": true})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func (f *fakeListmonk) serveSubscribers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	matched := make([]Subscriber, 0, len(f.subs))
	for _, s := range f.subs {
		if matchesQuery(s, q.Get("query")) && matchesList(s, q.Get("list_id")) {
			matched = append(matched, s)
		}
	}

	start := min((page-1)*perPage, len(matched))
	end := min(start+perPage, len(matched))

	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"results":  matched[start:end],
		"total":    len(matched),
		"page":     page,
		"per_page": perPage,
	}})
}

// matchesQuery understands the single-field lookups the client sends
func matchesQuery(s Subscriber, query string) bool {
	if query == "" {
		return true
	}
	field, value, ok := strings.Cut(query, "=")
	if !ok {
		return true
	}
	if strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") && len(value) >= 2 {
		value = strings.ReplaceAll(value[1:len(value)-1], "''", "'")
	}
	switch field {
	case "subscribers.email":
		return s.Email == value
	case "subscribers.uuid":
		return s.UUID == value
	case "subscribers.id":
		return strconv.Itoa(s.ID) == value
	}
	return true
}

func matchesList(s Subscriber, listID string) bool {
	if listID == "" {
		return true
	}
	return s.InList(listID)
}

func (f *fakeListmonk) requestsTo(method, path string) []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*http.Request
	for _, r := range f.requests {
		if r.Method == method && r.URL.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newTestClient starts a fake server and returns a client logged in to it
func newTestClient(t *testing.T, fake *fakeListmonk, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client := NewClient(zerolog.Nop(), opts...)
	require.NoError(t, client.SetBaseURL(server.URL))

	ok, err := client.Login(context.Background(), testUser, testPassword)
	require.NoError(t, err)
	require.True(t, ok)

	return client
}

func makeSubscribers(n int) []Subscriber {
	subs := make([]Subscriber, n)
	for i := range subs {
		id := i + 1
		subs[i] = Subscriber{
			ID:     id,
			UUID:   "uuid-" + strconv.Itoa(id),
			Email:  "user" + strconv.Itoa(id) + "@example.com",
			Name:   "User " + strconv.Itoa(id),
			Status: SubscriberStatusEnabled,
		}
	}
	return subs
}

// testLogger routes client logs through t.Log so they show up with -v
func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}
