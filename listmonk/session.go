package listmonk

import (
	"encoding/base64"
)

// AuthState is the position of a Client in the login lifecycle
type AuthState int

const (
	// StateUnauthenticated is a client that has not attempted a login
	StateUnauthenticated AuthState = iota
	// StateProbing is a client whose candidate credentials are being checked
	StateProbing
	// StateAuthenticated is a client with an installed authorization header
	StateAuthenticated
	// StateFailed is a client whose last login probe was rejected
	StateFailed
)

// String returns the string representation of an AuthState
func (s AuthState) String() string {
	switch s {
	case StateProbing:
		return "PROBING"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNAUTHENTICATED"
	}
}

// session is an immutable snapshot of the fields a request needs
type session struct {
	baseURL    string
	authHeader string
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
