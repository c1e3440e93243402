package listmonk

import "fmt"

const (
	pathLists       = "/api/lists"
	pathSubscribers = "/api/subscribers"
	pathHealth      = "/api/health"
)

func listPath(listID int) string {
	return fmt.Sprintf("%s/%d", pathLists, listID)
}

func subscriberPath(subscriberID int) string {
	return fmt.Sprintf("%s/%d", pathSubscribers, subscriberID)
}
