package client

import (
	"net/url"
	"strings"
)

// Resource names one upstream collection.
type Resource string

const (
	Users       Resource = "users"
	Teams       Resource = "teams"
	Activities  Resource = "activities"
	Workouts    Resource = "workouts"
	Leaderboard Resource = "leaderboard"
)

// Resources lists every collection in menu order.
var Resources = []Resource{Users, Teams, Activities, Workouts, Leaderboard}

// ParseResource resolves a resource by name.
func ParseResource(name string) (Resource, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range Resources {
		if string(r) == name {
			return r, true
		}
	}
	return "", false
}

// Endpoints builds upstream URLs under one base.
type Endpoints struct {
	base string
}

// NewEndpoints returns a builder for base, which must not end in a slash;
// one trailing slash is tolerated.
func NewEndpoints(base string) Endpoints {
	return Endpoints{base: strings.TrimRight(base, "/")}
}

// Base returns the API base URL.
func (e Endpoints) Base() string { return e.base }

// Collection returns the list endpoint of r, for example {base}/api/users/.
func (e Endpoints) Collection(r Resource) string {
	return e.base + "/api/" + string(r) + "/"
}

// User returns the endpoint of a single user.
func (e Endpoints) User(id string) string {
	return e.base + "/api/users/" + url.PathEscape(id) + "/"
}

// resourceOf labels an endpoint for metrics and logs: the path segment after
// "api", or "unknown".
func resourceOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "unknown"
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "api" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return "unknown"
}
