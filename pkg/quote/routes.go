package quote

import (
	"net/url"
	"strings"
)

// RouteKind distinguishes in-app navigation from opening a document.
type RouteKind string

const (
	RouteNavigate RouteKind = "navigate"
	RouteOpen     RouteKind = "open"
)

// Route is a navigation request emitted after an action succeeds.
type Route struct {
	Kind  RouteKind
	Path  string
	Query url.Values
}

// String renders the route as a URL.
func (r Route) String() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Paths used by the landing page.
const (
	PathSummary         = "/summary"
	PathBrokerDashboard = "/broker/dashboard"
	PathEditApplication = "/shopping/application/basic-info"
)

// QuotingEngine tags purchase summaries.
const QuotingEngine = "ESP"

func navigate(path string, query url.Values) Route {
	return Route{Kind: RouteNavigate, Path: path, Query: query}
}

func open(doc Document) Route {
	return Route{Kind: RouteOpen, Path: doc.URL}
}

func purchaseRoute(q *Quote, broker bool, params map[string]string) Route {
	query := url.Values{}
	if q != nil {
		query.Set("applicationId", q.ApplicationID)
	}
	if broker {
		return navigate(PathBrokerDashboard, query)
	}
	query.Set("quotingEngine", QuotingEngine)
	var names []string
	for _, c := range q.Selected() {
		names = append(names, c.Type.DisplayName())
	}
	if len(names) > 0 {
		query.Set("appTypes", strings.Join(names, ","))
	}
	for k, v := range params {
		query.Set(k, v)
	}
	return navigate(PathSummary, query)
}
