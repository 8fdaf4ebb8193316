package router

import (
	"bytes"
	"net/http"
	"net/url"
)

// Route adalah operasi yang dipilih untuk satu request ke /api/orders.
type Route int

const (
	RouteUnknown Route = iota
	RouteListActive
	RouteCreate
	RouteClearActive
	RouteKitchenStatus
	RouteSetKitchenStatus
	RouteListRecent
	RouteTrackOrder
	RouteUpdateOrder
	RouteDeleteOrder
)

var routeNames = map[Route]string{
	RouteUnknown:          "unknown",
	RouteListActive:       "list-active",
	RouteCreate:           "create",
	RouteClearActive:      "clear-active",
	RouteKitchenStatus:    "kitchen-status",
	RouteSetKitchenStatus: "set-kitchen-status",
	RouteListRecent:       "list-recent",
	RouteTrackOrder:       "track-order",
	RouteUpdateOrder:      "update-order",
	RouteDeleteOrder:      "delete-order",
}

func (r Route) String() string {
	if name, ok := routeNames[r]; ok {
		return name
	}
	return "unknown"
}

type orderEndpoint struct {
	flag    string
	methods map[string]Route
}

// Urutan menentukan prioritas kalau request membawa lebih dari satu flag.
var orderEndpoints = []orderEndpoint{
	{flag: "kitchen-status", methods: map[string]Route{
		http.MethodGet:  RouteKitchenStatus,
		http.MethodPost: RouteSetKitchenStatus,
	}},
	{flag: "completed-orders", methods: map[string]Route{
		http.MethodGet: RouteListRecent,
	}},
	{flag: "track-order", methods: map[string]Route{
		http.MethodGet: RouteTrackOrder,
	}},
	{flag: "update-order", methods: map[string]Route{
		http.MethodPut:  RouteUpdateOrder,
		http.MethodPost: RouteUpdateOrder,
	}},
	{flag: "delete-order", methods: map[string]Route{
		http.MethodDelete: RouteDeleteOrder,
	}},
	{flag: "", methods: map[string]Route{
		http.MethodGet:  RouteListActive,
		http.MethodPost: RouteCreate,
	}},
}

// ResolveOrderRoute matches a request once at the boundary. When the flag
// matches but the method does not, it returns RouteUnknown together with the
// methods that would have been accepted.
func ResolveOrderRoute(method string, query url.Values, body []byte) (Route, []string) {
	endpoint := orderEndpoints[len(orderEndpoints)-1]
	for _, e := range orderEndpoints {
		if e.flag != "" && query.Has(e.flag) {
			endpoint = e
			break
		}
	}

	route, ok := endpoint.methods[method]
	if !ok {
		return RouteUnknown, allowedMethods(endpoint)
	}

	// POST tanpa flag dengan body array = clear semua order aktif
	if route == RouteCreate && isJSONArray(body) {
		return RouteClearActive, nil
	}
	return route, nil
}

func allowedMethods(e orderEndpoint) []string {
	order := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	allowed := make([]string, 0, len(e.methods))
	for _, m := range order {
		if _, ok := e.methods[m]; ok {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}
