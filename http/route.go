package http

// RouteKey identifies one registered endpoint.
type RouteKey struct {
	Path   string
	Method Method
}
