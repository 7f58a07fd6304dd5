package http

// Router maps (path, method) pairs to response sources. The same path may
// carry one source per method. Registration is not safe for use while
// serving; the table is read-only once the server runs, so lookups take no
// lock.
type Router struct {
	routes map[RouteKey]Source
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[RouteKey]Source),
	}
}

// Register inserts the source for a (path, method) pair, silently replacing
// any previous registration. The last one wins.
func (router *Router) Register(path string, method Method, source Source) {
	router.routes[RouteKey{Path: path, Method: method}] = source
}

// GET registers a source under the GET method.
func (router *Router) GET(path string, source Source) {
	router.Register(path, MethodGet, source)
}

// POST registers a source under the POST method.
func (router *Router) POST(path string, source Source) {
	router.Register(path, MethodPost, source)
}

// Lookup returns the source registered for a (path, method) pair.
func (router *Router) Lookup(path string, method Method) (Source, bool) {
	source, found := router.routes[RouteKey{Path: path, Method: method}]
	return source, found
}

// Len reports the number of registered endpoints.
func (router *Router) Len() int {
	return len(router.routes)
}
