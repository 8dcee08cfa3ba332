package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/quorum"
)

var isQueryPath = regexp.MustCompile(`^/[a-z0-9_]+(/[a-z0-9_]+)*$`).MatchString

// QueryRouter allows us to register many query handlers to different
// paths and then direct each query to the proper handler.
type QueryRouter struct {
	routes map[string]quorum.QueryHandler
}

var _ quorum.QueryRegister = (*QueryRouter)(nil)

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() *QueryRouter {
	return &QueryRouter{
		routes: make(map[string]quorum.QueryHandler),
	}
}

// RegisterQuery adds a new handler for the given path. It panics if the
// path is malformed or already taken.
func (r *QueryRouter) RegisterQuery(path string, h quorum.QueryHandler) {
	if !isQueryPath(path) {
		panic(fmt.Sprintf("invalid query path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering query path: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered handler for this path, or nil.
func (r *QueryRouter) Handler(path string) quorum.QueryHandler {
	return r.routes[path]
}
