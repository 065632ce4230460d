package loom

import (
	"fmt"
)

// Query modes accepted by query handlers.
const (
	// KeyQueryMod returns the value stored under the exact key.
	KeyQueryMod = ""
	// PrefixQueryMod returns every value whose key starts with the
	// query data.
	PrefixQueryMod = "prefix"
)

// Model is a key with its value, as returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a Model holding key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries for one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query handlers of one extension.
type QueryRegister func(QueryRouter)

// QueryRouter maps paths to query handlers, in the spirit of
// http.ServeMux. Each path can be registered once.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register with this router.
func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register binds h to path. It panics if the path is taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, taken := r.routes[path]; taken {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
