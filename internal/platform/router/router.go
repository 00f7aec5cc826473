package router

import (
	"net/http"
)

// Router is the routing surface the API mounts its handlers on. The
// dashboard only reads state and fires actions, so GET and POST cover
// every route; Group scopes the parameterized action routes under one
// prefix.
type Router interface {
	http.Handler

	Use(middleware func(next http.Handler) http.Handler)
	Get(pattern string, handlerFunc http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler)
	Post(pattern string, handlerFunc http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler)
	Group(pattern string, fn func(r Router), middlewares ...func(next http.Handler) http.Handler)
}
