package routes

import "net/http"

// Route binds an HTTP method and path pattern to a handler.
// Patterns follow http.ServeMux syntax, e.g. "/{id}".
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
