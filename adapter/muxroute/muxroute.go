// Package muxroute documents gorilla/mux routers. Named routes keep their
// name as endpoint.
package muxroute

import (
	"log"

	"github.com/gorilla/mux"

	"github.com/javiercbk/autohttp/adapter"
	"github.com/javiercbk/autohttp/route"
)

// New walks r and builds the application it routes to. Routes without a
// method matcher answer any method, routes without a handler are skipped.
func New(r *mux.Router, logger *log.Logger, opts ...adapter.Option) (*adapter.App, error) {
	handlers := make([]adapter.Handler, 0)
	err := r.Walk(func(rt *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		h := rt.GetHandler()
		if h == nil {
			return nil
		}
		pattern, err := rt.GetPathTemplate()
		if err != nil {
			logger.Printf("skipping route %s without a path: %v\n", rt.GetName(), err)
			return nil
		}
		methods, err := rt.GetMethods()
		if err != nil {
			methods = []string{adapter.MethodAny}
		}
		handlers = append(handlers, adapter.Handler{
			Methods: methods,
			Pattern: pattern,
			Name:    rt.GetName(),
			Handler: h,
		})
		return nil
	})
	if err != nil {
		logger.Printf("error walking mux routes: %v\n", err)
		return nil, err
	}
	return adapter.Build(handlers, route.Braces, logger, opts...), nil
}
