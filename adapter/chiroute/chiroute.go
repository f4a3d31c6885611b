// Package chiroute documents chi routers.
package chiroute

import (
	"log"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/javiercbk/autohttp/adapter"
	"github.com/javiercbk/autohttp/route"
)

// New walks r and builds the application it routes to. Mounted routers are
// flattened into their full patterns.
func New(r chi.Routes, logger *log.Logger, opts ...adapter.Option) (*adapter.App, error) {
	handlers := make([]adapter.Handler, 0)
	patterns := make(map[string]int)
	walkFn := func(method string, pattern string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		if _, ok := patterns[pattern]; !ok {
			patterns[pattern] = len(patterns)
		}
		handlers = append(handlers, adapter.Handler{
			Methods: []string{method},
			Pattern: pattern,
			Handler: handler,
		})
		return nil
	}
	if err := chi.Walk(r, walkFn); err != nil {
		logger.Printf("error walking chi routes: %v\n", err)
		return nil, err
	}
	sortHandlers(handlers, patterns)
	return adapter.Build(handlers, route.Braces, logger, opts...), nil
}

// sortHandlers orders the methods of a pattern by priority. chi walks the
// methods of a route in map order.
func sortHandlers(handlers []adapter.Handler, patterns map[string]int) {
	sort.SliceStable(handlers, func(i, j int) bool {
		a, b := handlers[i], handlers[j]
		if patterns[a.Pattern] != patterns[b.Pattern] {
			return patterns[a.Pattern] < patterns[b.Pattern]
		}
		pa, pb := route.MethodPriority(a.Methods[0]), route.MethodPriority(b.Methods[0])
		if pa != pb {
			return pa < pb
		}
		return a.Methods[0] < b.Methods[0]
	})
}
