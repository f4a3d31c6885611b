package route

import (
	"net/http"
	"strings"
)

const (
	// BlueprintSeparator splits a blueprint name from a view name inside an endpoint
	BlueprintSeparator = "."
	// ClassSeparator splits a view class from a view method inside an endpoint
	ClassSeparator = ":"
)

// Rule is a single entry of a framework routing table. Pattern is written
// in the framework's own placeholder syntax.
type Rule struct {
	Methods  []string
	Pattern  string
	Endpoint string
}

// Route is a documented HTTP route. Path uses the (converter:name) placeholder syntax.
type Route struct {
	Method   string
	Path     string
	Endpoint string
}

// Label is the human readable "METHOD PATH" form of the route
func (r Route) Label() string {
	return r.Method + " " + r.Path
}

// Anchor returns the cross reference anchor of the route
func (r Route) Anchor() string {
	return Anchor(r.Method, r.Path)
}

// Source exposes a routing table
type Source interface {
	Rules() []Rule
}

// implicitMethods are answered by the framework itself and never documented
var implicitMethods = map[string]bool{
	http.MethodOptions: true,
	http.MethodHead:    true,
}

// Enumerate lists every documentable route of src. OPTIONS and HEAD are
// skipped, patterns are rewritten with t and the methods of a rule are
// emitted in method priority order so two runs over the same table agree.
func Enumerate(src Source, t Translator) []Route {
	routes := make([]Route, 0)
	if src == nil {
		return routes
	}
	if t == nil {
		t = Werkzeug
	}
	for _, rule := range src.Rules() {
		path := t(rule.Pattern)
		for _, method := range SortMethods(rule.Methods) {
			method = strings.ToUpper(strings.TrimSpace(method))
			if method == "" || implicitMethods[method] {
				continue
			}
			routes = append(routes, Route{
				Method:   method,
				Path:     path,
				Endpoint: rule.Endpoint,
			})
		}
	}
	return routes
}

// SplitBlueprint returns the blueprint and the view name of an endpoint.
// ok is false when the endpoint does not belong to a blueprint.
func SplitBlueprint(endpoint string) (blueprint, name string, ok bool) {
	i := strings.LastIndex(endpoint, BlueprintSeparator)
	if i < 0 {
		return "", endpoint, false
	}
	return endpoint[:i], endpoint[i+len(BlueprintSeparator):], true
}

// SplitClass returns the view class and view method of an endpoint.
// ok is false unless the endpoint contains exactly one class separator.
func SplitClass(endpoint string) (class, method string, ok bool) {
	parts := strings.Split(endpoint, ClassSeparator)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
