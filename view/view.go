// Package view describes the handlers behind a routing table: their
// documentation and, for class based views, their declared JSON parameters.
package view

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/javiercbk/autohttp/godoc"
	"github.com/javiercbk/autohttp/route"
)

const (
	// StaticEndpoint is the endpoint of the built-in static file route
	StaticEndpoint = "static"
	// DefaultStaticURLPath is the URL prefix static files are served under
	DefaultStaticURLPath = "/static"
	// StaticFilePlaceholder is appended to the static URL path by the static route
	StaticFilePlaceholder = "/(path:filename)"
)

// httpMethods are the methods a class view may implement, in Go method name form
var httpMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodHead,
	http.MethodOptions,
	http.MethodTrace,
	http.MethodConnect,
}

// Param is a declared JSON body parameter of a view method
type Param struct {
	Type        string `yaml:"type"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default"`
	Required    bool   `yaml:"required"`
}

// View exposes the documentation of a handler. Missing data yields empty results.
type View interface {
	// Docstring returns the documentation for an HTTP method
	Docstring(method string) string
	// ParameterRules returns the declared parameters of a view method
	ParameterRules(name string) []Param
}

// Application is a routing table plus the views it dispatches to
type Application interface {
	route.Source
	View(endpoint string) (View, bool)
	ViewClass(name string) (View, bool)
	StaticURLPath() string
	Translator() route.Translator
}

// ArgsRuler is implemented by class views declaring their JSON parameters
type ArgsRuler interface {
	ArgsRules() map[string][]Param
}

// Func is a function based view
type Func struct {
	Doc string
}

// Docstring returns the function documentation whatever the method
func (f Func) Docstring(method string) string {
	return f.Doc
}

// ParameterRules is always empty for function views
func (f Func) ParameterRules(name string) []Param {
	return nil
}

// Class is a class based view. Methods maps an upper case HTTP method to the
// documentation of its handler, Rules maps a view method to its parameters.
type Class struct {
	Doc     string
	Methods map[string]string
	Rules   map[string][]Param
}

// Docstring prefers the handler of method over the class documentation
func (c Class) Docstring(method string) string {
	if doc := c.Methods[strings.ToUpper(method)]; doc != "" {
		return doc
	}
	return c.Doc
}

// ParameterRules returns the declared parameters of a view method
func (c Class) ParameterRules(name string) []Param {
	return c.Rules[name]
}

// NewClassOf builds a class view from a Go value. Its Get, Post... methods
// document the HTTP methods, its ArgsRules method declares parameters.
func NewClassOf(v interface{}, idx *godoc.Index) Class {
	c := Class{
		Methods: make(map[string]string),
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return c
	}
	c.Doc = idx.TypeDoc(t)
	for _, m := range httpMethods {
		name := GoMethodName(m)
		if _, ok := t.MethodByName(name); !ok {
			continue
		}
		if doc := idx.MethodDoc(t, name); doc != "" {
			c.Methods[m] = doc
		}
	}
	if r, ok := v.(ArgsRuler); ok {
		c.Rules = r.ArgsRules()
	}
	return c
}

// GoMethodName turns an HTTP method into its Go method name, GET becomes Get
func GoMethodName(method string) string {
	method = strings.ToLower(method)
	if method == "" {
		return method
	}
	return strings.ToUpper(method[:1]) + method[1:]
}

// ClassName is the qualified name a class view is registered under, pkg.Type
func ClassName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	pkg := t.PkgPath()
	return pkg[strings.LastIndex(pkg, "/")+1:] + route.BlueprintSeparator + t.Name()
}
