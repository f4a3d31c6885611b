// Package adapter builds documentable applications out of the routing tables
// of Go routers. Endpoints are named after the handlers they dispatch to and
// documented by the doc comments of those handlers.
package adapter

import (
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/javiercbk/autohttp/godoc"
	"github.com/javiercbk/autohttp/gomod"
	"github.com/javiercbk/autohttp/route"
	"github.com/javiercbk/autohttp/view"
)

// MethodAny documents a handler answering every method
const MethodAny = "ANY"

// allMethods are the methods a catch-all handler is registered for, implicit ones aside
var allMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodConnect,
	http.MethodTrace,
}

// Handler is one entry of a router table. Name overrides the endpoint derived from Handler.
type Handler struct {
	Methods []string
	Pattern string
	Name    string
	Handler http.Handler
}

// Option configures an App
type Option func(*App)

// WithIndex reads doc comments from idx
func WithIndex(idx *godoc.Index) Option {
	return func(a *App) {
		a.Index = idx
	}
}

// WithStatic marks the catch-all route under urlPath as the static file route
func WithStatic(urlPath, doc string) Option {
	return func(a *App) {
		a.staticURLPath = strings.TrimSuffix(urlPath, "/")
		a.staticDoc = doc
	}
}

// WithClass registers a class view, method values bound to v become Type:Method endpoints
func WithClass(v interface{}) Option {
	return func(a *App) {
		a.classValues = append(a.classValues, v)
	}
}

// WithPackageDir tells where the sources of a package live
func WithPackageDir(pkgPath, dir string) Option {
	return func(a *App) {
		a.pkgDirs[pkgPath] = dir
	}
}

// WithModule locates package sources through the go.mod file at goModPath
func WithModule(goModPath string) Option {
	return func(a *App) {
		mod, err := gomod.Read(goModPath)
		if err != nil {
			a.Logger.Printf("error reading module file %s: %v\n", goModPath, err)
			return
		}
		a.module = &mod
	}
}

// App is a view.Application backed by a router table
type App struct {
	Logger        *log.Logger
	Index         *godoc.Index
	translator    route.Translator
	rules         []route.Rule
	views         map[string]view.View
	classes       map[string]view.View
	classValues   []interface{}
	pkgDirs       map[string]string
	module        *gomod.Module
	staticURLPath string
	staticDoc     string
}

// Build creates an App out of router handlers written in the syntax t understands
func Build(handlers []Handler, t route.Translator, logger *log.Logger, opts ...Option) *App {
	a := &App{
		Logger:     logger,
		translator: t,
		rules:      make([]route.Rule, 0, len(handlers)),
		views:      make(map[string]view.View),
		classes:    make(map[string]view.View),
		pkgDirs:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Index == nil {
		a.Index = godoc.NewIndex(logger)
	}
	if a.module != nil && a.Index.Resolve == nil {
		a.Index.Resolve = a.module.PackageDir
	}
	for pkgPath, dir := range a.pkgDirs {
		a.Index.AddPackage(pkgPath, dir)
	}
	// method values carry no file, locate their packages through plain functions first
	for _, h := range handlers {
		if s, ok := godoc.Lookup(h.Handler); ok {
			a.Index.Locate(s)
		}
	}
	for _, v := range a.classValues {
		t := reflect.TypeOf(v)
		if t == nil {
			continue
		}
		a.classes[view.ClassName(t)] = view.NewClassOf(v, a.Index)
	}
	table := NewTable()
	for _, h := range handlers {
		pattern, endpoint, methods := h.Pattern, h.Name, h.Methods
		var v view.View
		if a.isStatic(pattern) {
			pattern, endpoint, methods = a.staticURLPath+"/*", view.StaticEndpoint, []string{http.MethodGet}
			v = view.Func{Doc: a.staticDoc}
		} else {
			name, handlerView := a.resolve(h.Handler)
			if endpoint == "" {
				endpoint = name
			}
			v = handlerView
		}
		if _, ok := a.views[endpoint]; !ok && v != nil {
			a.views[endpoint] = v
		}
		table.Add(pattern, endpoint, methods)
	}
	a.rules = table.Rules()
	return a
}

func (a *App) isStatic(pattern string) bool {
	if a.staticURLPath == "" {
		return false
	}
	return pattern == a.staticURLPath+"/*" || pattern == a.staticURLPath+"/"
}

// resolve names the endpoint of a handler and finds its documentation.
// Functions are pkg.Func, method values pkg.Type:Method and handler values pkg.Type.
func (a *App) resolve(h http.Handler) (string, view.View) {
	if h == nil {
		return "", nil
	}
	if reflect.TypeOf(h).Kind() == reflect.Func {
		s, ok := godoc.Lookup(h)
		if !ok {
			name := godoc.FuncName(h)
			a.Logger.Printf("handler %s cannot be documented\n", name)
			return name[strings.LastIndex(name, "/")+1:], nil
		}
		doc := a.Index.Doc(s)
		if s.Recv != "" {
			return s.PkgName() + route.BlueprintSeparator + s.Recv + route.ClassSeparator + s.Name, view.Func{Doc: doc}
		}
		return s.PkgName() + route.BlueprintSeparator + s.Name, view.Func{Doc: doc}
	}
	name := view.ClassName(reflect.TypeOf(h))
	c, ok := a.classes[name]
	if !ok {
		c = view.NewClassOf(h, a.Index)
		a.classes[name] = c
	}
	return name, c
}

// Rules returns the routing table
func (a *App) Rules() []route.Rule {
	rules := make([]route.Rule, len(a.rules))
	copy(rules, a.rules)
	return rules
}

// View returns the view of an endpoint
func (a *App) View(endpoint string) (view.View, bool) {
	v, ok := a.views[endpoint]
	return v, ok
}

// ViewClass returns a class view by its pkg.Type name
func (a *App) ViewClass(name string) (view.View, bool) {
	c, ok := a.classes[name]
	return c, ok
}

// StaticURLPath is the URL prefix of static files, empty when none was configured
func (a *App) StaticURLPath() string {
	return a.staticURLPath
}

// Translator returns the pattern syntax of the router
func (a *App) Translator() route.Translator {
	return a.translator
}
