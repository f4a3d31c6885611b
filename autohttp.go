// Package autohttp documents the routes of a web application as
// sphinxcontrib-httpdomain reStructuredText.
package autohttp

import (
	"io"
	"log"
	"strings"

	"github.com/javiercbk/autohttp/docstring"
	"github.com/javiercbk/autohttp/encoding/rst"
	"github.com/javiercbk/autohttp/route"
	"github.com/javiercbk/autohttp/view"
)

// Documented is a route that passed every filter, with its resolved documentation
type Documented struct {
	Route     route.Route
	Docstring string
	Params    []view.Param
	Lines     []string
}

// Directive renders the routes of one application
type Directive struct {
	App     view.Application
	Options Options
	Logger  *log.Logger
}

// NewDirective creates a Directive
func NewDirective(app view.Application, opts Options, logger *log.Logger) Directive {
	return Directive{
		App:     app,
		Options: opts,
		Logger:  logger,
	}
}

// Routes enumerates every route of the application
func (d Directive) Routes() []route.Route {
	return route.Enumerate(d.App, d.App.Translator())
}

// Documented resolves the documentation of every route the options keep
func (d Directive) Documented() []Documented {
	return d.document(d.Routes())
}

func (d Directive) document(routes []route.Route) []Documented {
	f := newFilter(d.Options)
	staticPath := d.App.StaticURLPath() + view.StaticFilePlaceholder
	docs := make([]Documented, 0, len(routes))
	for _, r := range routes {
		doc, ok := d.resolve(r, f, staticPath)
		if ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// resolve applies the filters in order, first match excludes the route
func (d Directive) resolve(r route.Route, f filter, staticPath string) (Documented, bool) {
	if blueprint, _, ok := route.SplitBlueprint(r.Endpoint); ok {
		if f.blueprints.configured() && !f.blueprints[blueprint] {
			d.skip(r, "blueprint %s is not listed", blueprint)
			return Documented{}, false
		}
		if f.undocBlueprints[blueprint] {
			d.skip(r, "blueprint %s is undocumented", blueprint)
			return Documented{}, false
		}
	}
	if f.endpoints.configured() && !f.endpoints[r.Endpoint] {
		d.skip(r, "endpoint %s is not listed", r.Endpoint)
		return Documented{}, false
	}
	if f.undocEndpoints[r.Endpoint] {
		d.skip(r, "endpoint %s is undocumented", r.Endpoint)
		return Documented{}, false
	}
	if d.Options.UndocStatic && r.Endpoint == view.StaticEndpoint && r.Path == staticPath {
		d.skip(r, "static route")
		return Documented{}, false
	}
	doc := ""
	if v, ok := d.App.View(r.Endpoint); ok && v != nil {
		doc = v.Docstring(r.Method)
	}
	if strings.TrimSpace(doc) == "" && !d.Options.IncludeEmptyDocstring {
		d.skip(r, "empty docstring")
		return Documented{}, false
	}
	params := d.parameterRules(r.Endpoint)
	doc = docstring.AppendParams(doc, params)
	return Documented{
		Route:     r,
		Docstring: doc,
		Params:    params,
		Lines:     docstring.Prepare(doc),
	}, true
}

// parameterRules finds the declared parameters of a Class:method endpoint
func (d Directive) parameterRules(endpoint string) []view.Param {
	class, method, ok := route.SplitClass(endpoint)
	if !ok {
		return nil
	}
	c, ok := d.App.ViewClass(class)
	if !ok || c == nil {
		return nil
	}
	return c.ParameterRules(method)
}

func (d Directive) skip(r route.Route, reason string, args ...interface{}) {
	d.Logger.Printf("skipping route %s: "+reason+"\n", append([]interface{}{r.Label()}, args...)...)
}

// Lines renders the table of contents followed by one block per documented route
func (d Directive) Lines() []string {
	routes := d.Routes()
	docs := d.document(routes)
	tocRoutes := routes
	if d.Options.TOCFiltered {
		tocRoutes = make([]route.Route, 0, len(docs))
		for _, doc := range docs {
			tocRoutes = append(tocRoutes, doc.Route)
		}
	}
	lines := rst.TOC(tocRoutes)
	for _, doc := range docs {
		lines = append(lines, rst.HTTPDirective(doc.Route.Method, doc.Route.Path, doc.Lines)...)
	}
	return lines
}

// Render writes the rendered lines to w
func (d Directive) Render(w io.Writer) error {
	err := rst.WriteLines(d.Lines(), w)
	if err != nil {
		d.Logger.Printf("error writing routes: %v\n", err)
	}
	return err
}
