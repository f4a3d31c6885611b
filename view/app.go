package view

import (
	"net/http"
	"path"
	"strings"

	"github.com/javiercbk/autohttp/route"
)

// App is an in-memory application written with <converter:name> rules
type App struct {
	rules         []route.Rule
	views         map[string]View
	classes       map[string]View
	staticURLPath string
	translator    route.Translator
}

// NewApp creates an empty application serving static files under /static
func NewApp() *App {
	return &App{
		rules:         make([]route.Rule, 0),
		views:         make(map[string]View),
		classes:       make(map[string]View),
		staticURLPath: DefaultStaticURLPath,
		translator:    route.Werkzeug,
	}
}

// Handle binds pattern to endpoint. GET is used when no method is given.
func (a *App) Handle(pattern, endpoint string, v View, methods ...string) {
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}
	a.rules = append(a.rules, route.Rule{
		Methods:  methods,
		Pattern:  pattern,
		Endpoint: endpoint,
	})
	if v != nil {
		a.views[endpoint] = v
	}
}

// HandleFunc binds pattern to a function view documented by doc
func (a *App) HandleFunc(pattern, endpoint, doc string, methods ...string) {
	a.Handle(pattern, endpoint, Func{Doc: doc}, methods...)
}

// Static serves static files under urlPath with the static endpoint
func (a *App) Static(urlPath string, v View) {
	a.staticURLPath = strings.TrimSuffix(urlPath, "/")
	a.Handle(a.staticURLPath+"/<path:filename>", StaticEndpoint, v, http.MethodGet)
}

// RegisterClass makes a class view available to Class:method endpoints
func (a *App) RegisterClass(name string, c View) {
	a.classes[name] = c
}

// Blueprint groups endpoints under a name and a URL prefix
func (a *App) Blueprint(name, prefix string) *Blueprint {
	return &Blueprint{app: a, name: name, prefix: prefix}
}

// Rules returns the routing table
func (a *App) Rules() []route.Rule {
	rules := make([]route.Rule, len(a.rules))
	copy(rules, a.rules)
	return rules
}

// View returns the view bound to an endpoint
func (a *App) View(endpoint string) (View, bool) {
	v, ok := a.views[endpoint]
	return v, ok
}

// ViewClass returns a registered class view
func (a *App) ViewClass(name string) (View, bool) {
	c, ok := a.classes[name]
	return c, ok
}

// StaticURLPath is the URL prefix of static files
func (a *App) StaticURLPath() string {
	return a.staticURLPath
}

// Translator returns the rule syntax of the application, Werkzeug rules by default
func (a *App) Translator() route.Translator {
	return a.translator
}

// SetTranslator changes the rule syntax of the patterns given to Handle
func (a *App) SetTranslator(t route.Translator) {
	a.translator = t
}

// Blueprint is a named group of endpoints sharing a URL prefix
type Blueprint struct {
	app    *App
	name   string
	prefix string
}

// Handle binds a pattern under the blueprint prefix to name.endpoint
func (b *Blueprint) Handle(pattern, endpoint string, v View, methods ...string) {
	b.app.Handle(b.pattern(pattern), b.name+route.BlueprintSeparator+endpoint, v, methods...)
}

// HandleFunc binds a pattern under the blueprint prefix to a function view
func (b *Blueprint) HandleFunc(pattern, endpoint, doc string, methods ...string) {
	b.Handle(pattern, endpoint, Func{Doc: doc}, methods...)
}

func (b *Blueprint) pattern(pattern string) string {
	joined := path.Join("/", b.prefix, pattern)
	if strings.HasSuffix(pattern, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined
}
