package autohttp

import (
	"bytes"
	"io/ioutil"
	"log"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiercbk/autohttp/route"
	"github.com/javiercbk/autohttp/view"
)

func discardLogger() *log.Logger {
	return log.New(ioutil.Discard, "", log.LstdFlags)
}

func fixtureApp() *view.App {
	a := view.NewApp()
	a.HandleFunc("/users", "user_list", "List users.", http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions)
	a.HandleFunc("/users/<int:id>", "user_detail", "Get a user.")
	a.HandleFunc("/health", "health", "")
	a.Handle("/ping", "ping", nil)
	bp := a.Blueprint("admin", "/admin")
	bp.HandleFunc("/stats", "stats", "Admin stats.")
	a.Static("/static", view.Func{Doc: "Static files."})
	a.Handle("/accounts/<id>", "AccountsView:update", view.Class{
		Doc:     "Accounts.",
		Methods: map[string]string{http.MethodPut: "Update an account."},
	}, http.MethodPut, http.MethodGet)
	a.RegisterClass("AccountsView", view.Class{
		Rules: map[string][]view.Param{
			"update": {
				{Type: "str", Name: "name", Description: "Account name", Required: true},
				{Type: "int", Name: "quota", Description: "Quota", Default: "10"},
			},
		},
	})
	return a
}

func labels(docs []Documented) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Route.Label())
	}
	return out
}

func TestDocumented(t *testing.T) {
	type params struct {
		options Options
	}
	type expected struct {
		labels []string
	}
	tests := []struct {
		name     string
		params   params
		expected expected
	}{
		{
			name: "should document every route with a docstring",
			expected: expected{
				labels: []string{
					"GET /users",
					"POST /users",
					"GET /users/(int:id)",
					"GET /admin/stats",
					"GET /static/(path:filename)",
					"GET /accounts/(id)",
					"PUT /accounts/(id)",
				},
			},
		},
		{
			name:   "should keep only listed endpoints",
			params: params{options: Options{Endpoints: []string{"user_detail", "admin.stats"}}},
			expected: expected{
				labels: []string{"GET /users/(int:id)", "GET /admin/stats"},
			},
		},
		{
			name:   "should drop blueprints that are not listed",
			params: params{options: Options{Blueprints: []string{"other"}, Endpoints: []string{"user_detail", "admin.stats"}}},
			expected: expected{
				labels: []string{"GET /users/(int:id)"},
			},
		},
		{
			name:   "should keep listed blueprints",
			params: params{options: Options{Blueprints: []string{"admin"}, Endpoints: []string{"admin.stats"}}},
			expected: expected{
				labels: []string{"GET /admin/stats"},
			},
		},
		{
			name:   "should drop undocumented blueprints",
			params: params{options: Options{UndocBlueprints: []string{"admin"}, UndocEndpoints: []string{"user_list", "AccountsView:update", "static"}}},
			expected: expected{
				labels: []string{"GET /users/(int:id)"},
			},
		},
		{
			name:   "should drop undocumented endpoints",
			params: params{options: Options{UndocEndpoints: []string{"user_list", "user_detail"}, Endpoints: []string{"user_list", "user_detail", "static"}}},
			expected: expected{
				labels: []string{"GET /static/(path:filename)"},
			},
		},
		{
			name:   "should drop the static route",
			params: params{options: Options{UndocStatic: true, Endpoints: []string{"user_detail", "static"}}},
			expected: expected{
				labels: []string{"GET /users/(int:id)"},
			},
		},
		{
			name:   "should include empty docstrings",
			params: params{options: Options{IncludeEmptyDocstring: true, Endpoints: []string{"health", "ping"}}},
			expected: expected{
				labels: []string{"GET /health", "GET /ping"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirective(fixtureApp(), tt.params.options, discardLogger())
			assert.Equal(t, tt.expected.labels, labels(d.Documented()))
		})
	}
}

func TestDocumentedResolvesDocstrings(t *testing.T) {
	d := NewDirective(fixtureApp(), Options{Endpoints: []string{"AccountsView:update"}}, discardLogger())
	docs := d.Documented()
	require.Len(t, docs, 2)

	get, put := docs[0], docs[1]
	assert.Equal(t, http.MethodGet, get.Route.Method)
	assert.Equal(t, []string{
		"Accounts.",
		"",
		":<json str name: Account name.",
		":<json int quota: *(optional)* Quota. *Default*=10",
		"",
	}, get.Lines)
	assert.Equal(t, http.MethodPut, put.Route.Method)
	assert.Equal(t, "Update an account.", put.Lines[0])
	assert.Len(t, put.Params, 2)
}

func TestStaticRouteOnlyMatchesTheStaticPath(t *testing.T) {
	a := view.NewApp()
	a.HandleFunc("/assets/<path:filename>", view.StaticEndpoint, "Moved static files.")
	d := NewDirective(a, Options{UndocStatic: true}, discardLogger())
	assert.Equal(t, []string{"GET /assets/(path:filename)"}, labels(d.Documented()))
}

func TestEndpointAllowListRendersOneBlock(t *testing.T) {
	a := view.NewApp()
	a.HandleFunc("/users/<int:id>", "user_detail", "Get a user.")
	a.HandleFunc("/users", "user_list", "List users.")
	d := NewDirective(a, Options{Endpoints: []string{"user_detail"}}, discardLogger())
	blocks := 0
	for _, l := range d.Lines() {
		if strings.HasPrefix(l, ".. http:") {
			blocks++
		}
	}
	assert.Equal(t, 1, blocks)
}

func TestEmptyDocstringBlock(t *testing.T) {
	a := view.NewApp()
	a.Handle("/ping", "ping", view.Func{})
	without := NewDirective(a, Options{}, discardLogger())
	assert.Equal(t, []string{"Services:", "", "- `GET /ping: <#get--ping>`_", ""}, without.Lines())

	with := NewDirective(a, Options{IncludeEmptyDocstring: true}, discardLogger())
	docs := with.Documented()
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Lines)
	assert.Equal(t, []string{
		"Services:", "", "- `GET /ping: <#get--ping>`_", "",
		"", ".. _get--ping:", "", ".. http:get:: /ping", "", "",
	}, with.Lines())
}

func TestWhitespaceDocstringIsEmpty(t *testing.T) {
	a := view.NewApp()
	a.HandleFunc("/ping", "ping", "  \n\t\n")
	assert.Empty(t, NewDirective(a, Options{}, discardLogger()).Documented())
	assert.Len(t, NewDirective(a, Options{IncludeEmptyDocstring: true}, discardLogger()).Documented(), 1)
}

func TestMultiLineDocstringWithParameterRules(t *testing.T) {
	a := view.NewApp()
	a.Handle("/accounts/<id>", "AccountsView:update", view.Class{
		Methods: map[string]string{http.MethodPut: "Update an account.\nRequires the admin role.\n"},
	}, http.MethodPut)
	a.RegisterClass("AccountsView", view.Class{
		Rules: map[string][]view.Param{
			"update": {{Type: "str", Name: "name", Description: "Account name", Required: true}},
		},
	})
	docs := NewDirective(a, Options{}, discardLogger()).Documented()
	require.Len(t, docs, 1)
	assert.Equal(t, []string{
		"Update an account.",
		"Requires the admin role.",
		"",
		"",
		":<json str name: Account name.",
		"",
	}, docs[0].Lines)
}

func TestLines(t *testing.T) {
	a := view.NewApp()
	a.HandleFunc("/users/<int:id>", "user_detail", "Get a user.\n\n    Returns 404 when missing.\n")
	a.HandleFunc("/users", "user_list", "List users.")
	a.HandleFunc("/hidden", "hidden", "Hidden.")
	d := NewDirective(a, Options{UndocEndpoints: []string{"hidden"}}, discardLogger())
	expected := []string{
		"Services:",
		"",
		"- `GET /hidden: <#get--hidden>`_",
		"",
		"- `GET /users: <#get--users>`_",
		"",
		"- `GET /users/(int:id): <#get--users-(int-id)>`_",
		"",
		"",
		".. _get--users-(int-id):",
		"",
		".. http:get:: /users/(int:id)",
		"",
		"   Get a user.",
		"",
		"   Returns 404 when missing.",
		"",
		"",
		"",
		".. _get--users:",
		"",
		".. http:get:: /users",
		"",
		"   List users.",
		"",
		"",
	}
	assert.Equal(t, expected, d.Lines())

	d.Options.TOCFiltered = true
	filtered := d.Lines()
	assert.Equal(t, expected[:2], filtered[:2])
	assert.Equal(t, expected[4:], filtered[2:])
}

func TestTOCAnchorsMatchBlocks(t *testing.T) {
	d := NewDirective(fixtureApp(), Options{}, discardLogger())
	lines := d.Lines()
	targets := make(map[string]bool)
	for _, l := range lines {
		if strings.HasPrefix(l, ".. _") {
			targets[strings.TrimSuffix(strings.TrimPrefix(l, ".. _"), ":")] = true
		}
	}
	for _, doc := range d.Documented() {
		assert.True(t, targets[route.Anchor(doc.Route.Method, doc.Route.Path)], doc.Route.Label())
		assert.Contains(t, lines, "- `"+doc.Route.Label()+": <#"+doc.Route.Anchor()+">`_")
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	d := NewDirective(fixtureApp(), Options{IncludeEmptyDocstring: true}, discardLogger())
	var first, second bytes.Buffer
	require.NoError(t, d.Render(&first))
	require.NoError(t, d.Render(&second))
	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.NotEmpty(t, first.Bytes())
}
