package criteria

import (
	"io/ioutil"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCriteriaFromYAML(t *testing.T) {
	type params struct {
		yaml string
	}
	type expected struct {
		criteria Criteria
		err      error
	}
	tests := []struct {
		name     string
		params   params
		expected expected
	}{
		{
			name: "should parse route criteria",
			params: params{yaml: `
syntax: colon
ignore: [vendor/]
routes:
  - funcName: GET
    pkg: router
    pathIndex: 0
    handlerIndex: 1
  - funcName: Route
    httpMethod: post
    pathIndex: 1
    handlerIndex: 2
`},
			expected: expected{
				criteria: Criteria{
					Syntax: SyntaxColon,
					Ignore: []string{"vendor/"},
					Routes: []RouteCriteria{
						{FuncName: "GET", Pkg: "router", PathIndex: 0, HandlerIndex: 1},
						{FuncName: "Route", HTTPMethod: "post", PathIndex: 1, HandlerIndex: 2},
					},
				},
			},
		},
		{
			name: "should default to the braces syntax",
			params: params{yaml: `
routes:
  - funcName: HandleFunc
    handlerIndex: 1
`},
			expected: expected{
				criteria: Criteria{
					Syntax: SyntaxBraces,
					Routes: []RouteCriteria{{FuncName: "HandleFunc", HandlerIndex: 1}},
				},
			},
		},
		{
			name:     "should fail without routes",
			params:   params{yaml: "syntax: braces\n"},
			expected: expected{err: ErrMissingRoutes},
		},
		{
			name: "should fail when path and handler share an index",
			params: params{yaml: `
routes:
  - funcName: HandleFunc
`},
			expected: expected{err: ErrInvalidRoute},
		},
		{
			name: "should fail without a function name",
			params: params{yaml: `
routes:
  - handlerIndex: 1
`},
			expected: expected{err: ErrInvalidRoute},
		},
		{
			name: "should fail on an unknown syntax",
			params: params{yaml: `
syntax: regexp
routes:
  - funcName: HandleFunc
    handlerIndex: 1
`},
			expected: expected{err: ParserErr("unknown pattern syntax: regexp")},
		},
	}
	decoder := NewCriteriaDecoder(log.New(ioutil.Discard, "", log.LstdFlags))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Criteria{}
			err := decoder.ParseCriteriaFromYAML(strings.NewReader(tt.params.yaml), &c)
			if tt.expected.err != nil {
				assert.Equal(t, tt.expected.err, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected.criteria, c)
		})
	}
}

func TestMatchHTTPMethod(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{text: "Get", expected: "GET"},
		{text: "MethodPost", expected: "POST"},
		{text: "MethodHead", expected: "HEAD"},
		{text: "options", expected: "OPTIONS"},
		{text: "DELETE", expected: "DELETE"},
		{text: "HandleFunc", expected: ""},
		{text: "TargetHandler", expected: ""},
		{text: "GetUser", expected: ""},
		{text: "Method", expected: ""},
		{text: "ANY", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchHTTPMethod(tt.text))
			assert.Equal(t, tt.expected != "", MatchesHTTPMethod(tt.text))
		})
	}
}

func TestRouteCriteriaMethod(t *testing.T) {
	assert.Equal(t, "GET", RouteCriteria{FuncName: "Get"}.Method())
	assert.Equal(t, "PUT", RouteCriteria{FuncName: "Route", HTTPMethod: "put"}.Method())
	assert.Equal(t, "", RouteCriteria{FuncName: "HandleFunc"}.Method())
	assert.Equal(t, "", RouteCriteria{FuncName: "GetUser"}.Method())
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, SyntaxBraces, c.Syntax)
	methods := make([]string, 0)
	for _, rc := range c.Routes {
		if m := rc.Method(); m != "" {
			methods = append(methods, m)
		}
	}
	assert.Equal(t, []string{"GET", "POST", "PUT", "DELETE", "PATCH"}, methods)
}
