// Package criteria describes how routes are registered in Go source code so
// that they can be found without running the application.
package criteria

import (
	"io"
	"log"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/javiercbk/autohttp/route"
)

// ParserErr is returned when there is an error parsing a criteria
type ParserErr string

func (p ParserErr) Error() string {
	return string(p)
}

const (
	// ErrMissingRoutes is returned when a Criteria does not have any route criteria
	ErrMissingRoutes ParserErr = "missing routes matching criteria array"
	// ErrInvalidRoute is returned when a Criteria contains an invalid route criteria
	ErrInvalidRoute ParserErr = "invalid route criteria"
	// ErrUnknownSyntax is returned when a Criteria names a pattern syntax that does not exist
	ErrUnknownSyntax ParserErr = "unknown pattern syntax"

	// SyntaxBraces is the {name} syntax of net/http, chi and gorilla/mux
	SyntaxBraces = "braces"
	// SyntaxColon is the :name syntax of httprouter like routers
	SyntaxColon = "colon"
	// SyntaxWerkzeug is the <converter:name> syntax
	SyntaxWerkzeug = "werkzeug"
)

// methodConstPrefix prefixes the method constants of net/http, as in http.MethodGet
const methodConstPrefix = "Method"

// Criteria contains all the information to find the routes of a project
type Criteria struct {
	Syntax  string          `yaml:"syntax"`
	Ignore  []string        `yaml:"ignore"`
	Routes  []RouteCriteria `yaml:"routes"`
	Methods []string        `yaml:"methods"`
}

// RouteCriteria matches a call registering a route, as in mux.HandleFunc("/path", handler).
// An empty Pkg matches any receiver or package qualifier. An empty HTTPMethod is
// taken from FuncName when it names a method.
type RouteCriteria struct {
	FuncName     string `yaml:"funcName"`
	Pkg          string `yaml:"pkg"`
	HTTPMethod   string `yaml:"httpMethod"`
	PathIndex    int    `yaml:"pathIndex"`
	HandlerIndex int    `yaml:"handlerIndex"`
}

// Default matches net/http, chi and gorilla/mux registrations
func Default() Criteria {
	c := Criteria{
		Syntax: SyntaxBraces,
		Ignore: []string{`_test\.go$`},
		Routes: []RouteCriteria{
			{FuncName: "HandleFunc", HandlerIndex: 1},
			{FuncName: "Handle", HandlerIndex: 1},
		},
		Methods: []string{"Methods"},
	}
	for _, m := range []string{"Get", "Post", "Put", "Delete", "Patch"} {
		c.Routes = append(c.Routes, RouteCriteria{FuncName: m, HandlerIndex: 1})
	}
	return c
}

// Decoder is able to decode and validate a Criteria
type Decoder struct {
	Logger *log.Logger
}

// ParseCriteriaFromYAML parses a Criteria from a YAML reader
func (decoder Decoder) ParseCriteriaFromYAML(r io.Reader, c *Criteria) error {
	decoder.Logger.Printf("parsing criteria from reader\n")
	err := yaml.NewDecoder(r).Decode(c)
	if err != nil {
		decoder.Logger.Printf("error decoding criteria from reader: %v\n", err)
		return err
	}
	if len(c.Routes) == 0 {
		return ErrMissingRoutes
	}
	for i := range c.Routes {
		rc := c.Routes[i]
		if rc.FuncName == "" || rc.PathIndex < 0 || rc.HandlerIndex < 0 || rc.PathIndex == rc.HandlerIndex {
			decoder.Logger.Printf("invalid route criteria %d: %+v\n", i, rc)
			return ErrInvalidRoute
		}
	}
	switch c.Syntax {
	case "":
		c.Syntax = SyntaxBraces
	case SyntaxBraces, SyntaxColon, SyntaxWerkzeug:
	default:
		return ParserErr(string(ErrUnknownSyntax) + ": " + c.Syntax)
	}
	return nil
}

// NewCriteriaDecoder creates a CriteriaDecoder
func NewCriteriaDecoder(logger *log.Logger) Decoder {
	return Decoder{
		Logger: logger,
	}
}

// MatchesHTTPMethod returns true if text names a known HTTP method
func MatchesHTTPMethod(text string) bool {
	return len(MatchHTTPMethod(text)) > 0
}

// MatchHTTPMethod returns the HTTP method named by text, as in Get, "put" or
// the MethodGet constant of net/http. Text naming anything else matches nothing.
func MatchHTTPMethod(text string) string {
	name := text
	if trimmed := strings.TrimPrefix(text, methodConstPrefix); trimmed != text && trimmed != "" {
		name = trimmed
	}
	name = strings.ToUpper(name)
	if route.IsMethod(name) {
		return name
	}
	return ""
}

// Method returns the HTTP method a route criteria registers, empty when unknown
func (rc RouteCriteria) Method() string {
	if rc.HTTPMethod != "" {
		return strings.ToUpper(rc.HTTPMethod)
	}
	return MatchHTTPMethod(rc.FuncName)
}
