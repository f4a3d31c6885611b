// Package rst renders routes as sphinxcontrib-httpdomain reStructuredText.
package rst

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiercbk/autohttp/route"
)

const (
	// TOCTitle heads the table of contents
	TOCTitle = "Services:"
	// DomainName is the markup domain the route directives belong to
	DomainName = "http"
	bodyIndent = "   "
)

type errorWriter struct {
	w   io.Writer
	err error
}

func (ew *errorWriter) Write(p []byte) (int, error) {
	if ew.err == nil {
		n, err := ew.w.Write(p)
		if err != nil {
			ew.err = err
		}
		return n, err
	}
	return 0, ew.err
}

// WriteLines writes every line followed by a newline, stopping at the first error
func WriteLines(lines []string, w io.Writer) error {
	ew := &errorWriter{w: w}
	for _, l := range lines {
		writeLn(l, ew)
	}
	return ew.err
}

func writeLn(line string, ew *errorWriter) {
	ew.Write([]byte(line))
	ew.Write([]byte("\n"))
}

// TOCEntry is the cross reference of one route
func TOCEntry(r route.Route) string {
	return fmt.Sprintf("`%s: <#%s>`_", r.Label(), r.Anchor())
}

// TOC renders the table of contents of routes, sorted by path
func TOC(routes []route.Route) []string {
	lines := []string{TOCTitle, ""}
	for _, r := range route.SortByPath(routes) {
		lines = append(lines, "- "+TOCEntry(r), "")
	}
	return lines
}

// HTTPDirective renders one route: an explicit target named after the route
// anchor, the http domain directive and the body indented under it.
func HTTPDirective(method, path string, body []string) []string {
	lines := make([]string, 0, len(body)+6)
	lines = append(lines,
		"",
		fmt.Sprintf(".. _%s:", route.Anchor(method, path)),
		"",
		fmt.Sprintf(".. %s:%s:: %s", DomainName, strings.ToLower(strings.TrimSpace(method)), path),
		"",
	)
	for _, l := range body {
		if l == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, bodyIndent+l)
	}
	return append(lines, "")
}

// DirectiveNames lists the directives of the http domain
func DirectiveNames() []string {
	methods := []string{"get", "head", "post", "put", "patch", "delete", "options", "trace", "connect", "copy", "any"}
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, DomainName+":"+m)
	}
	return names
}
