// Package engine is a small reStructuredText preprocessor. Registered
// directives are expanded in place, everything else is copied untouched so
// the result can be handed to Sphinx.
package engine

import (
	"bufio"
	"io"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	autohttpErrors "github.com/javiercbk/autohttp/errors"
)

var (
	directiveRegexp = regexp.MustCompile(`^(\s*)\.\. ([A-Za-z][\w-]*(?::[\w-]+)?)::(?:\s+(.*))?$`)
	optionRegexp    = regexp.MustCompile(`^:([\w-]+):(?:\s+(.*))?$`)
)

// Context is what a directive receives from the document
type Context struct {
	Arguments []string
	Options   map[string]string
	Content   []string
}

// DirectiveFunc renders a directive into reStructuredText lines
type DirectiveFunc func(ctx Context) ([]string, error)

// Domain is a named set of directives such as http:get
type Domain struct {
	Name       string
	Directives []string
}

// Engine holds the directives and domains of a documentation build
type Engine struct {
	Logger     *log.Logger
	directives map[string]DirectiveFunc
	domains    map[string]Domain
}

// New creates an engine without directives or domains
func New(logger *log.Logger) *Engine {
	return &Engine{
		Logger:     logger,
		directives: make(map[string]DirectiveFunc),
		domains:    make(map[string]Domain),
	}
}

// AddDirective registers or replaces a directive
func (e *Engine) AddDirective(name string, fn DirectiveFunc) {
	e.Logger.Printf("registering directive %s\n", name)
	e.directives[name] = fn
}

// HasDirective reports whether a directive is registered
func (e *Engine) HasDirective(name string) bool {
	_, ok := e.directives[name]
	return ok
}

// EnsureDomain registers d unless a domain with the same name exists.
// It reports whether d was added.
func (e *Engine) EnsureDomain(d Domain) bool {
	if e.HasDomain(d.Name) {
		return false
	}
	e.Logger.Printf("registering domain %s\n", d.Name)
	e.domains[d.Name] = d
	return true
}

// HasDomain reports whether a domain is registered
func (e *Engine) HasDomain(name string) bool {
	_, ok := e.domains[name]
	return ok
}

// Domains lists the registered domain names
func (e *Engine) Domains() []string {
	names := make([]string, 0, len(e.domains))
	for name := range e.domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run renders a registered directive
func (e *Engine) Run(name string, ctx Context) ([]string, error) {
	fn, ok := e.directives[name]
	if !ok {
		return nil, errors.Wrap(autohttpErrors.ErrUnknownDirective, name)
	}
	lines, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	e.checkDomains(name, lines)
	return lines, nil
}

// checkDomains warns about generated directives whose domain is missing
func (e *Engine) checkDomains(name string, lines []string) {
	for _, l := range lines {
		m := directiveRegexp.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		if i := strings.IndexByte(m[2], ':'); i >= 0 && !e.HasDomain(m[2][:i]) {
			e.Logger.Printf("directive %s produced %s but domain %s is not registered\n", name, m[2], m[2][:i])
		}
	}
}

// Expand copies r to w, replacing every registered directive block by its output
func (e *Engine) Expand(r io.Reader, w io.Writer) error {
	lines, err := readLines(r)
	if err != nil {
		e.Logger.Printf("error reading document: %v\n", err)
		return err
	}
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		m := directiveRegexp.FindStringSubmatch(lines[i])
		if m == nil || !e.HasDirective(m[2]) {
			out = append(out, lines[i])
			continue
		}
		indent, name := m[1], m[2]
		end := blockEnd(lines, i+1, len(indent))
		ctx := parseBlock(m[3], lines[i+1:end])
		generated, err := e.Run(name, ctx)
		if err != nil {
			e.Logger.Printf("error running directive %s at line %d: %v\n", name, i+1, err)
			return errors.Wrapf(err, "directive %s at line %d", name, i+1)
		}
		for _, g := range generated {
			if g == "" {
				out = append(out, "")
				continue
			}
			out = append(out, indent+g)
		}
		// blank lines closing the block stay in the document
		for end > i+1 && strings.TrimSpace(lines[end-1]) == "" {
			end--
		}
		i = end - 1
	}
	bw := bufio.NewWriter(w)
	for _, l := range out {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// blockEnd returns the index of the first line after a directive block
func blockEnd(lines []string, start, indent int) int {
	end := start
	for end < len(lines) {
		l := lines[end]
		if strings.TrimSpace(l) != "" && indentOf(l) <= indent {
			break
		}
		end++
	}
	return end
}

// parseBlock splits a directive block into arguments, the option field list and content
func parseBlock(argument string, block []string) Context {
	ctx := Context{
		Arguments: strings.Fields(argument),
		Options:   make(map[string]string),
	}
	i := 0
	for ; i < len(block); i++ {
		m := optionRegexp.FindStringSubmatch(strings.TrimSpace(block[i]))
		if m == nil {
			break
		}
		ctx.Options[m[1]] = strings.TrimSpace(m[2])
	}
	content := block[i:]
	margin := -1
	for _, l := range content {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if n := indentOf(l); margin < 0 || n < margin {
			margin = n
		}
	}
	for _, l := range content {
		if strings.TrimSpace(l) == "" {
			ctx.Content = append(ctx.Content, "")
			continue
		}
		ctx.Content = append(ctx.Content, l[margin:])
	}
	for len(ctx.Content) > 0 && ctx.Content[0] == "" {
		ctx.Content = ctx.Content[1:]
	}
	for len(ctx.Content) > 0 && ctx.Content[len(ctx.Content)-1] == "" {
		ctx.Content = ctx.Content[:len(ctx.Content)-1]
	}
	return ctx
}

func indentOf(l string) int {
	return len(l) - len(strings.TrimLeft(l, " \t"))
}

func readLines(r io.Reader) ([]string, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
