// Package astroute documents an application from its source code. Route
// registrations matching a criteria are found without building or running the
// application and handlers are documented by their doc comments.
package astroute

import (
	"log"
	"regexp"

	"github.com/pkg/errors"

	"github.com/javiercbk/autohttp/adapter"
	"github.com/javiercbk/autohttp/ast"
	"github.com/javiercbk/autohttp/criteria"
	"github.com/javiercbk/autohttp/folder"
	"github.com/javiercbk/autohttp/route"
	"github.com/javiercbk/autohttp/view"
)

// Scanner finds the routes of the packages under a directory
type Scanner struct {
	Logger     *log.Logger
	Criteria   criteria.Criteria
	astManager ast.Manager
}

// NewScanner creates a Scanner matching route registrations with c
func NewScanner(c criteria.Criteria, logger *log.Logger) Scanner {
	return Scanner{
		Logger:     logger,
		Criteria:   c,
		astManager: ast.NewManager(logger),
	}
}

// New scans root with the default criteria
func New(root string, logger *log.Logger) (*view.App, error) {
	return NewScanner(criteria.Default(), logger).Scan(root)
}

// Scan parses every package under root and builds an application out of the
// routes found. Endpoints follow the naming of the runtime adapters:
// pkg.Func, pkg.Type:Method and pkg.Type for handler values.
func (s Scanner) Scan(root string) (*view.App, error) {
	blacklist, err := compile(s.Criteria.Ignore)
	if err != nil {
		s.Logger.Printf("error compiling ignore expressions: %v\n", err)
		return nil, err
	}
	dirs, err := folder.ListPackageDirs(root)
	if err != nil {
		s.Logger.Printf("error listing packages in directory %s: %v\n", root, err)
		return nil, err
	}
	pkgs := make([]*ast.Package, 0, len(dirs))
	byName := make(map[string][]*ast.Package)
	for _, dir := range dirs {
		pkg, err := s.astManager.ParseDir(dir, blacklist)
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", dir)
		}
		if pkg.Empty() {
			continue
		}
		pkgs = append(pkgs, pkg)
		byName[pkg.Name] = append(byName[pkg.Name], pkg)
	}
	app := view.NewApp()
	app.SetTranslator(Translator(s.Criteria.Syntax))
	table := adapter.NewTable()
	docs := make(map[string]string)
	for _, pkg := range pkgs {
		s.Logger.Printf("searching for routes in package %s\n", pkg.Dir)
		for _, r := range s.astManager.ExtractRoutes(pkg, s.Criteria) {
			fn := s.document(r.Handler, pkgs, byName)
			endpoint := Endpoint(fn)
			methods := r.HTTPMethods
			if len(methods) == 0 {
				methods = fn.Methods
			}
			if len(methods) == 0 {
				methods = []string{adapter.MethodAny}
			}
			if _, ok := docs[endpoint]; !ok {
				docs[endpoint] = fn.Doc
			}
			table.Add(r.Path, endpoint, methods)
		}
	}
	for _, rule := range table.Rules() {
		app.Handle(rule.Pattern, rule.Endpoint, view.Func{Doc: docs[rule.Endpoint]}, rule.Methods...)
	}
	return app, nil
}

// document looks the handler up in the scanned packages named after its package.
// The receiver of a method value is unknown so other packages are searched too.
func (s Scanner) document(fn ast.Function, pkgs []*ast.Package, byName map[string][]*ast.Package) ast.Function {
	if fn.Closure {
		return fn
	}
	for _, pkg := range byName[fn.Pkg] {
		found := fn
		if err := s.astManager.FindFuncDeclaration(pkg, &found); err == nil {
			return found
		}
	}
	if fn.Method {
		for _, pkg := range pkgs {
			found := fn
			if pkg.Name == fn.Pkg {
				continue
			}
			if err := s.astManager.FindFuncDeclaration(pkg, &found); err == nil {
				found.Pkg = pkg.Name
				return found
			}
		}
	}
	s.Logger.Printf("handler %s.%s cannot be documented\n", fn.Pkg, fn.Name)
	return fn
}

// Endpoint names the endpoint of a handler
func Endpoint(fn ast.Function) string {
	if fn.MemberOf != "" {
		return fn.Pkg + route.BlueprintSeparator + fn.MemberOf + route.ClassSeparator + fn.Name
	}
	return fn.Pkg + route.BlueprintSeparator + fn.Name
}

// Translator returns the translator of a criteria syntax
func Translator(syntax string) route.Translator {
	switch syntax {
	case criteria.SyntaxColon:
		return route.Colon
	case criteria.SyntaxWerkzeug:
		return route.Werkzeug
	}
	return route.Braces
}

func compile(expressions []string) ([]*regexp.Regexp, error) {
	blacklist := make([]*regexp.Regexp, 0, len(expressions))
	for _, e := range expressions {
		r, err := regexp.Compile(e)
		if err != nil {
			return nil, errors.Wrapf(err, "ignore %s", e)
		}
		blacklist = append(blacklist, r)
	}
	return blacklist, nil
}
