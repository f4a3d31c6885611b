// Package ast finds route registrations and the handlers they bind in Go
// source code.
package ast

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/javiercbk/autohttp/criteria"
	"github.com/javiercbk/autohttp/folder"
)

type notFoundErr string

func (i notFoundErr) Error() string {
	return string(i)
}

const (
	// ErrNotFound is returned when a value or a declaration was not found
	ErrNotFound notFoundErr = "value not found"
	selMethod               = "Method"
	handlerFuncConversion   = "HandlerFunc"
	serveHTTP               = "ServeHTTP"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// Variable is a package level constant or variable holding a string
type Variable struct {
	Name  string
	Value string
}

// Function is a handler a route is bound to. Method is set for method values,
// as in users.Get, Type for handler values, as in &UsersHandler{}, and Methods
// lists the methods a switch on r.Method handles.
type Function struct {
	Pkg      string
	MemberOf string
	Name     string
	Doc      string
	Methods  []string
	Closure  bool
	Type     bool
	Method   bool
}

// Route is a route registration found in a file
type Route struct {
	File        string
	Line        int
	HTTPMethods []string
	Path        string
	Handler     Function
}

// Package is the parsed source of one directory
type Package struct {
	Name  string
	Dir   string
	fset  *token.FileSet
	files []*ast.File
	paths []string
}

// Empty returns true when the directory holds no go file
func (p *Package) Empty() bool {
	return len(p.files) == 0
}

// Manager is an abstraction that can read ast for packages
type Manager interface {
	ParseDir(dir string, blacklist []*regexp.Regexp) (*Package, error)
	ExtractRoutes(pkg *Package, c criteria.Criteria) []Route
	FindValue(pkg *Package, v *Variable) error
	FindFuncDeclaration(pkg *Package, fn *Function) error
}

type naiveManager struct {
	logger *log.Logger
}

// NewManager creates the default Manager
func NewManager(logger *log.Logger) Manager {
	return naiveManager{
		logger: logger,
	}
}

func (m naiveManager) ParseDir(dir string, blacklist []*regexp.Regexp) (*Package, error) {
	pkg := &Package{
		Dir:  dir,
		fset: token.NewFileSet(),
	}
	goFiles, err := folder.ListGoFiles(dir, blacklist)
	if err != nil {
		m.logger.Printf("error listing go files in directory %s: %v\n", dir, err)
		return pkg, err
	}
	for _, filePath := range goFiles {
		m.logger.Printf("parsing ast from file %s\n", filePath)
		f, err := astForFile(filePath, pkg.fset)
		if err != nil {
			m.logger.Printf("error parsing ast from file %s: %v\n", filePath, err)
			return pkg, err
		}
		if pkg.Name == "" {
			pkg.Name = f.Name.Name
		} else if f.Name.Name != pkg.Name {
			m.logger.Printf("skipping file %s of package %s\n", filePath, f.Name.Name)
			continue
		}
		pkg.files = append(pkg.files, f)
		pkg.paths = append(pkg.paths, filePath)
	}
	return pkg, nil
}

func (m naiveManager) ExtractRoutes(pkg *Package, c criteria.Criteria) []Route {
	routes := make([]Route, 0)
	closures := 0
	for i, f := range pkg.files {
		imports := fileImports(f)
		chained := make(map[*ast.CallExpr][]string)
		ast.Inspect(f, func(n ast.Node) bool {
			callExpr, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			routeCriteria, ok := matchRouteCriteria(callExpr, c.Routes)
			if !ok {
				if inner, methods, ok := chainedMethods(callExpr, c); ok {
					chained[inner] = methods
				}
				return true
			}
			foundRoute := Route{
				File: pkg.paths[i],
				Line: pkg.fset.Position(callExpr.Pos()).Line,
			}
			if err := m.callExprToRoute(pkg, imports, callExpr, routeCriteria, &foundRoute); err != nil {
				m.logger.Printf("skipping call at %s:%d: %v\n", foundRoute.File, foundRoute.Line, err)
				return true
			}
			if methods, ok := chained[callExpr]; ok {
				foundRoute.HTTPMethods = methods
			}
			if foundRoute.Handler.Closure {
				closures++
				foundRoute.Handler.Name = "func" + strconv.Itoa(closures)
			}
			routes = append(routes, foundRoute)
			return true
		})
	}
	return routes
}

func (m naiveManager) FindValue(pkg *Package, v *Variable) error {
	for _, f := range pkg.files {
		for _, decl := range f.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || (genDecl.Tok != token.CONST && genDecl.Tok != token.VAR) {
				continue
			}
			for _, spec := range genDecl.Specs {
				valueSpec, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for j, name := range valueSpec.Names {
					if name.Name != v.Name || j >= len(valueSpec.Values) {
						continue
					}
					value, err := m.stringValue(pkg, valueSpec.Values[j])
					if err != nil {
						return err
					}
					v.Value = value
					return nil
				}
			}
		}
	}
	return ErrNotFound
}

func (m naiveManager) FindFuncDeclaration(pkg *Package, fn *Function) error {
	if fn.Type {
		return m.findTypeDeclaration(pkg, fn)
	}
	for _, f := range pkg.files {
		for _, decl := range f.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Name.Name != fn.Name || (funcDecl.Recv != nil) != fn.Method {
				continue
			}
			memberOf := receiverType(funcDecl)
			if fn.MemberOf != "" && memberOf != fn.MemberOf {
				continue
			}
			fn.MemberOf = memberOf
			fn.Doc = funcDecl.Doc.Text()
			fn.Methods = searchForHTTPMethodSwitch(funcDecl.Body)
			return nil
		}
	}
	return ErrNotFound
}

// findTypeDeclaration documents a handler value with its type doc comment and
// the methods its ServeHTTP method switches on
func (m naiveManager) findTypeDeclaration(pkg *Package, fn *Function) error {
	err := error(ErrNotFound)
	for _, f := range pkg.files {
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					typeSpec, ok := spec.(*ast.TypeSpec)
					if !ok || typeSpec.Name.Name != fn.Name {
						continue
					}
					fn.Doc = typeSpec.Doc.Text()
					if fn.Doc == "" && len(d.Specs) == 1 {
						fn.Doc = d.Doc.Text()
					}
					err = nil
				}
			case *ast.FuncDecl:
				if d.Name.Name == serveHTTP && receiverType(d) == fn.Name {
					fn.Methods = searchForHTTPMethodSwitch(d.Body)
				}
			}
		}
	}
	return err
}

func (m naiveManager) callExprToRoute(pkg *Package, imports map[string]bool, callExpr *ast.CallExpr, routeCriteria criteria.RouteCriteria, r *Route) error {
	pattern, err := m.stringValue(pkg, callExpr.Args[routeCriteria.PathIndex])
	if err != nil {
		return err
	}
	if method, rest, ok := splitMethodPattern(pattern); ok {
		r.HTTPMethods = []string{method}
		pattern = rest
	} else if method := routeCriteria.Method(); method != "" {
		r.HTTPMethods = []string{method}
	}
	if !strings.Contains(pattern, "/") {
		return ErrNotFound
	}
	r.Path = pattern
	extractFunction(callExpr.Args[routeCriteria.HandlerIndex], pkg.Name, imports, &r.Handler)
	if r.Handler.Name == "" && !r.Handler.Closure {
		return ErrNotFound
	}
	return nil
}

// stringValue evaluates string literals, their concatenations and the package
// level constants and variables holding them
func (m naiveManager) stringValue(pkg *Package, expr ast.Expr) (string, error) {
	switch x := expr.(type) {
	case *ast.BasicLit:
		if x.Kind == token.STRING {
			return strconv.Unquote(x.Value)
		}
	case *ast.ParenExpr:
		return m.stringValue(pkg, x.X)
	case *ast.BinaryExpr:
		if x.Op == token.ADD {
			left, err := m.stringValue(pkg, x.X)
			if err != nil {
				return "", err
			}
			right, err := m.stringValue(pkg, x.Y)
			if err != nil {
				return "", err
			}
			return left + right, nil
		}
	case *ast.Ident:
		v := Variable{Name: x.Name}
		if err := m.FindValue(pkg, &v); err != nil {
			return "", err
		}
		return v.Value, nil
	}
	return "", ErrNotFound
}

func astForFile(filePath string, fset *token.FileSet) (*ast.File, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return astForReader(filePath, f, fset)
}

func astForReader(filePath string, r io.Reader, fset *token.FileSet) (*ast.File, error) {
	src, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parser.ParseFile(fset, filePath, src, parser.ParseComments)
}

// fileImports returns the names a file refers to its imports by
func fileImports(f *ast.File) map[string]bool {
	imports := make(map[string]bool, len(f.Imports))
	for _, imp := range f.Imports {
		if imp.Name != nil {
			imports[imp.Name.Name] = true
			continue
		}
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(importPath)
		if majorVersion.MatchString(name) {
			name = path.Base(path.Dir(importPath))
		}
		imports[name] = true
	}
	return imports
}

// callName returns the qualifier and the name of a called function, as in mux and HandleFunc
func callName(callExpr *ast.CallExpr) (string, string) {
	switch fun := callExpr.Fun.(type) {
	case *ast.Ident:
		return "", fun.Name
	case *ast.SelectorExpr:
		if ident, ok := fun.X.(*ast.Ident); ok {
			return ident.Name, fun.Sel.Name
		}
		return "", fun.Sel.Name
	}
	return "", ""
}

func matchRouteCriteria(callExpr *ast.CallExpr, criterias []criteria.RouteCriteria) (criteria.RouteCriteria, bool) {
	qualifier, name := callName(callExpr)
	for _, rc := range criterias {
		if name != rc.FuncName || (rc.Pkg != "" && qualifier != rc.Pkg) {
			continue
		}
		argsLen := len(callExpr.Args)
		if rc.PathIndex >= argsLen || rc.HandlerIndex >= argsLen {
			continue
		}
		return rc, true
	}
	return criteria.RouteCriteria{}, false
}

// chainedMethods matches r.HandleFunc(...).Methods("GET") and returns the route
// registration the methods apply to
func chainedMethods(callExpr *ast.CallExpr, c criteria.Criteria) (*ast.CallExpr, []string, bool) {
	sel, ok := callExpr.Fun.(*ast.SelectorExpr)
	if !ok || !contains(c.Methods, sel.Sel.Name) {
		return nil, nil, false
	}
	methods := make([]string, 0, len(callExpr.Args))
	for _, arg := range callExpr.Args {
		if m := methodName(arg); m != "" {
			methods = append(methods, m)
		}
	}
	for x := sel.X; ; {
		inner, ok := x.(*ast.CallExpr)
		if !ok {
			return nil, nil, false
		}
		if _, ok := matchRouteCriteria(inner, c.Routes); ok {
			return inner, methods, true
		}
		innerSel, ok := inner.Fun.(*ast.SelectorExpr)
		if !ok {
			return nil, nil, false
		}
		x = innerSel.X
	}
}

// methodName reads an HTTP method out of "GET", http.MethodGet or MethodGet
func methodName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.BasicLit:
		if x.Kind != token.STRING {
			return ""
		}
		value, err := strconv.Unquote(x.Value)
		if err != nil {
			return ""
		}
		return criteria.MatchHTTPMethod(value)
	case *ast.SelectorExpr:
		return criteria.MatchHTTPMethod(x.Sel.Name)
	case *ast.Ident:
		return criteria.MatchHTTPMethod(x.Name)
	}
	return ""
}

// splitMethodPattern splits the "GET /path" patterns of net/http
func splitMethodPattern(pattern string) (string, string, bool) {
	space := strings.IndexAny(pattern, " \t")
	if space <= 0 {
		return "", "", false
	}
	method := pattern[:space]
	if strings.ToUpper(method) != method || strings.ContainsAny(method, "/{") {
		return "", "", false
	}
	return method, strings.TrimLeft(pattern[space:], " \t"), true
}

func extractFunction(n ast.Node, pkgName string, imports map[string]bool, fn *Function) {
	switch x := n.(type) {
	case *ast.Ident:
		if x.Name == "nil" {
			return
		}
		fn.Pkg = pkgName
		fn.Name = x.Name
	case *ast.SelectorExpr:
		ident, ok := x.X.(*ast.Ident)
		if ok && imports[ident.Name] {
			fn.Pkg = ident.Name
		} else {
			fn.Pkg = pkgName
			fn.Method = true
		}
		fn.Name = x.Sel.Name
	case *ast.FuncLit:
		fn.Pkg = pkgName
		fn.Closure = true
	case *ast.UnaryExpr:
		extractFunction(x.X, pkgName, imports, fn)
	case *ast.CompositeLit:
		extractFunction(x.Type, pkgName, imports, fn)
		fn.Type = true
		fn.Method = false
	case *ast.CallExpr:
		_, name := callName(x)
		if name == handlerFuncConversion && len(x.Args) == 1 {
			extractFunction(x.Args[0], pkgName, imports, fn)
			return
		}
		extractFunction(x.Fun, pkgName, imports, fn)
	}
}

// receiverType returns the receiver type name of a method, pointers and type parameters aside
func receiverType(funcDecl *ast.FuncDecl) string {
	if funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
		return ""
	}
	expr := funcDecl.Recv.List[0].Type
	for {
		switch x := expr.(type) {
		case *ast.StarExpr:
			expr = x.X
		case *ast.IndexExpr:
			expr = x.X
		case *ast.Ident:
			return x.Name
		default:
			return ""
		}
	}
}

func contains(items []string, item string) bool {
	for _, i := range items {
		if i == item {
			return true
		}
	}
	return false
}
