// Package godoc resolves handler functions to their source declarations and
// reads their doc comments.
package godoc

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/javiercbk/autohttp/folder"
)

const (
	autogenerated  = "<autogenerated>"
	methodValueTag = "-fm"
)

var (
	defaultBlackList = []*regexp.Regexp{
		regexp.MustCompile(".*_test\\.go"),
		regexp.MustCompile(".*" + string(os.PathSeparator) + "testdata" + string(os.PathSeparator) + ".*"),
	}
	closureRegexp = regexp.MustCompile(`^func\d+$`)
)

// Symbol is a named function or method found in a running binary
type Symbol struct {
	PkgPath string
	Recv    string
	Name    string
	File    string
}

// PkgName is the last element of the package path
func (s Symbol) PkgName() string {
	return s.PkgPath[strings.LastIndex(s.PkgPath, "/")+1:]
}

// Key is the name of the declaration inside its package
func (s Symbol) Key() string {
	if s.Recv != "" {
		return s.Recv + "." + s.Name
	}
	return s.Name
}

// Lookup resolves a function value to its symbol. Closures are not resolvable.
func Lookup(fn interface{}) (Symbol, bool) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return Symbol{}, false
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return Symbol{}, false
	}
	s, ok := ParseSymbol(f.Name())
	if !ok {
		return s, false
	}
	file, _ := f.FileLine(f.Entry())
	if file != autogenerated && folder.IsGoFile(file) {
		s.File = file
	}
	return s, true
}

// FuncName is the runtime name of a function value, empty for anything else
func FuncName(fn interface{}) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return strings.TrimSuffix(f.Name(), methodValueTag)
	}
	return ""
}

// ParseSymbol splits a runtime function name such as
// github.com/acme/api.(*Users).Get-fm into its parts.
func ParseSymbol(name string) (Symbol, bool) {
	name = strings.TrimSuffix(name, methodValueTag)
	if i := strings.IndexByte(name, '['); i >= 0 {
		if j := strings.LastIndexByte(name, ']'); j > i {
			name = name[:i] + name[j+1:]
		}
	}
	slash := strings.LastIndex(name, "/")
	dot := strings.IndexByte(name[slash+1:], '.')
	if dot < 0 {
		return Symbol{}, false
	}
	dot += slash + 1
	s := Symbol{PkgPath: strings.ReplaceAll(name[:dot], "%2e", ".")}
	parts := strings.Split(name[dot+1:], ".")
	switch len(parts) {
	case 1:
		s.Name = parts[0]
	case 2:
		if closureRegexp.MatchString(parts[1]) {
			return s, false
		}
		s.Recv = strings.TrimSuffix(strings.TrimPrefix(parts[0], "(*"), ")")
		s.Name = parts[1]
	default:
		return s, false
	}
	if s.Name == "" || closureRegexp.MatchString(s.Name) {
		return s, false
	}
	return s, true
}

// Index holds doc comments of parsed packages. It is not safe for concurrent use.
// Resolve, when set, locates the sources of packages the index has not seen yet.
type Index struct {
	Logger    *log.Logger
	BlackList []*regexp.Regexp
	Resolve   func(pkgPath string) (string, bool)
	dirs      map[string]string
	loaded    map[string]bool
	docs      map[string]string
}

// NewIndex creates an index reading every go file of a package
func NewIndex(logger *log.Logger) *Index {
	return &Index{
		Logger: logger,
		dirs:   make(map[string]string),
		loaded: make(map[string]bool),
		docs:   make(map[string]string),
	}
}

// NewIndexWithoutTest creates an index ignoring test files and testdata
func NewIndexWithoutTest(logger *log.Logger) *Index {
	idx := NewIndex(logger)
	idx.BlackList = defaultBlackList
	return idx
}

// AddPackage tells the index where the sources of a package live
func (idx *Index) AddPackage(pkgPath, dir string) {
	idx.dirs[pkgPath] = dir
}

// FuncDoc returns the doc comment of a function value
func (idx *Index) FuncDoc(fn interface{}) string {
	s, ok := Lookup(fn)
	if !ok {
		return ""
	}
	return idx.Doc(s)
}

// Doc returns the doc comment of a symbol, or an empty string when it cannot be found
func (idx *Index) Doc(s Symbol) string {
	return idx.lookup(idx.dirFor(s), s.Key())
}

func (idx *Index) lookup(dir, key string) string {
	if dir == "" {
		return ""
	}
	if err := idx.LoadDir(dir); err != nil {
		return ""
	}
	return idx.docs[docKey(dir, key)]
}

// TypeDoc returns the doc comment of a named type
func (idx *Index) TypeDoc(t reflect.Type) string {
	t = indirect(t)
	return idx.lookup(idx.typeDir(t), t.Name())
}

// MethodDoc returns the doc comment of a method of a named type
func (idx *Index) MethodDoc(t reflect.Type, method string) string {
	t = indirect(t)
	return idx.lookup(idx.typeDir(t), t.Name()+"."+method)
}

// LoadDir parses every go file of a directory once
func (idx *Index) LoadDir(dir string) error {
	if idx.loaded[dir] {
		return nil
	}
	goFiles, err := folder.ListGoFiles(dir, idx.BlackList)
	if err != nil {
		idx.Logger.Printf("error listing go files for path %s: %v\n", dir, err)
		return err
	}
	for _, goFile := range goFiles {
		if err = idx.loadFile(dir, goFile); err != nil {
			return err
		}
	}
	idx.loaded[dir] = true
	return nil
}

func (idx *Index) loadFile(dir, filePath string) error {
	idx.Logger.Printf("parsing ast from file %s\n", filePath)
	fset := token.NewFileSet()
	f, err := astForFile(filePath, fset)
	if err != nil {
		idx.Logger.Printf("error parsing ast from file %s: %v\n", filePath, err)
		return err
	}
	for _, d := range f.Decls {
		switch x := d.(type) {
		case *ast.FuncDecl:
			if x.Doc != nil {
				idx.docs[docKey(dir, funcKey(x))] = x.Doc.Text()
			}
		case *ast.GenDecl:
			if x.Tok != token.TYPE {
				continue
			}
			for _, spec := range x.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(x.Specs) == 1 {
					doc = x.Doc
				}
				if doc != nil {
					idx.docs[docKey(dir, ts.Name.Name)] = doc.Text()
				}
			}
		}
	}
	return nil
}

// Locate records where the sources of the package of s live, when s knows its file.
// Method values do not, so locating another symbol of the same package first helps.
func (idx *Index) Locate(s Symbol) {
	idx.dirFor(s)
}

func (idx *Index) dirFor(s Symbol) string {
	if s.File != "" {
		dir := filepath.Dir(s.File)
		if s.PkgPath != "" {
			idx.dirs[s.PkgPath] = dir
		}
		return dir
	}
	if dir, ok := idx.dirs[s.PkgPath]; ok {
		return dir
	}
	if idx.Resolve != nil {
		if dir, ok := idx.Resolve(s.PkgPath); ok {
			idx.dirs[s.PkgPath] = dir
			return dir
		}
	}
	return ""
}

// typeDir finds the source directory of a type through any of its methods
func (idx *Index) typeDir(t reflect.Type) string {
	if dir := idx.dirFor(Symbol{PkgPath: t.PkgPath()}); dir != "" {
		return dir
	}
	for _, candidate := range []reflect.Type{t, reflect.PtrTo(t)} {
		for i := 0; i < candidate.NumMethod(); i++ {
			s, ok := Lookup(candidate.Method(i).Func.Interface())
			if ok && s.File != "" {
				return idx.dirFor(s)
			}
		}
	}
	return ""
}

// funcKey mirrors Symbol.Key for a declaration
func funcKey(x *ast.FuncDecl) string {
	if x.Recv == nil || len(x.Recv.List) == 0 {
		return x.Name.Name
	}
	return receiverName(x.Recv.List[0].Type) + "." + x.Name.Name
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	}
	return ""
}

func docKey(dir, key string) string {
	return dir + "#" + key
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
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
