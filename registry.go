package autohttp

import (
	"go/token"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/mod/module"

	autohttpErrors "github.com/javiercbk/autohttp/errors"
	"github.com/javiercbk/autohttp/view"
)

// Registry maps application references to applications. Go cannot import an
// object by name at run time so applications register themselves, usually
// from an init function.
type Registry struct {
	Logger *log.Logger
	mu     sync.RWMutex
	apps   map[string]view.Application
}

// DefaultRegistry is the registry used by Register and Resolve
var DefaultRegistry = NewRegistry(log.New(ioutil.Discard, "", log.LstdFlags))

// NewRegistry creates an empty registry
func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		Logger: logger,
		apps:   make(map[string]view.Application),
	}
}

// Register adds an application to the default registry
func Register(ref string, app view.Application) error {
	return DefaultRegistry.Register(ref, app)
}

// Resolve finds an application in the default registry
func Resolve(ref string) (view.Application, error) {
	return DefaultRegistry.Resolve(ref)
}

// ParseReference splits import/path.Name into its package path and identifier
func ParseReference(ref string) (string, string, error) {
	slash := strings.LastIndex(ref, "/")
	dot := strings.LastIndex(ref, ".")
	if dot <= slash || dot == len(ref)-1 {
		return "", "", errors.Wrap(autohttpErrors.ErrInvalidReference, ref)
	}
	pkgPath, name := ref[:dot], ref[dot+1:]
	if err := module.CheckImportPath(pkgPath); err != nil {
		return "", "", errors.Wrapf(autohttpErrors.ErrInvalidReference, "%s: %v", ref, err)
	}
	if !token.IsIdentifier(name) {
		return "", "", errors.Wrapf(autohttpErrors.ErrInvalidReference, "%s: %s is not an identifier", ref, name)
	}
	return pkgPath, name, nil
}

// Register adds an application under a fully qualified reference
func (reg *Registry) Register(ref string, app view.Application) error {
	if _, _, err := ParseReference(ref); err != nil {
		reg.Logger.Printf("error registering application %s: %v\n", ref, err)
		return err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.apps[ref] = app
	return nil
}

// Resolve returns the application registered under ref. A reference naming a
// YAML manifest file is loaded from disk. Anything else is an error.
func (reg *Registry) Resolve(ref string) (view.Application, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrMissingApp
	}
	reg.mu.RLock()
	app, ok := reg.apps[ref]
	reg.mu.RUnlock()
	if ok {
		return app, nil
	}
	if isManifest(ref) {
		return reg.loadManifest(ref)
	}
	if _, _, err := ParseReference(ref); err != nil {
		reg.Logger.Printf("error resolving application %s: %v\n", ref, err)
		return nil, err
	}
	reg.Logger.Printf("application %s is not registered\n", ref)
	return nil, errors.Wrap(autohttpErrors.ErrAppNotFound, ref)
}

func (reg *Registry) loadManifest(filePath string) (view.Application, error) {
	reg.Logger.Printf("loading manifest %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		reg.Logger.Printf("error opening manifest %s: %v\n", filePath, err)
		return nil, errors.Wrap(autohttpErrors.ErrAppNotFound, err.Error())
	}
	defer f.Close()
	app, err := view.NewManifestDecoder(reg.Logger).LoadApp(f)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", filePath)
	}
	return app, nil
}

func isManifest(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
