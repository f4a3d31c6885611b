// Package gomod reads go.mod files to find where the packages of a module live.
package gomod

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// Module is the part of a go.mod file needed to locate package sources.
// ModCache is the module cache required modules are read from.
type Module struct {
	Name     string
	Dir      string
	ModCache string
	Require  map[string]string
	Replace  map[string]string
}

// DefaultModCache returns GOMODCACHE, GOPATH/pkg/mod when unset
func DefaultModCache() string {
	if dir := os.Getenv("GOMODCACHE"); dir != "" {
		return dir
	}
	gopath := filepath.SplitList(build.Default.GOPATH)
	if len(gopath) == 0 {
		return ""
	}
	return filepath.Join(gopath[0], "pkg", "mod")
}

// Read parses the go.mod file at path
func Read(path string) (Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Module{}, err
	}
	file, err := modfile.Parse(path, data, nil)
	if err != nil {
		return Module{}, err
	}
	mod := Module{
		Dir:      filepath.Dir(path),
		ModCache: DefaultModCache(),
	}
	if file.Module != nil {
		mod.Name = file.Module.Mod.Path
	}
	mod.Require = make(map[string]string, len(file.Require))
	for _, require := range file.Require {
		mod.Require[require.Mod.Path] = require.Mod.Version
	}
	mod.Replace = make(map[string]string, len(file.Replace))
	for _, replace := range file.Replace {
		mod.Replace[replace.Old.Path] = replace.New.Path
	}
	return mod, nil
}

// SplitModulePackage splits an import path into a required module and the package
// inside it. The longest module wins when required modules are nested.
func (m Module) SplitModulePackage(url string) (string, string) {
	found := ""
	for pkg := range m.Require {
		if strings.HasPrefix(url, pkg+"/") && len(pkg) > len(found) {
			found = pkg
		}
	}
	if found == "" {
		return "", ""
	}
	return found, url[len(found)+1:]
}

// PackageDir returns the source directory of a package of the module itself,
// of a module replaced by a local directory or of a required module already
// downloaded to the module cache
func (m Module) PackageDir(pkgPath string) (string, bool) {
	if dir, ok := within(m.Name, m.Dir, pkgPath); ok {
		return dir, true
	}
	for old, replacement := range m.Replace {
		if !isLocal(replacement) {
			continue
		}
		root := replacement
		if !filepath.IsAbs(root) {
			root = filepath.Join(m.Dir, root)
		}
		if dir, ok := within(old, root, pkgPath); ok {
			return dir, true
		}
	}
	return m.cachedPackageDir(pkgPath)
}

func (m Module) cachedPackageDir(pkgPath string) (string, bool) {
	if m.ModCache == "" {
		return "", false
	}
	modPath, pkg := pkgPath, ""
	if _, ok := m.Require[pkgPath]; !ok {
		modPath, pkg = m.SplitModulePackage(pkgPath)
		if modPath == "" {
			return "", false
		}
	}
	escapedPath, err := module.EscapePath(modPath)
	if err != nil {
		return "", false
	}
	escapedVersion, err := module.EscapeVersion(m.Require[modPath])
	if err != nil {
		return "", false
	}
	dir := filepath.Join(m.ModCache, filepath.FromSlash(escapedPath+"@"+escapedVersion), filepath.FromSlash(pkg))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", false
	}
	return dir, true
}

func within(modPath, root, pkgPath string) (string, bool) {
	if modPath == "" {
		return "", false
	}
	if pkgPath == modPath {
		return root, true
	}
	if strings.HasPrefix(pkgPath, modPath+"/") {
		return filepath.Join(root, filepath.FromSlash(pkgPath[len(modPath)+1:])), true
	}
	return "", false
}

// isLocal mirrors the go command: local replacements start with ./ ../ or /
func isLocal(path string) bool {
	return strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") || filepath.IsAbs(path)
}
