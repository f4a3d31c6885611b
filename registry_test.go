package autohttp

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autohttpErrors "github.com/javiercbk/autohttp/errors"
	"github.com/javiercbk/autohttp/view"
)

func TestParseReference(t *testing.T) {
	type expected struct {
		pkgPath string
		name    string
		err     error
	}
	tests := []struct {
		name     string
		ref      string
		expected expected
	}{
		{
			name:     "should split a module path",
			ref:      "github.com/acme/shop/api.App",
			expected: expected{pkgPath: "github.com/acme/shop/api", name: "App"},
		},
		{
			name:     "should split a dotted last element",
			ref:      "example.com/v2/web.app.Routes",
			expected: expected{pkgPath: "example.com/v2/web.app", name: "Routes"},
		},
		{
			name:     "should reject a reference without a name",
			ref:      "github.com/acme/shop",
			expected: expected{err: autohttpErrors.ErrInvalidReference},
		},
		{
			name:     "should reject a trailing dot",
			ref:      "github.com/acme/shop.",
			expected: expected{err: autohttpErrors.ErrInvalidReference},
		},
		{
			name:     "should reject a name that is not an identifier",
			ref:      "github.com/acme/shop.1App",
			expected: expected{err: autohttpErrors.ErrInvalidReference},
		},
		{
			name:     "should reject an invalid import path",
			ref:      "github.com/acme//shop.App",
			expected: expected{err: autohttpErrors.ErrInvalidReference},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkgPath, name, err := ParseReference(tt.ref)
			if tt.expected.err != nil {
				assert.Equal(t, tt.expected.err, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.pkgPath, pkgPath)
			assert.Equal(t, tt.expected.name, name)
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(discardLogger())
	app := view.NewApp()
	require.NoError(t, reg.Register("github.com/acme/shop.App", app))
	assert.Equal(t, autohttpErrors.ErrInvalidReference, errors.Cause(reg.Register("shop", app)))

	resolved, err := reg.Resolve(" github.com/acme/shop.App ")
	require.NoError(t, err)
	assert.Equal(t, app, resolved)

	_, err = reg.Resolve("github.com/acme/shop.Other")
	assert.Equal(t, autohttpErrors.ErrAppNotFound, errors.Cause(err))

	_, err = reg.Resolve("not a reference")
	assert.Equal(t, autohttpErrors.ErrInvalidReference, errors.Cause(err))

	_, err = reg.Resolve("")
	assert.Equal(t, ErrMissingApp, err)
}

func TestRegistryResolveManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "app.yaml")
	require.NoError(t, ioutil.WriteFile(manifest, []byte(`
routes:
  - pattern: /users/<int:id>
    endpoint: user_detail
    doc: Get a user.
`), 0644))

	reg := NewRegistry(discardLogger())
	app, err := reg.Resolve(manifest)
	require.NoError(t, err)
	v, ok := app.View("user_detail")
	require.True(t, ok)
	assert.Equal(t, "Get a user.", v.Docstring("GET"))

	_, err = reg.Resolve(filepath.Join(dir, "missing.yml"))
	assert.Equal(t, autohttpErrors.ErrAppNotFound, errors.Cause(err))

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, ioutil.WriteFile(broken, []byte("routes:\n  - endpoint: x\n"), 0644))
	_, err = reg.Resolve(broken)
	assert.Equal(t, view.ErrMissingPattern, errors.Cause(err))
}

func TestDefaultRegistry(t *testing.T) {
	app := view.NewApp()
	require.NoError(t, Register("example.com/default/registry.App", app))
	resolved, err := Resolve("example.com/default/registry.App")
	require.NoError(t, err)
	assert.Equal(t, app, resolved)
}
