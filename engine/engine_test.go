package engine

import (
	"bytes"
	"io/ioutil"
	"log"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autohttpErrors "github.com/javiercbk/autohttp/errors"
)

func newEngine() *Engine {
	return New(log.New(ioutil.Discard, "", log.LstdFlags))
}

func TestEnsureDomain(t *testing.T) {
	e := newEngine()
	assert.True(t, e.EnsureDomain(Domain{Name: "http", Directives: []string{"http:get"}}))
	assert.False(t, e.EnsureDomain(Domain{Name: "http"}))
	assert.True(t, e.EnsureDomain(Domain{Name: "c"}))
	assert.Equal(t, []string{"c", "http"}, e.Domains())
	assert.True(t, e.HasDomain("http"))
	assert.False(t, e.HasDomain("py"))
}

func TestRunUnknownDirective(t *testing.T) {
	_, err := newEngine().Run("missing", Context{})
	assert.Equal(t, autohttpErrors.ErrUnknownDirective, errors.Cause(err))
}

func TestParseBlock(t *testing.T) {
	ctx := parseBlock("pkg.App  extra", []string{
		"   :endpoints: a, b",
		"   :undoc-static:",
		"",
		"      indented",
		"   content",
		"",
	})
	assert.Equal(t, []string{"pkg.App", "extra"}, ctx.Arguments)
	assert.Equal(t, map[string]string{"endpoints": "a, b", "undoc-static": ""}, ctx.Options)
	assert.Equal(t, []string{"   indented", "content"}, ctx.Content)
}

func TestExpand(t *testing.T) {
	type params struct {
		doc string
	}
	type expected struct {
		out string
		ctx Context
	}
	tests := []struct {
		name     string
		params   params
		expected expected
	}{
		{
			name:     "should copy documents without directives",
			params:   params{doc: "Title\n=====\n\n.. note:: untouched\n   body\n"},
			expected: expected{out: "Title\n=====\n\n.. note:: untouched\n   body\n"},
		},
		{
			name:   "should replace a directive block",
			params: params{doc: "Intro\n\n.. echo:: one two\n   :flag:\n\n   hello\n\nOutro\n"},
			expected: expected{
				out: "Intro\n\nechoed one\nhello\n\nOutro\n",
				ctx: Context{
					Arguments: []string{"one", "two"},
					Options:   map[string]string{"flag": ""},
					Content:   []string{"hello"},
				},
			},
		},
		{
			name:   "should indent output like the directive",
			params: params{doc: "- item\n\n  .. echo:: nested\n"},
			expected: expected{
				out: "- item\n\n  echoed nested\n",
				ctx: Context{
					Arguments: []string{"nested"},
					Options:   map[string]string{},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine()
			var got Context
			e.AddDirective("echo", func(ctx Context) ([]string, error) {
				got = ctx
				lines := []string{"echoed " + ctx.Arguments[0]}
				return append(lines, ctx.Content...), nil
			})
			var out bytes.Buffer
			require.NoError(t, e.Expand(strings.NewReader(tt.params.doc), &out))
			assert.Equal(t, tt.expected.out, out.String())
			if tt.expected.ctx.Arguments != nil {
				assert.Equal(t, tt.expected.ctx, got)
			}
		})
	}
}

func TestExpandDirectiveError(t *testing.T) {
	e := newEngine()
	e.AddDirective("fail", func(ctx Context) ([]string, error) {
		return nil, autohttpErrors.ErrNotFound
	})
	var out bytes.Buffer
	err := e.Expand(strings.NewReader("\n.. fail::\n"), &out)
	assert.Equal(t, autohttpErrors.ErrNotFound, errors.Cause(err))
	assert.Contains(t, err.Error(), "directive fail at line 2")
}
