package autohttp

import (
	"github.com/javiercbk/autohttp/encoding/rst"
	"github.com/javiercbk/autohttp/engine"
)

// DirectiveName is the name documents use, as in ".. autohttp:: import/path.App"
const DirectiveName = "autohttp"

// Setup registers the http domain, unless already present, and the autohttp
// directive resolving applications from reg. Calling it twice is harmless.
func Setup(e *engine.Engine, reg *Registry) {
	e.EnsureDomain(engine.Domain{
		Name:       rst.DomainName,
		Directives: rst.DirectiveNames(),
	})
	e.AddDirective(DirectiveName, func(ctx engine.Context) ([]string, error) {
		if len(ctx.Arguments) == 0 {
			return nil, ErrMissingApp
		}
		app, err := reg.Resolve(ctx.Arguments[0])
		if err != nil {
			return nil, err
		}
		opts, err := ParseOptions(ctx.Options)
		if err != nil {
			e.Logger.Printf("error parsing %s options: %v\n", DirectiveName, err)
			return nil, err
		}
		return NewDirective(app, opts, e.Logger).Lines(), nil
	})
}
