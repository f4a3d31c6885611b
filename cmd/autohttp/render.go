package main

import (
	"log"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/javiercbk/autohttp"
	"github.com/javiercbk/autohttp/encoding/rst"
	"github.com/javiercbk/autohttp/encoding/swagger"
	"github.com/javiercbk/autohttp/gomod"
	"github.com/javiercbk/autohttp/view"
)

const (
	formatRST     = "rst"
	formatSwagger = "swagger"
)

var renderFlags = []cli.Flag{
	&cli.StringFlag{Name: autohttp.OptEndpoints, Usage: "comma separated endpoints to document"},
	&cli.StringFlag{Name: autohttp.OptBlueprints, Usage: "comma separated blueprints to document"},
	&cli.StringFlag{Name: autohttp.OptUndocEndpoints, Usage: "comma separated endpoints to leave out"},
	&cli.StringFlag{Name: autohttp.OptUndocBlueprints, Usage: "comma separated blueprints to leave out"},
	&cli.BoolFlag{Name: autohttp.OptUndocStatic, Usage: "leave the static file route out"},
	&cli.BoolFlag{Name: autohttp.OptIncludeEmptyDocstring, Usage: "document routes without documentation"},
	&cli.BoolFlag{Name: autohttp.OptTOCFiltered, Usage: "list only documented routes in the table of contents"},
	&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "read options from a YAML `FILE`, flags take precedence"},
	&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: formatRST, Usage: "output format, rst or swagger"},
	&cli.StringFlag{Name: "title", Usage: "swagger title, the module path of --gomod by default"},
	&cli.StringFlag{Name: "api-version", Usage: "swagger version of the API"},
	&cli.StringFlag{Name: "gomod", Value: "go.mod", Usage: "go.mod `FILE` naming the documented module"},
	&cli.BoolFlag{Name: "stamp", Usage: "record the git revision of the working directory"},
	outputFlag,
}

var renderCmd = &cli.Command{
	Name:      "render",
	Usage:     "render the routes of an application",
	ArgsUsage: "<manifest.yaml | import/path.Name>",
	Flags:     renderFlags,
	Action:    render,
}

func render(cctx *cli.Context) error {
	logger := newLogger(cctx)
	if cctx.NArg() != 1 {
		return errors.Wrap(ErrArguments, "render expects one application reference")
	}
	opts, err := loadOptions(cctx)
	if err != nil {
		logger.Printf("error loading options: %v\n", err)
		return err
	}
	autohttp.DefaultRegistry.Logger = logger
	app, err := autohttp.Resolve(cctx.Args().First())
	if err != nil {
		return err
	}
	return renderApp(cctx, logger, app, opts)
}

// renderApp writes the routes of app in the --format requested
func renderApp(cctx *cli.Context, logger *log.Logger, app view.Application, opts autohttp.Options) error {
	var err error
	stamp := ""
	if cctx.Bool("stamp") {
		stamp, err = revision(".")
		if err != nil {
			logger.Printf("error reading git revision: %v\n", err)
			return errors.Wrap(err, "stamp")
		}
	}
	w, err := openOutput(cctx.String("output"))
	if err != nil {
		return err
	}
	defer w.Close()
	d := autohttp.NewDirective(app, opts, logger)
	switch format := cctx.String("format"); format {
	case formatRST:
		if stamp != "" {
			if err := rst.WriteLines(revisionComment(stamp), w); err != nil {
				return err
			}
		}
		return d.Render(w)
	case formatSwagger:
		info := openapi3.Info{
			Title:   title(cctx, logger),
			Version: cctx.String("api-version"),
		}
		if stamp != "" {
			info.Description = "Generated from revision " + stamp
		}
		return swagger.MarshalYAML(swagger.NewEncoder(logger).Build(info, d.Documented()), w)
	default:
		return errors.Wrap(ErrUnknownFormat, format)
	}
}

// loadOptions reads the --config file then applies the flags given on the command line
func loadOptions(cctx *cli.Context) (autohttp.Options, error) {
	opts := autohttp.Options{}
	if path := cctx.String("config"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return opts, err
		}
		defer f.Close()
		if err := autohttp.NewDecoder(newLogger(cctx)).ParseOptionsFromYAML(f, &opts); err != nil {
			return opts, errors.Wrapf(err, "config %s", path)
		}
	}
	lists := map[string]*[]string{
		autohttp.OptEndpoints:       &opts.Endpoints,
		autohttp.OptBlueprints:      &opts.Blueprints,
		autohttp.OptUndocEndpoints:  &opts.UndocEndpoints,
		autohttp.OptUndocBlueprints: &opts.UndocBlueprints,
	}
	for name, list := range lists {
		if cctx.IsSet(name) {
			*list = autohttp.SplitList(cctx.String(name))
		}
	}
	flags := map[string]*bool{
		autohttp.OptUndocStatic:           &opts.UndocStatic,
		autohttp.OptIncludeEmptyDocstring: &opts.IncludeEmptyDocstring,
		autohttp.OptTOCFiltered:           &opts.TOCFiltered,
	}
	for name, flag := range flags {
		if cctx.IsSet(name) {
			*flag = cctx.Bool(name)
		}
	}
	return opts, nil
}

func title(cctx *cli.Context, logger *log.Logger) string {
	if t := cctx.String("title"); t != "" {
		return t
	}
	mod, err := gomod.Read(cctx.String("gomod"))
	if err != nil {
		logger.Printf("error reading module file %s: %v\n", cctx.String("gomod"), err)
		return cctx.Args().First()
	}
	return mod.Name
}
