package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/javiercbk/autohttp/adapter/astroute"
	"github.com/javiercbk/autohttp/criteria"
)

var scanCmd = &cli.Command{
	Name:      "scan",
	Usage:     "render the routes registered in the source code under a directory",
	ArgsUsage: "<dir>",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "criteria", Usage: "match route registrations with a YAML `FILE`, net/http, chi and gorilla/mux by default"},
	}, renderFlags...),
	Action: scan,
}

func scan(cctx *cli.Context) error {
	logger := newLogger(cctx)
	if cctx.NArg() != 1 {
		return errors.Wrap(ErrArguments, "scan expects one directory")
	}
	opts, err := loadOptions(cctx)
	if err != nil {
		logger.Printf("error loading options: %v\n", err)
		return err
	}
	c := criteria.Default()
	if path := cctx.String("criteria"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		c = criteria.Criteria{}
		if err := criteria.NewCriteriaDecoder(logger).ParseCriteriaFromYAML(f, &c); err != nil {
			return errors.Wrapf(err, "criteria %s", path)
		}
	}
	app, err := astroute.NewScanner(c, logger).Scan(cctx.Args().First())
	if err != nil {
		return err
	}
	return renderApp(cctx, logger, app, opts)
}
