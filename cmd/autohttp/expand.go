package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/javiercbk/autohttp"
	"github.com/javiercbk/autohttp/engine"
)

var expandCmd = &cli.Command{
	Name:      "expand",
	Usage:     "replace the autohttp directives of a reStructuredText document by the routes they document",
	ArgsUsage: "<document.rst>",
	Flags: []cli.Flag{
		outputFlag,
	},
	Action: expand,
}

func expand(cctx *cli.Context) error {
	logger := newLogger(cctx)
	if cctx.NArg() != 1 {
		return errors.Wrap(ErrArguments, "expand expects one document")
	}
	in, err := os.Open(cctx.Args().First())
	if err != nil {
		logger.Printf("error opening document: %v\n", err)
		return err
	}
	defer in.Close()
	w, err := openOutput(cctx.String("output"))
	if err != nil {
		return err
	}
	defer w.Close()
	autohttp.DefaultRegistry.Logger = logger
	e := engine.New(logger)
	autohttp.Setup(e, autohttp.DefaultRegistry)
	return e.Expand(in, w)
}
