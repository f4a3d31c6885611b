package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

type cmdError string

func (c cmdError) Error() string {
	return string(c)
}

const (
	// ErrUnknownFormat is returned when render is asked for a format it cannot write
	ErrUnknownFormat cmdError = "unknown output format"
	// ErrArguments is returned when a command receives the wrong number of arguments
	ErrArguments cmdError = "wrong number of arguments"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "autohttp: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "autohttp",
		Usage: "document the routes of HTTP applications as reStructuredText",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every skipped route to stderr",
			},
		},
		Commands: []*cli.Command{
			renderCmd,
			scanCmd,
			expandCmd,
		},
	}
}

func newLogger(cctx *cli.Context) *log.Logger {
	if cctx.Bool("verbose") {
		return log.New(os.Stderr, "autohttp ", log.LstdFlags)
	}
	return log.New(ioutil.Discard, "", log.LstdFlags)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// openOutput opens the output file, stdout when path is empty or -
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "write to `FILE` instead of stdout",
}
