package autohttp

import (
	"io"
	"log"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"
)

// OptionErr is returned when directive options cannot be parsed
type OptionErr string

func (o OptionErr) Error() string {
	return string(o)
}

const (
	// ErrUnknownOption is returned when a directive receives an option it does not support
	ErrUnknownOption OptionErr = "unknown directive option"
	// ErrMissingApp is returned when the directive has no application reference
	ErrMissingApp OptionErr = "missing application reference"

	// OptEndpoints is the comma separated endpoint allow-list
	OptEndpoints = "endpoints"
	// OptBlueprints is the comma separated blueprint allow-list
	OptBlueprints = "blueprints"
	// OptUndocEndpoints is the comma separated endpoint deny-list
	OptUndocEndpoints = "undoc-endpoints"
	// OptUndocBlueprints is the comma separated blueprint deny-list
	OptUndocBlueprints = "undoc-blueprints"
	// OptUndocStatic excludes the static file route
	OptUndocStatic = "undoc-static"
	// OptIncludeEmptyDocstring documents routes without documentation
	OptIncludeEmptyDocstring = "include-empty-docstring"
	// OptTOCFiltered builds the table of contents from the documented routes only
	OptTOCFiltered = "toc-filtered"
)

var listSeparator = regexp.MustCompile(`\s*,\s*`)

// Options selects which routes get documented. A nil allow-list is not configured.
// A docstring holding only whitespace counts as empty: routes documented that
// way are skipped unless IncludeEmptyDocstring is set.
type Options struct {
	Endpoints             []string `yaml:"endpoints"`
	Blueprints            []string `yaml:"blueprints"`
	UndocEndpoints        []string `yaml:"undocEndpoints"`
	UndocBlueprints       []string `yaml:"undocBlueprints"`
	UndocStatic           bool     `yaml:"undocStatic"`
	IncludeEmptyDocstring bool     `yaml:"includeEmptyDocstring"`
	TOCFiltered           bool     `yaml:"tocFiltered"`
}

// ParseOptions reads directive options. Flags are enabled by their presence.
func ParseOptions(raw map[string]string) (Options, error) {
	opts := Options{}
	for key, value := range raw {
		switch key {
		case OptEndpoints:
			opts.Endpoints = SplitList(value)
		case OptBlueprints:
			opts.Blueprints = SplitList(value)
		case OptUndocEndpoints:
			opts.UndocEndpoints = SplitList(value)
		case OptUndocBlueprints:
			opts.UndocBlueprints = SplitList(value)
		case OptUndocStatic:
			opts.UndocStatic = true
		case OptIncludeEmptyDocstring:
			opts.IncludeEmptyDocstring = true
		case OptTOCFiltered:
			opts.TOCFiltered = true
		default:
			return opts, OptionErr(string(ErrUnknownOption) + ": " + key)
		}
	}
	return opts, nil
}

// SplitList splits a comma separated list, an empty value is no list at all
func SplitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	items := make([]string, 0)
	for _, item := range listSeparator.Split(value, -1) {
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Decoder is able to decode Options
type Decoder struct {
	Logger *log.Logger
}

// NewDecoder creates a Decoder
func NewDecoder(logger *log.Logger) Decoder {
	return Decoder{
		Logger: logger,
	}
}

// ParseOptionsFromYAML parses Options from a YAML reader
func (decoder Decoder) ParseOptionsFromYAML(r io.Reader, opts *Options) error {
	decoder.Logger.Printf("parsing options from reader\n")
	err := yaml.NewDecoder(r).Decode(opts)
	if err != nil && err != io.EOF {
		decoder.Logger.Printf("error decoding options from reader: %v\n", err)
		return err
	}
	return nil
}

// set is an immutable lookup built once per rendering
type set map[string]bool

func newSet(items []string) set {
	if items == nil {
		return nil
	}
	s := make(set, len(items))
	for _, i := range items {
		s[i] = true
	}
	return s
}

// configured reports whether an allow-list was given
func (s set) configured() bool {
	return len(s) > 0
}

// filter is the compiled form of Options
type filter struct {
	endpoints       set
	blueprints      set
	undocEndpoints  set
	undocBlueprints set
}

func newFilter(opts Options) filter {
	return filter{
		endpoints:       newSet(opts.Endpoints),
		blueprints:      newSet(opts.Blueprints),
		undocEndpoints:  newSet(opts.UndocEndpoints),
		undocBlueprints: newSet(opts.UndocBlueprints),
	}
}
