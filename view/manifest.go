package view

import (
	"io"
	"log"
	"strings"

	"gopkg.in/yaml.v2"
)

// ManifestErr is returned when a manifest is invalid
type ManifestErr string

func (m ManifestErr) Error() string {
	return string(m)
}

const (
	// ErrMissingPattern is returned when a manifest route has no pattern
	ErrMissingPattern ManifestErr = "manifest route is missing its pattern"
	// ErrMissingEndpoint is returned when a manifest route has no endpoint
	ErrMissingEndpoint ManifestErr = "manifest route is missing its endpoint"
)

// Manifest describes an application in YAML
type Manifest struct {
	StaticURLPath string                   `yaml:"staticUrlPath"`
	Routes        []ManifestRoute          `yaml:"routes"`
	Classes       map[string]ManifestClass `yaml:"classes"`
}

// ManifestRoute is a rule and the view it dispatches to
type ManifestRoute struct {
	Pattern    string            `yaml:"pattern"`
	Endpoint   string            `yaml:"endpoint"`
	Methods    []string          `yaml:"methods"`
	Doc        string            `yaml:"doc"`
	MethodDocs map[string]string `yaml:"methodDocs"`
}

// ManifestClass is a class view declared by name
type ManifestClass struct {
	Doc     string             `yaml:"doc"`
	Methods map[string]string  `yaml:"methods"`
	Rules   map[string][]Param `yaml:"rules"`
}

// ManifestDecoder decodes and validates manifests
type ManifestDecoder struct {
	Logger *log.Logger
}

// NewManifestDecoder creates a ManifestDecoder
func NewManifestDecoder(logger *log.Logger) ManifestDecoder {
	return ManifestDecoder{
		Logger: logger,
	}
}

// ParseManifestFromYAML parses a manifest from a YAML reader
func (decoder ManifestDecoder) ParseManifestFromYAML(r io.Reader, m *Manifest) error {
	decoder.Logger.Printf("parsing manifest from reader\n")
	err := yaml.NewDecoder(r).Decode(m)
	if err != nil {
		decoder.Logger.Printf("error decoding manifest from reader: %v\n", err)
		return err
	}
	for i, rt := range m.Routes {
		if rt.Pattern == "" {
			decoder.Logger.Printf("manifest validation error: route %d: %s\n", i, ErrMissingPattern.Error())
			return ErrMissingPattern
		}
		if rt.Endpoint == "" {
			decoder.Logger.Printf("manifest validation error: route %s: %s\n", rt.Pattern, ErrMissingEndpoint.Error())
			return ErrMissingEndpoint
		}
	}
	return nil
}

// LoadApp decodes a manifest and builds the application it describes
func (decoder ManifestDecoder) LoadApp(r io.Reader) (*App, error) {
	m := Manifest{}
	if err := decoder.ParseManifestFromYAML(r, &m); err != nil {
		return nil, err
	}
	return m.App(), nil
}

// App builds the in-memory application of the manifest
func (m Manifest) App() *App {
	a := NewApp()
	if m.StaticURLPath != "" {
		a.staticURLPath = strings.TrimSuffix(m.StaticURLPath, "/")
	}
	for _, rt := range m.Routes {
		var v View = Func{Doc: rt.Doc}
		if len(rt.MethodDocs) > 0 {
			v = Class{Doc: rt.Doc, Methods: upperKeys(rt.MethodDocs)}
		}
		a.Handle(rt.Pattern, rt.Endpoint, v, rt.Methods...)
	}
	for name, c := range m.Classes {
		a.RegisterClass(name, Class{
			Doc:     c.Doc,
			Methods: upperKeys(c.Methods),
			Rules:   c.Rules,
		})
	}
	return a
}

func upperKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToUpper(k)] = v
	}
	return out
}
