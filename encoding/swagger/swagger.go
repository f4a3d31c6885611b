// Package swagger encodes documented routes as a Swagger 2.0 definition.
package swagger

import (
	"io"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/javiercbk/autohttp"
	"github.com/javiercbk/autohttp/route"
	"github.com/javiercbk/autohttp/view"
)

const (
	defaultResponse            = "default"
	defaultResponseDescription = "Unexpected error"
	bodyParameterName          = "body"
	paramAnnotationPrefix      = ":<json "
)

var (
	jsonTypes = map[string]string{
		"str":     "string",
		"string":  "string",
		"int":     "integer",
		"integer": "integer",
		"float":   "number",
		"number":  "number",
		"bool":    "boolean",
		"boolean": "boolean",
		"list":    "array",
		"array":   "array",
		"dict":    "object",
		"object":  "object",
	}
	converterTypes = map[string]string{
		"int":   "integer",
		"float": "number",
	}
	stringConverters = map[string]bool{
		"":       true,
		"string": true,
		"path":   true,
		"any":    true,
	}
)

type errorWriter struct {
	w   io.Writer
	err error
}

func (ew *errorWriter) Write(p []byte) (int, error) {
	if ew.err == nil {
		n, err := ew.w.Write(p)
		if err != nil {
			ew.err = err
		}
		return n, err
	}
	return 0, ew.err
}

// Encoder builds Swagger definitions
type Encoder struct {
	Logger *log.Logger
}

// NewEncoder creates an Encoder
func NewEncoder(logger *log.Logger) Encoder {
	return Encoder{
		Logger: logger,
	}
}

// Build creates the definition of the documented routes. Routes whose method
// has no Swagger operation, such as ANY, are skipped.
func (e Encoder) Build(info openapi3.Info, docs []autohttp.Documented) openapi2.Swagger {
	swagger := openapi2.Swagger{
		Info:  info,
		Paths: make(map[string]*openapi2.PathItem),
	}
	tags := make(map[string]bool)
	for _, doc := range docs {
		path := route.Swagger(doc.Route.Path)
		item, ok := swagger.Paths[path]
		if !ok {
			item = &openapi2.PathItem{}
		}
		slot := operationSlot(item, doc.Route.Method)
		if slot == nil {
			e.Logger.Printf("skipping route %s: method %s has no swagger operation\n", doc.Route.Label(), doc.Route.Method)
			continue
		}
		if *slot != nil {
			e.Logger.Printf("skipping route %s: operation already defined by another endpoint\n", doc.Route.Label())
			continue
		}
		op := operation(doc)
		*slot = op
		swagger.Paths[path] = item
		for _, t := range op.Tags {
			tags[t] = true
		}
	}
	names := make([]string, 0, len(tags))
	for t := range tags {
		names = append(names, t)
	}
	sort.Strings(names)
	for _, name := range names {
		swagger.Tags = append(swagger.Tags, &openapi3.Tag{Name: name})
	}
	return swagger
}

func operationSlot(item *openapi2.PathItem, method string) **openapi2.Operation {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return &item.Get
	case http.MethodPost:
		return &item.Post
	case http.MethodPut:
		return &item.Put
	case http.MethodDelete:
		return &item.Delete
	case http.MethodPatch:
		return &item.Patch
	case http.MethodHead:
		return &item.Head
	case http.MethodOptions:
		return &item.Options
	}
	return nil
}

func operation(doc autohttp.Documented) *openapi2.Operation {
	summary, description := describe(doc.Lines)
	op := &openapi2.Operation{
		Summary:     summary,
		Description: description,
		OperationID: doc.Route.Anchor(),
		Responses: map[string]*openapi2.Response{
			defaultResponse: {Description: defaultResponseDescription},
		},
	}
	if blueprint, _, ok := route.SplitBlueprint(doc.Route.Endpoint); ok {
		op.Tags = []string{blueprint}
	}
	for _, p := range route.Params(doc.Route.Path) {
		op.Parameters = append(op.Parameters, pathParameter(p[0], p[1]))
	}
	if len(doc.Params) > 0 {
		op.Parameters = append(op.Parameters, bodyParameter(doc.Params))
	}
	return op
}

// describe splits body lines into a summary and a description. Parameter
// annotations are left out since they become the body parameter.
func describe(lines []string) (string, string) {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if !strings.HasPrefix(l, paramAnnotationPrefix) {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return "", ""
	}
	return kept[0], strings.TrimSpace(strings.Join(kept[1:], "\n"))
}

func pathParameter(converter, name string) *openapi2.Parameter {
	p := &openapi2.Parameter{
		In:       "path",
		Name:     name,
		Required: true,
		Type:     "string",
	}
	if t, ok := converterTypes[converter]; ok {
		p.Type = t
	} else if !stringConverters[converter] {
		p.Format = converter
	}
	return p
}

func bodyParameter(params []view.Param) *openapi2.Parameter {
	schema := &openapi3.Schema{
		Type:       "object",
		Properties: make(map[string]*openapi3.SchemaRef),
	}
	for _, param := range params {
		prop := &openapi3.Schema{
			Type:        jsonType(param.Type),
			Description: param.Description,
		}
		if param.Required {
			schema.Required = append(schema.Required, param.Name)
		} else if param.Default != "" {
			prop.Default = param.Default
		}
		schema.Properties[param.Name] = &openapi3.SchemaRef{Value: prop}
	}
	return &openapi2.Parameter{
		In:       "body",
		Name:     bodyParameterName,
		Required: len(schema.Required) > 0,
		Schema:   &openapi3.SchemaRef{Value: schema},
	}
}

func jsonType(t string) string {
	if jt, ok := jsonTypes[strings.ToLower(t)]; ok {
		return jt
	}
	return "string"
}

func isEmptyInterface(i interface{}) bool {
	return i == nil
}

func isEmptyString(str string) bool {
	return len(str) == 0
}

func isEmptyStrSlice(slice []string) bool {
	return len(slice) == 0
}

func isEmptySchemaRefMap(schemaRefMap map[string]*openapi3.SchemaRef) bool {
	return len(schemaRefMap) == 0
}

func isEmptyInfo(info openapi3.Info) bool {
	return isEmptyString(info.Title) &&
		isEmptyString(info.Description) &&
		isEmptyString(info.Version)
}

func isEmptyPaths(paths map[string]*openapi2.PathItem) bool {
	return len(paths) == 0
}

func isEmptyPathItemParameters(parameters openapi2.Parameters) bool {
	return len(parameters) == 0
}

func isEmptyResponses(responses map[string]*openapi2.Response) bool {
	return len(responses) == 0
}

func isEmptyTags(tags openapi3.Tags) bool {
	return len(tags) == 0
}

func isEmptySchemaRef(schemaRef *openapi3.SchemaRef) bool {
	return schemaRef == nil || (isEmptyString(schemaRef.Ref) && schemaRef.Value == nil)
}
