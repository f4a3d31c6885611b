package swagger

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
)

var escapePropNameRegExp = regexp.MustCompile("^[a-zA-Z_]+$")

// MarshalYAML marshals a Swagger definition to YAML. Maps are written in key
// order so the same definition always yields the same document.
func MarshalYAML(swagger openapi2.Swagger, w io.Writer) error {
	ew := &errorWriter{w: w}
	writeStringProp("swagger", "2.0", 0, ew)
	if !isEmptyInfo(swagger.Info) {
		marshalInfo(swagger.Info, ew)
	}
	if !isEmptyString(swagger.BasePath) {
		writeStringProp("basePath", swagger.BasePath, 0, ew)
	}
	if !isEmptyPaths(swagger.Paths) {
		writeObject("paths", 0, ew)
		urls := make([]string, 0, len(swagger.Paths))
		for url := range swagger.Paths {
			urls = append(urls, url)
		}
		sort.Strings(urls)
		for _, url := range urls {
			writeObject(url, 1, ew)
			marshalPath(swagger.Paths[url], 2, ew)
		}
	}
	if !isEmptyTags(swagger.Tags) {
		marshalTags(swagger.Tags, 0, ew)
	}
	return ew.err
}

func writeLn(line string, indent int, ew *errorWriter) {
	for i := 0; i < indent; i++ {
		ew.Write([]byte("  "))
	}
	ew.Write([]byte(line))
	ew.Write([]byte("\n"))
}

func escapePropName(name string) string {
	escapedName := name
	if !escapePropNameRegExp.MatchString(name) {
		escapedName = "\"" + strings.ReplaceAll(name, "\"", "\\\"") + "\""
	}
	return escapedName
}

// scalar renders a single line string the way yaml would, quoted only when needed
func scalar(value string) string {
	marshaled, err := yaml.Marshal(value)
	if err != nil {
		return strconv.Quote(value)
	}
	return strings.TrimSuffix(string(marshaled), "\n")
}

func writeRawStringProp(name, value string, indent int, ew *errorWriter) {
	if strings.Contains(value, "\n") {
		writeLn(name+": |-", indent, ew)
		for _, v := range strings.Split(value, "\n") {
			if v == "" {
				writeLn("", 0, ew)
				continue
			}
			writeLn(v, indent+1, ew)
		}
		return
	}
	writeLn(fmt.Sprintf("%s: %s", name, scalar(value)), indent, ew)
}

func writeStringProp(name, value string, indent int, ew *errorWriter) {
	writeRawStringProp(escapePropName(name), value, indent, ew)
}

func writeStrSlice(name string, values []string, indent int, ew *errorWriter) {
	writeLn(escapePropName(name)+":", indent, ew)
	for _, v := range values {
		writeLn("- "+scalar(v), indent+1, ew)
	}
}

func writeArrStringProp(name, value string, indent int, ew *errorWriter) {
	writeRawStringProp("- "+name, value, indent, ew)
}

func writeBoolProp(name string, value bool, indent int, ew *errorWriter) {
	writeLn(fmt.Sprintf("%s: %v", escapePropName(name), value), indent, ew)
}

func writeObject(name string, indent int, ew *errorWriter) {
	writeLn(escapePropName(name)+":", indent, ew)
}

func marshalWithYAML(data map[string]interface{}, indent int, ew *errorWriter) {
	if ew.err == nil {
		marshaled, err := yaml.Marshal(data)
		if err != nil {
			ew.err = err
			return
		}
		s := bufio.NewScanner(bytes.NewReader(marshaled))
		for s.Scan() {
			writeLn(s.Text(), indent, ew)
		}
		if err := s.Err(); err != nil {
			ew.err = err
		}
	}
}

func marshalInterface(name string, generic interface{}, indent int, ew *errorWriter) {
	data := make(map[string]interface{})
	data[name] = generic
	marshalWithYAML(data, indent, ew)
}

func marshalInfo(info openapi3.Info, ew *errorWriter) {
	writeObject("info", 0, ew)
	if !isEmptyString(info.Title) {
		writeStringProp("title", info.Title, 1, ew)
	}
	if !isEmptyString(info.Description) {
		writeStringProp("description", info.Description, 1, ew)
	}
	if !isEmptyString(info.Version) {
		writeStringProp("version", info.Version, 1, ew)
	}
}

func marshalPath(pathItem *openapi2.PathItem, indent int, ew *errorWriter) {
	operations := []struct {
		method    string
		operation *openapi2.Operation
	}{
		{"get", pathItem.Get},
		{"put", pathItem.Put},
		{"post", pathItem.Post},
		{"delete", pathItem.Delete},
		{"options", pathItem.Options},
		{"head", pathItem.Head},
		{"patch", pathItem.Patch},
	}
	for _, o := range operations {
		if o.operation == nil {
			continue
		}
		writeObject(o.method, indent, ew)
		marshalOperation(o.operation, indent+1, ew)
	}
}

func marshalOperation(operation *openapi2.Operation, indent int, ew *errorWriter) {
	if !isEmptyStrSlice(operation.Tags) {
		writeStrSlice("tags", operation.Tags, indent, ew)
	}
	if !isEmptyString(operation.Summary) {
		writeStringProp("summary", operation.Summary, indent, ew)
	}
	if !isEmptyString(operation.Description) {
		writeStringProp("description", operation.Description, indent, ew)
	}
	if !isEmptyString(operation.OperationID) {
		writeStringProp("operationId", operation.OperationID, indent, ew)
	}
	if !isEmptyPathItemParameters(operation.Parameters) {
		writeObject("parameters", indent, ew)
		for _, p := range operation.Parameters {
			marshalParameterArr(p, indent+1, ew)
		}
	}
	if !isEmptyResponses(operation.Responses) {
		writeObject("responses", indent, ew)
		keys := make([]string, 0, len(operation.Responses))
		for k := range operation.Responses {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, code := range keys {
			marshalResponse(code, operation.Responses[code], indent+1, ew)
		}
	}
}

func marshalParameterArr(parameter *openapi2.Parameter, indent int, ew *errorWriter) {
	// in is a required property so it MUST be present
	writeArrStringProp("in", parameter.In, indent, ew)
	indent++
	if !isEmptyString(parameter.Name) {
		writeStringProp("name", parameter.Name, indent, ew)
	}
	if !isEmptyString(parameter.Type) {
		writeStringProp("type", parameter.Type, indent, ew)
	}
	if !isEmptyString(parameter.Format) {
		writeStringProp("format", parameter.Format, indent, ew)
	}
	if !isEmptyString(parameter.Description) {
		writeStringProp("description", parameter.Description, indent, ew)
	}
	writeBoolProp("required", parameter.Required, indent, ew)
	if !isEmptySchemaRef(parameter.Schema) {
		writeObject("schema", indent, ew)
		marshalSchemaRef(parameter.Schema, indent+1, ew)
	}
}

func marshalResponse(code string, response *openapi2.Response, indent int, ew *errorWriter) {
	writeObject(code, indent, ew)
	if !isEmptyString(response.Description) {
		writeStringProp("description", response.Description, indent+1, ew)
	}
}

func marshalSchemaRef(schemaRef *openapi3.SchemaRef, indent int, ew *errorWriter) {
	if !isEmptyString(schemaRef.Ref) {
		writeStringProp("$ref", schemaRef.Ref, indent, ew)
	} else if schemaRef.Value != nil {
		marshalSchema(schemaRef.Value, indent, ew)
	}
}

func marshalSchema(schema *openapi3.Schema, indent int, ew *errorWriter) {
	if !isEmptyString(schema.Type) {
		writeStringProp("type", schema.Type, indent, ew)
	}
	if !isEmptyString(schema.Format) {
		writeStringProp("format", schema.Format, indent, ew)
	}
	if !isEmptyString(schema.Description) {
		writeStringProp("description", schema.Description, indent, ew)
	}
	if !isEmptyInterface(schema.Default) {
		marshalInterface("default", schema.Default, indent, ew)
	}
	if !isEmptyStrSlice(schema.Required) {
		writeStrSlice("required", schema.Required, indent, ew)
	}
	if !isEmptySchemaRefMap(schema.Properties) {
		writeObject("properties", indent, ew)
		names := make([]string, 0, len(schema.Properties))
		for name := range schema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			writeObject(name, indent+1, ew)
			marshalSchemaRef(schema.Properties[name], indent+2, ew)
		}
	}
}

func marshalTags(tags []*openapi3.Tag, indent int, ew *errorWriter) {
	writeObject("tags", indent, ew)
	for _, tag := range tags {
		// name is a required property for tags, so it must exists
		writeArrStringProp("name", tag.Name, indent, ew)
		if !isEmptyString(tag.Description) {
			writeStringProp("description", tag.Description, indent+1, ew)
		}
	}
}
