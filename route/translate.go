package route

import (
	"regexp"
	"strings"
)

const (
	defaultConverter = "default"
	// CatchAllVariable names the variable of a trailing wildcard
	CatchAllVariable = "filename"
)

// Translator rewrites a raw framework pattern into the (converter:name) syntax
type Translator func(pattern string) string

var (
	werkzeugRuleRegexp = regexp.MustCompile(`<(?:([a-zA-Z_][a-zA-Z0-9_]*)(?:\((.*?)\))?:)?([a-zA-Z_][a-zA-Z0-9_]*)>`)
	intRegexps         = map[string]bool{
		`[0-9]+`: true,
		`\d+`:    true,
		`[0-9]*`: true,
		`\d*`:    true,
	}
)

func placeholder(converter, name string) string {
	if converter == "" || converter == defaultConverter {
		return "(" + name + ")"
	}
	return "(" + converter + ":" + name + ")"
}

// Werkzeug translates <converter(args):name> rules. Converter arguments are dropped.
func Werkzeug(pattern string) string {
	return werkzeugRuleRegexp.ReplaceAllStringFunc(pattern, func(m string) string {
		sub := werkzeugRuleRegexp.FindStringSubmatch(m)
		return placeholder(sub[1], sub[3])
	})
}

// Braces translates {name} and {name:regexp} patterns as used by chi and gorilla/mux.
// Integer regexps become the int converter, a trailing * or {name...} becomes a
// path converter and the {$} end anchor of net/http patterns is dropped.
func Braces(pattern string) string {
	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '{':
			end := matchingBrace(pattern, i)
			if end < 0 {
				sb.WriteString(pattern[i:])
				return sb.String()
			}
			name, expr := pattern[i+1:end], ""
			if colon := strings.IndexByte(name, ':'); colon >= 0 {
				name, expr = name[:colon], name[colon+1:]
			}
			converter := ""
			switch {
			case name == "$":
				i = end
				continue
			case strings.HasSuffix(name, "..."):
				name, converter = strings.TrimSuffix(name, "..."), "path"
			case intRegexps[expr]:
				converter = "int"
			}
			sb.WriteString(placeholder(converter, name))
			i = end
		case c == '*' && i == len(pattern)-1:
			sb.WriteString(placeholder("path", CatchAllVariable))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func matchingBrace(pattern string, open int) int {
	depth := 0
	for i := open; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Colon translates :name and *name segments
func Colon(pattern string) string {
	segments := strings.Split(pattern, "/")
	for i, s := range segments {
		switch {
		case strings.HasPrefix(s, ":") && len(s) > 1:
			segments[i] = placeholder("", s[1:])
		case strings.HasPrefix(s, "*"):
			name := s[1:]
			if name == "" {
				name = CatchAllVariable
			}
			segments[i] = placeholder("path", name)
		}
	}
	return strings.Join(segments, "/")
}

// Swagger rewrites a (converter:name) path into the {name} form
func Swagger(path string) string {
	return placeholderRegexp.ReplaceAllString(path, "{$2}")
}

// Params lists the (converter, name) pairs found in a translated path
func Params(path string) [][2]string {
	found := placeholderRegexp.FindAllStringSubmatch(path, -1)
	params := make([][2]string, 0, len(found))
	for _, f := range found {
		params = append(params, [2]string{f[1], f[2]})
	}
	return params
}

var placeholderRegexp = regexp.MustCompile(`\((?:([a-zA-Z_][a-zA-Z0-9_]*):)?([a-zA-Z_][a-zA-Z0-9_]*)\)`)
