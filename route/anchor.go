package route

import (
	"regexp"
	"sort"
	"strings"
)

var (
	anchorSeparators = regexp.MustCompile(`[<>:/]`)
	anchorBraces     = regexp.MustCompile(`[{}]`)
	// methodOrder is the documentation order of HTTP methods, unknown methods go last
	methodOrder = map[string]int{
		"HEAD":    0,
		"GET":     1,
		"POST":    2,
		"PUT":     3,
		"DELETE":  4,
		"PATCH":   5,
		"OPTIONS": 6,
		"TRACE":   7,
		"CONNECT": 8,
		"COPY":    9,
		anyMethod: 10,
	}
)

const (
	unknownMethodPriority = 100
	anyMethod             = "ANY"
)

// Anchor derives the anchor of a method and a path. The table of contents
// and the route directives both use it so they must agree character by character.
func Anchor(method, path string) string {
	path = anchorBraces.ReplaceAllString(anchorSeparators.ReplaceAllString(path, "-"), "")
	return strings.ToLower(method) + "-" + path
}

// MethodPriority returns the sort key of an HTTP method
func MethodPriority(method string) int {
	if p, ok := methodOrder[strings.ToUpper(method)]; ok {
		return p
	}
	return unknownMethodPriority
}

// IsMethod reports whether method is a known HTTP method. Matching is exact and
// case sensitive.
func IsMethod(method string) bool {
	_, ok := methodOrder[method]
	return ok && method != anyMethod
}

// SortByMethod sorts labels starting with an HTTP method token by method priority.
// The sort is stable so duplicates and unknown methods keep their order.
func SortByMethod(labels []string) []string {
	sorted := make([]string, len(labels))
	copy(sorted, labels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return MethodPriority(methodToken(sorted[i])) < MethodPriority(methodToken(sorted[j]))
	})
	return sorted
}

// SortMethods returns a copy of methods sorted by method priority
func SortMethods(methods []string) []string {
	return SortByMethod(methods)
}

// SortByPath returns a copy of routes sorted by path, ties keep their order
func SortByPath(routes []Route) []Route {
	sorted := make([]Route, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}

func methodToken(label string) string {
	if i := strings.IndexByte(label, ' '); i >= 0 {
		return label[:i]
	}
	return label
}
