package adapter

import (
	"strings"

	"github.com/javiercbk/autohttp/route"
)

// Table merges router entries sharing a pattern and an endpoint into one rule,
// keeping the order rules were first seen in
type Table struct {
	rules     []route.Rule
	positions map[string]int
}

// NewTable creates an empty Table
func NewTable() *Table {
	return &Table{
		rules:     make([]route.Rule, 0),
		positions: make(map[string]int),
	}
}

// Add registers methods for pattern and endpoint. Methods are upper cased.
func (t *Table) Add(pattern, endpoint string, methods []string) {
	key := pattern + "\x00" + endpoint
	i, ok := t.positions[key]
	if !ok {
		i = len(t.rules)
		t.positions[key] = i
		t.rules = append(t.rules, route.Rule{Pattern: pattern, Endpoint: endpoint})
	}
	t.rules[i].Methods = appendMethods(t.rules[i].Methods, methods)
}

// Rules returns the merged rules, a rule answering every method becomes ANY
func (t *Table) Rules() []route.Rule {
	rules := make([]route.Rule, len(t.rules))
	for i, r := range t.rules {
		r.Methods = collapseMethods(r.Methods)
		rules[i] = r
	}
	return rules
}

func appendMethods(methods, add []string) []string {
	for _, m := range add {
		m = strings.ToUpper(m)
		found := false
		for _, existing := range methods {
			if existing == m {
				found = true
				break
			}
		}
		if !found {
			methods = append(methods, m)
		}
	}
	return methods
}

// collapseMethods replaces a full set of methods by ANY
func collapseMethods(methods []string) []string {
	present := make(map[string]bool, len(methods))
	for _, m := range methods {
		present[m] = true
	}
	for _, m := range allMethods {
		if !present[m] {
			return methods
		}
	}
	return []string{MethodAny}
}
