package adapter

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/javiercbk/autohttp/route"
)

func TestCollapseMethods(t *testing.T) {
	assert.Equal(t, []string{MethodAny}, collapseMethods(allMethods))
	assert.Equal(t, []string{http.MethodGet}, collapseMethods([]string{http.MethodGet}))
	assert.Equal(t, []string{http.MethodGet, http.MethodPost}, appendMethods([]string{http.MethodGet}, []string{"post", "GET"}))
}

func TestTable(t *testing.T) {
	table := NewTable()
	table.Add("/users", "api.listUsers", []string{http.MethodGet})
	table.Add("/users/{id}", "api.getUser", []string{http.MethodGet})
	table.Add("/users", "api.listUsers", []string{"post"})
	table.Add("/users", "api.other", []string{http.MethodPut})
	table.Add("/any", "api.any", allMethods)
	assert.Equal(t, []route.Rule{
		{Methods: []string{http.MethodGet, http.MethodPost}, Pattern: "/users", Endpoint: "api.listUsers"},
		{Methods: []string{http.MethodGet}, Pattern: "/users/{id}", Endpoint: "api.getUser"},
		{Methods: []string{http.MethodPut}, Pattern: "/users", Endpoint: "api.other"},
		{Methods: []string{MethodAny}, Pattern: "/any", Endpoint: "api.any"},
	}, table.Rules())
}
