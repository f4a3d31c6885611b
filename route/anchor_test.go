package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnchor(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		expected string
	}{
		{method: "GET", path: "/users", expected: "get--users"},
		{method: "POST", path: "/users/(int:id)", expected: "post--users-(int-id)"},
		{method: "DELETE", path: "/users/<id>", expected: "delete--users--id-"},
		{method: "PUT", path: "/users/{id}", expected: "put--users-id"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Anchor(tt.method, tt.path))
			assert.Equal(t, tt.expected, Route{Method: tt.method, Path: tt.path}.Anchor())
		})
	}
}

func TestSortByMethod(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		expected []string
	}{
		{
			name:     "known methods first, unknown last",
			labels:   []string{"POST /x", "GET /x", "WEIRD /x", "HEAD /x"},
			expected: []string{"HEAD /x", "GET /x", "POST /x", "WEIRD /x"},
		},
		{
			name:     "stable among unknown and duplicates",
			labels:   []string{"ZED /a", "GET /b", "ALPHA /c", "GET /a", "COPY /z"},
			expected: []string{"GET /b", "GET /a", "COPY /z", "ZED /a", "ALPHA /c"},
		},
		{
			name:     "full priority",
			labels:   []string{"ANY /", "COPY /", "CONNECT /", "TRACE /", "OPTIONS /", "PATCH /", "DELETE /", "PUT /"},
			expected: []string{"PUT /", "DELETE /", "PATCH /", "OPTIONS /", "TRACE /", "CONNECT /", "COPY /", "ANY /"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]string(nil), tt.labels...)
			assert.Equal(t, tt.expected, SortByMethod(tt.labels))
			assert.Equal(t, input, tt.labels, "input must not be reordered")
		})
	}
}

func TestSortByPath(t *testing.T) {
	routes := []Route{
		{Method: "POST", Path: "/users"},
		{Method: "GET", Path: "/accounts"},
		{Method: "GET", Path: "/users"},
	}
	assert.Equal(t, []Route{
		{Method: "GET", Path: "/accounts"},
		{Method: "POST", Path: "/users"},
		{Method: "GET", Path: "/users"},
	}, SortByPath(routes))
}
