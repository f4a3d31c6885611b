package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslators(t *testing.T) {
	tests := []struct {
		name       string
		translator Translator
		pattern    string
		expected   string
	}{
		{name: "werkzeug int converter", translator: Werkzeug, pattern: "<int:id>", expected: "(int:id)"},
		{name: "werkzeug default converter", translator: Werkzeug, pattern: "<id>", expected: "(id)"},
		{name: "werkzeug explicit default", translator: Werkzeug, pattern: "/a/<default:id>", expected: "/a/(id)"},
		{name: "werkzeug converter arguments", translator: Werkzeug, pattern: "/u/<string(length=2):lang>/x", expected: "/u/(string:lang)/x"},
		{name: "werkzeug static path", translator: Werkzeug, pattern: "/static/<path:filename>", expected: "/static/(path:filename)"},
		{name: "werkzeug no placeholder", translator: Werkzeug, pattern: "/users", expected: "/users"},
		{name: "braces plain", translator: Braces, pattern: "/users/{id}", expected: "/users/(id)"},
		{name: "braces int regexp", translator: Braces, pattern: "/users/{id:[0-9]+}", expected: "/users/(int:id)"},
		{name: "braces other regexp", translator: Braces, pattern: "/users/{slug:[a-z-]+}", expected: "/users/(slug)"},
		{name: "braces nested quantifier", translator: Braces, pattern: "/zip/{code:[0-9]{5}}/x", expected: "/zip/(code)/x"},
		{name: "braces wildcard", translator: Braces, pattern: "/static/*", expected: "/static/(path:filename)"},
		{name: "braces remainder wildcard", translator: Braces, pattern: "/files/{rest...}", expected: "/files/(path:rest)"},
		{name: "braces end anchor", translator: Braces, pattern: "/users/{$}", expected: "/users/"},
		{name: "braces unbalanced", translator: Braces, pattern: "/a/{id", expected: "/a/{id"},
		{name: "colon param", translator: Colon, pattern: "/users/:id/posts/:postId", expected: "/users/(id)/posts/(postId)"},
		{name: "colon wildcard", translator: Colon, pattern: "/files/*path", expected: "/files/(path:path)"},
		{name: "colon bare wildcard", translator: Colon, pattern: "/files/*", expected: "/files/(path:filename)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.translator(tt.pattern))
		})
	}
}

func TestSwagger(t *testing.T) {
	assert.Equal(t, "/users/{id}/files/{filename}", Swagger("/users/(int:id)/files/(filename)"))
	assert.Equal(t, [][2]string{{"int", "id"}, {"", "filename"}}, Params("/users/(int:id)/files/(filename)"))
	assert.Empty(t, Params("/users"))
}
