package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
)

const (
	apiPrefix = "/api"
	usersPath = apiPrefix + "/users"
)

var orderPath = "/orders/{id:[0-9]+}"

func register(std *http.ServeMux, r chi.Router, m *mux.Router) {
	std.HandleFunc("GET "+usersPath+"/{id}", getUser)
	std.Handle(apiPrefix+"/accounts", &Accounts{})
	std.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
	r.Get("/items", listItems)
	r.Post("/items", http.HandlerFunc(createItem))
	u := &Users{}
	r.Delete("/users/{id}", u.Delete)
	m.HandleFunc(orderPath, orders).Methods(http.MethodGet, "put")
	m.HandleFunc("/stats", stats).Name("stats").Methods("GET")
	m.HandleFunc(dynamicPath(), stats)
	cache.Get("key", nil)
}

// getUser returns one user.
func getUser(w http.ResponseWriter, r *http.Request) {}

// listItems lists items.
//
// Items are paginated.
func listItems(w http.ResponseWriter, r *http.Request) {}

func createItem(w http.ResponseWriter, r *http.Request) {}

// orders reads or replaces an order.
func orders(w http.ResponseWriter, r *http.Request) {}

// stats reports statistics.
func stats(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case "POST":
	}
}

func dynamicPath() string {
	return "/dynamic"
}

// Users groups user handlers.
type Users struct{}

// Delete removes a user.
func (u *Users) Delete(w http.ResponseWriter, r *http.Request) {}

// Accounts manages accounts.
type Accounts struct{}

func (a *Accounts) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
	}
}
