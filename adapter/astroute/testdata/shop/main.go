package main

import (
	"net/http"

	"example.com/shop/handlers"
)

func main() {
	mux := http.NewServeMux()
	users := &handlers.Users{}
	mux.HandleFunc("GET /users/{id}", users.Get)
	mux.HandleFunc("GET /users/{$}", handlers.ListUsers)
	mux.HandleFunc("POST /users/{$}", handlers.ListUsers)
	mux.Handle("/accounts", &handlers.Accounts{})
	mux.HandleFunc("/version", version)
	mux.HandleFunc("/files/{path...}", handlers.Files)
	http.ListenAndServe(":8080", mux)
}

// version reports the build version.
func version(w http.ResponseWriter, r *http.Request) {}
