// Package handlers serves the shop API.
package handlers

import "net/http"

// Users serves users.
type Users struct{}

// Get returns one user.
func (u *Users) Get(w http.ResponseWriter, r *http.Request) {}

// ListUsers lists or creates users.
func ListUsers(w http.ResponseWriter, r *http.Request) {}

// Accounts manages accounts.
type Accounts struct{}

func (a *Accounts) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut, http.MethodDelete:
	}
}

func Files(w http.ResponseWriter, r *http.Request) {}
