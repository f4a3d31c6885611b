package handlers

import "net/http"

// Users serves the user collection.
type Users struct{}

type (
	// Accounts serves accounts.
	Accounts struct{}
	undocumented struct{}
)

// ListUsers returns every user.
//
// Results are paged.
func ListUsers(w http.ResponseWriter, r *http.Request) {}

// Get returns one user.
func (u *Users) Get(w http.ResponseWriter, r *http.Request) {}

func (u Users) Post(w http.ResponseWriter, r *http.Request) {}

func noDoc() {}
