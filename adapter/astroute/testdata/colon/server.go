package server

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func routes(router *httprouter.Router) {
	router.GET("/users/:id", showUser)
}

// showUser shows a user.
func showUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {}
