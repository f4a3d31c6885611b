package api_test

import "net/http"

func init() {
	http.HandleFunc("/from-tests", nil)
}
