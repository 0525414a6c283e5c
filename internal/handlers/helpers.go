package handlers

import (
	"net/http"
	"strconv"
)

// idParam reads the ?id= query parameter used by the flat get/update/delete
// routes.
func idParam(r *http.Request) (uint, bool) {
	n, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

func uintParam(r *http.Request, name string) uint {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 {
		return 0
	}
	return uint(n)
}
