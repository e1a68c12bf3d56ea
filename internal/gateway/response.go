package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// writePlain responds with a plain-text body. Used for the BadRequest and
// NotFound taxonomy; internal errors go through the themed error renderer.
func writePlain(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, msg)
}

// writeJSON responds with a JSON body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
