// Package httpapi exposes the REST surface of the server: routing, request
// validation, the bearer-token auth gate, and the response envelope.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// envelope is the uniform response body: status is 1 for success and 0 for
// any failure, data carries the operation payload when present.
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func successResponse(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, envelope{Status: 1, Message: msg})
}

func successResponseWithData(w http.ResponseWriter, msg string, data any) {
	writeJSON(w, http.StatusOK, envelope{Status: 1, Message: msg, Data: data})
}

func validationErrorWithData(w http.ResponseWriter, msg string, data any) {
	writeJSON(w, http.StatusBadRequest, envelope{Status: 0, Message: msg, Data: data})
}

func unauthorizedResponse(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, envelope{Status: 0, Message: msg})
}

func notFoundResponse(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, envelope{Status: 0, Message: msg})
}

func errorResponse(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, envelope{Status: 0, Message: msg})
}
