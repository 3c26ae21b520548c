package middleware

import (
	"encoding/json"
	"net/http"
)

type failureBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(failureBody{Success: false, Message: msg})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	writeFailure(w, http.StatusUnauthorized, msg)
}

func writeLimited(w http.ResponseWriter) {
	writeFailure(w, http.StatusTooManyRequests, "too many requests")
}
