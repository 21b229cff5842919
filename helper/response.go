package helper

import (
	"encoding/json"
	"net/http"
)

// OurFault answers a failed render or calculation with a 500.
func OurFault(w http.ResponseWriter) {
	WriteMessage(w, http.StatusInternalServerError, "the moon slipped behind a cloud, it's our fault, not yours!")
}

// WriteMessage writes {"message": msg}. Messages describe a single
// response and are never cached.
func WriteMessage(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, statusCode, map[string]string{"message": msg})
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
