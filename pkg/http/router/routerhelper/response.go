package router_helper

import (
	"encoding/json"
	"net/http"
)

type Envelope map[string]any

// WriteJSON. writes data as a json body with the given status and extra headers.
func WriteJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// ErrorResponse. error envelope {"error": {"code", "message"}}.
func ErrorResponse(w http.ResponseWriter, status int, message any) error {
	env := Envelope{"error": map[string]any{
		"code":    http.StatusText(status),
		"message": message,
	}}
	return WriteJSON(w, status, env, nil)
}
