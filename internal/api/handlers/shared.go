package handlers

import (
	"encoding/json"
	"net/http"
)

// parseJSON decodes a request body into a request DTO.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}
