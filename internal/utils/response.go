package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"EUrbana.dashboard/internal/models"
)

const maxBodyBytes = 1 << 20

// RespondWithError sends a JSON error response using the APIError model.
func RespondWithError(writer http.ResponseWriter, apiErr models.APIError) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(apiErr.StatusCode)
	if err := json.NewEncoder(writer).Encode(apiErr); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// DecodeJSON reads a JSON request body into dst. Bodies larger than 1MiB
// and trailing data are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("empty request body")
		}
		return fmt.Errorf("error unmarshalling JSON: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON body")
	}
	return nil
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
