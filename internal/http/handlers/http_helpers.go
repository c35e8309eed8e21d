package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client.
// Accented characters and HTML are written as is.
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// writeError writes the {erro, codigo} body used by every failure.
func writeError(w http.ResponseWriter, status int, message string) {
	if err := writeJSON(w, status, ErrorResponse{Erro: message, Codigo: status}); err != nil {
		slog.Error("failed to write error response", "status", status, "error", err)
	}
}

func writeOK(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		slog.Error("failed to write JSON response", "status", status, "error", err)
	}
}

// TooManyRequests answers requests rejected by the rate limiter.
func TooManyRequests(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusTooManyRequests, msgTooManyRequests)
}
