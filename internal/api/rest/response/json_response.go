package response

import (
	"bytes"
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json; charset=utf-8"

// ErrorBody is the envelope of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSONResponse writes the given data as a JSON response with the specified status code.
// HTML characters are left unescaped so product attributes come back as stored.
// If data cannot be encoded nothing of it is sent: the client gets a 500 error body
// and the encoding error is returned.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	payload, err := encode(data)
	if err != nil {
		payload, _ = encode(ErrorBody{Error: err.Error()})
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_, _ = w.Write(payload)

	return err
}

// JSONErrorResponse writes an error message as a JSON response with the specified status code.
func JSONErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	_ = JSONResponse(w, statusCode, ErrorBody{Error: message})
}

func encode(data any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
