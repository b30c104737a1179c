package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/robalobadob/codebreaker/internal/game"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Pool    string   `json:"pool,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

// lengthErrorBody always carries both lengths, zero included.
type lengthErrorBody struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Expected int    `json:"expected"`
	Actual   int    `json:"actual"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

// writeGuessError maps guess validation failures to 400 responses. It
// reports false for errors it does not recognise.
func writeGuessError(w http.ResponseWriter, err error) bool {
	var lenErr *game.InvalidGuessLengthError
	if errors.As(err, &lenErr) {
		writeJSON(w, http.StatusBadRequest, lengthErrorBody{
			Error:    "invalid_length",
			Message:  lenErr.Error(),
			Expected: lenErr.Expected,
			Actual:   lenErr.Actual,
		})
		return true
	}
	var charErr *game.InvalidGuessCharactersError
	if errors.As(err, &charErr) {
		invalid := make([]string, len(charErr.Invalid))
		for i, r := range charErr.Invalid {
			invalid[i] = string(r)
		}
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "invalid_characters",
			Message: charErr.Error(),
			Pool:    charErr.Alphabet,
			Invalid: invalid,
		})
		return true
	}
	return false
}

// decodeJSON reads a small JSON body into v. An empty body yields io.EOF.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
