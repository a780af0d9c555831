package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/recipeapi/internal/common"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError maps service errors onto HTTP statuses. Anything unrecognised
// is logged and reported as a generic 500.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := common.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeDetail(w, http.StatusUnauthorized, "Refresh token has expired.")
	case errors.Is(err, common.ErrTokenExpired):
		writeDetail(w, http.StatusUnauthorized, "Token has expired.")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		writeDetail(w, http.StatusUnauthorized, "Invalid token.")
	case errors.Is(err, common.ErrorRateLimited):
		writeDetail(w, http.StatusTooManyRequests, "Request was throttled.")
	default:
		s.logger.Error(r.Context(), "request failed",
			"error", err, "path", r.URL.Path, "http.req.id", RequestIDFromContext(r.Context()))
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
	}
}

// decodeBody reads a JSON object from the request. An empty body decodes
// as an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return typeError(typeErr)
		}
		return common.NewValidationError("non_field_errors", "JSON parse error - "+err.Error())
	}
	return nil
}

// typeError reports a JSON value of the wrong type against the field it was
// meant for, without exposing Go type names.
func typeError(e *json.UnmarshalTypeError) error {
	if e.Field == "" {
		return common.NewValidationError("non_field_errors", "Invalid data. Expected a dictionary, but got "+e.Value+".")
	}
	field := e.Field
	if i := strings.LastIndex(field, "."); i >= 0 {
		field = field[i+1:]
	}

	msg := "Invalid value."
	switch e.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		msg = "A valid integer is required."
	case reflect.String:
		msg = "Not a valid string."
	case reflect.Bool:
		msg = "Must be a valid boolean."
	case reflect.Slice, reflect.Array:
		msg = `Expected a list of items but got type "` + e.Value + `".`
	}
	return common.NewValidationError(field, msg)
}

// pathID returns the numeric {id} route variable.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

// parseIDList parses a comma separated list of ids such as "1,2,3".
func parseIDList(field, raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, common.NewValidationError(field, "Enter a comma separated list of ids.")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// sentence turns "a valid number is required" into "A valid number is required.".
func sentence(err error) string {
	msg := []rune(err.Error())
	if len(msg) == 0 {
		return ""
	}
	msg[0] = unicode.ToUpper(msg[0])
	return string(msg) + "."
}
