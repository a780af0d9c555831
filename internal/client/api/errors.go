package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrUnavailable = errors.New("server unavailable")
)

// Error is a non-2xx answer from the API.
type Error struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Detail)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return fmt.Sprintf("%d: %s", e.Status, strings.Join(parts, "; "))
}

// parseError decodes either {"detail": "..."} or a field error map.
func parseError(status int, body []byte) *Error {
	e := &Error{Status: status}

	var detail struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil && detail.Detail != "" {
		e.Detail = detail.Detail
		return e
	}

	var fields map[string][]string
	if json.Unmarshal(body, &fields) == nil {
		e.Fields = fields
	}
	return e
}
