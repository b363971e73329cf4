package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/avelarde/reservline-backend/pkg/errors"
)

// QueryString returns the trimmed value of a query parameter.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryInt64 parses an optional integer query parameter, returning nil when absent.
func QueryInt64(r *http.Request, key string) (*int64, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}
