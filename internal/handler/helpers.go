package handler

import (
	"net/http"
	"strconv"
)

// parseLimit reads the ?limit= query parameter, applying the endpoint's
// default and cap.
func parseLimit(r *http.Request, def, max int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
