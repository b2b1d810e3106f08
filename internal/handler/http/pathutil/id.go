// Package pathutil reads typed path parameters and derives low-cardinality
// route labels for metrics.
package pathutil

import (
	"errors"
	"net/http"
	"strconv"
)

// ErrInvalidID is returned when a path id is missing, non-numeric or not positive.
var ErrInvalidID = errors.New("invalid id")

// PathID parses the named wildcard of the matched ServeMux pattern, e.g.
// "id" for "DELETE /posts/{id}".
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
