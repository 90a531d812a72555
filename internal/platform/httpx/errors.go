// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Mapping ties a domain error to the problem response written for it.
type Mapping struct {
	Target error
	Status int
	Title  string
	// Expose copies err.Error() into the problem detail. Leave it off for
	// failures whose text may leak infrastructure details.
	Expose bool
}

// RespondError writes the problem for the first mapping err matches using
// errors.Is, or a generic 500 when none match.
func RespondError(w http.ResponseWriter, err error, mappings ...Mapping) {
	for _, m := range mappings {
		if !errors.Is(err, m.Target) {
			continue
		}
		detail := ""
		if m.Expose {
			detail = err.Error()
		}
		Problem(w, m.Status, m.Title, detail)
		return
	}
	Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
