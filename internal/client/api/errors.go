package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/farmstand/internal/common"
)

// ErrUnavailable marks transport-level failures: the request never produced
// an HTTP response (DNS failure, refused connection, ...).
var ErrUnavailable = errors.New("server unavailable")

// StatusError is returned for any non-2xx response. It carries the status
// code and the raw response body so failures can be surfaced verbatim.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Is maps well-known statuses onto the shared sentinels so callers can use
// errors.Is(err, common.ErrorNotFound) without depending on this package's
// concrete type.
func (e *StatusError) Is(target error) bool {
	switch target {
	case common.ErrorNotFound:
		return e.StatusCode == http.StatusNotFound
	case common.ErrorUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case common.ErrorForbidden:
		return e.StatusCode == http.StatusForbidden
	}
	return false
}
