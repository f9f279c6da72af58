package tind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// nonJSONReason is reported when an error body has no usable JSON message.
const nonJSONReason = "non-JSON response"

// RateLimitError is returned for a 429 response.
type RateLimitError struct {
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("tind: rate limit exceeded, retry at %s", e.RetryAt.Format(time.RFC3339))
}

// Is matches domain.ErrRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrRateLimited
}

// errorBody is the JSON shape of a TIND error response.
type errorBody struct {
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// newCatalogueError builds a CatalogueError from a non-success response body.
// The message comes from the "reason" field, then "error".
func newCatalogueError(status int, body []byte) *domain.CatalogueError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return &domain.CatalogueError{StatusCode: status, Reason: nonJSONReason}
	}
	switch {
	case eb.Reason != "":
		return &domain.CatalogueError{StatusCode: status, Reason: eb.Reason}
	case eb.Error != "":
		return &domain.CatalogueError{StatusCode: status, Reason: eb.Error}
	default:
		return &domain.CatalogueError{StatusCode: status, Reason: nonJSONReason}
	}
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrAuthorization)
}

// IsNotFound checks if the error indicates a missing record or file.
func IsNotFound(err error) bool {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return true
	}
	var ce *domain.CatalogueError
	if errors.As(err, &ce) {
		return ce.StatusCode == http.StatusNotFound
	}
	return false
}
