package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
)

// Error is a failed call. Status is 0 when the request never reached the server.
type Error struct {
	Status  int
	Kind    apperrors.Kind
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Kind, e.Message)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind apperrors.Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func decodeError(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &Error{
			Status:  resp.StatusCode,
			Kind:    apperrors.KindInternal,
			Message: http.StatusText(resp.StatusCode),
		}
	}
	return &Error{Status: resp.StatusCode, Kind: apperrors.Kind(payload.Error), Message: payload.Message}
}
