package stashapi

import "errors"

// ErrUnauthorized is returned for HTTP 401; the token is missing, expired or
// lacks the account:stashes scope.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is any other non-2xx response from the trade API. Its text is
// the API's error message as sent; the HTTP status is kept in Status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorBody is the {"error": {"code": 2, "message": "..."}} envelope.
type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
