package client

import (
	"fmt"
)

type APIError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return e.Endpoint + ": " + e.Err.Error()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NewAPIError(endpoint string, status int, err error) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: status,
		Err:        err,
	}
}
