package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates the session is missing or logged out
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBusy indicates a chat turn is already waiting on the workflow service
	ErrBusy = errors.New("a message is already being processed")
	// ErrEmptyMessage indicates the chat input was blank
	ErrEmptyMessage = errors.New("message is empty")
)
