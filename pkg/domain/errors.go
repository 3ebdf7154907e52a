package domain

import "errors"

// ErrSessionNotFound is returned when a form ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// ErrUnknownCommand is returned when user input cannot be mapped to an action.
var ErrUnknownCommand = errors.New("unknown command")
