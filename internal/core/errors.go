package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the feed pipeline
var (
	ErrMissingURL = errors.New("url parameter is missing")
	ErrInvalidURL = errors.New("invalid url format")

	ErrFetchTimeout = errors.New("fetch timed out")
	ErrFetchNetwork = errors.New("fetch network error")

	ErrModelUnavailable   = errors.New("model unavailable")
	ErrModelConfiguration = errors.New("model credentials are not configured")
	ErrModelTimeout       = errors.New("model call timed out")
	ErrEmptyModelResponse = errors.New("model returned an empty response")
)

// FetchHTTPError is returned when the remote server answers with a non-success status
type FetchHTTPError struct {
	StatusCode int
}

func (e *FetchHTTPError) Error() string {
	return fmt.Sprintf("remote server responded with status %d", e.StatusCode)
}

// Client-facing messages. Nothing else crosses the HTTP boundary.
const (
	MsgMissingURL       = "URL parameter is missing."
	MsgInvalidURL       = "Invalid URL format provided."
	MsgFetchTimeout     = "Failed to fetch URL: the request timed out."
	MsgFetchStatus      = "Failed to fetch URL: the server responded with status %d."
	MsgFetchNetwork     = "Failed to fetch URL: the site could not be reached."
	MsgConfiguration    = "Server configuration error."
	MsgModelUnavailable = "The AI service is currently unavailable."
	MsgModelTimeout     = "The AI service did not respond in time."
	MsgEmptyResponse    = "The AI returned an empty response."
	MsgMalformed        = "The AI returned a response in an unexpected format."
	MsgUnknown          = "An unknown internal error occurred."
	MsgMethodNotAllowed = "Method not allowed."
)
