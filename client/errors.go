package client

import (
	"fmt"
	"net/http"
)

const (
	RateLimitNotification   = "Too many requests. Please wait a moment and try again."
	UnavailableNotification = "Service temporarily unavailable. Please try again later."
	GenericNotification     = "Something went wrong. Please try again."
)

// StatusError is returned when the relay rejects a chat request.
type StatusError struct {
	Status int
	// Message is the relay's error field, empty if the body wasn't JSON.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("client: unexpected status %d: %s", e.Status, e.Message)
}

// Notification is the text to show the user.
func (e *StatusError) Notification() string {
	switch e.Status {
	case http.StatusTooManyRequests:
		return RateLimitNotification
	case http.StatusPaymentRequired:
		return UnavailableNotification
	}
	if e.Message != "" {
		return e.Message
	}
	return GenericNotification
}
