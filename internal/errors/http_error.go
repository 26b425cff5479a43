package errors

import (
	"fmt"
	"net/http"
)

// Error codes surfaced to clients. Reconciliation failures are logged,
// never returned, so they have no code here.
const (
	CodeSlotNotFound      = "SLOT_NOT_FOUND"
	CodeSlotFull          = "SLOT_FULL"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeStoreError        = "STORE_ERROR"
)

// APIError represents a client-facing error with an associated HTTP status
// code and a machine-readable taxonomy code.
type APIError struct {
	Status int
	Code   string
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func NewAPIError(status int, code, detail string) *APIError {
	return &APIError{Status: status, Code: code, Detail: detail}
}

// Helpers for the booking taxonomy.
var (
	SlotNotFound = func(date, timeStr string) *APIError {
		return NewAPIError(http.StatusNotFound, CodeSlotNotFound,
			fmt.Sprintf("no enabled slot matches %s %s", date, timeStr))
	}
	SlotFull = func(date, timeStr string) *APIError {
		return NewAPIError(http.StatusConflict, CodeSlotFull,
			fmt.Sprintf("slot %s %s has no remaining capacity", date, timeStr))
	}
	InvalidTransition = func(from, to string) *APIError {
		return NewAPIError(http.StatusConflict, CodeInvalidTransition,
			fmt.Sprintf("cannot transition appointment from '%s' to '%s'", from, to))
	}
	StoreError = func(err error) *APIError {
		return NewAPIError(http.StatusInternalServerError, CodeStoreError, err.Error())
	}
)
