package errors

import (
	"errors"
	"net/http"
)

var (
	NotFound            = HttpError{http.StatusNotFound, errors.New("not found")}
	Duplicate           = HttpError{http.StatusConflict, errors.New("duplicate")}
	ConstraintViolation = HttpError{http.StatusUnprocessableEntity, errors.New("constraint violation")}
	BadRequest          = HttpError{http.StatusBadRequest, errors.New("bad request")}
	Unauthorized        = HttpError{http.StatusUnauthorized, errors.New("unauthorized")}
	Forbidden           = HttpError{http.StatusForbidden, errors.New("forbidden")}
	InternalServerError = HttpError{http.StatusInternalServerError, errors.New("internal server error")}
	Conflict            = HttpError{http.StatusConflict, errors.New("conflict")}

	// PolicyViolation is returned when a requested rejection action is not
	// permitted by the current attempt counters or cross-entity rules.
	// It is rejected before any write and is not retryable.
	PolicyViolation = HttpError{http.StatusConflict, errors.New("action is not permitted by rejection policy")}

	// Validation covers client-side rejectable input, e.g. a blank
	// rejection reason where one is mandatory.
	Validation = HttpError{http.StatusBadRequest, errors.New("invalid input")}

	// StaleState is returned when the stored record no longer matches the
	// state the caller evaluated against. Callers are expected to refetch
	// and re-present options; this is a normal outcome, not a failure.
	StaleState = HttpError{http.StatusConflict, errors.New("state has changed, refetch and retry")}

	// Transport covers backend/storage failures. Safe to retry; no local
	// state is mutated until the write is confirmed.
	Transport = HttpError{http.StatusBadGateway, errors.New("transport failure")}
)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}
