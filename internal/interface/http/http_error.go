package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/weather-advice/pkg/errors"
)

// Error codes written in the response envelope.
const (
	codeInvalidRequest = "invalid_request"
	codeRateLimited    = "rate_limited"
	codeNotFound       = "not_found"
	codeInternal       = "internal_error"
)

// HTTPError is the transport view of a failed request.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func badRequest(message string, err error) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Code: codeInvalidRequest, Message: message, Err: err}
}

// fromDomain maps advisor failures onto statuses. Upstream provider failures
// are reported as 502 under their own code.
func fromDomain(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		return badRequest(domainMessage(err), err)
	case apperrors.IsCode(err, apperrors.CodeForecastError):
		return &HTTPError{Status: http.StatusBadGateway, Code: apperrors.CodeForecastError, Message: domainMessage(err), Err: err}
	case apperrors.IsCode(err, apperrors.CodeGeocodingError):
		return &HTTPError{Status: http.StatusBadGateway, Code: apperrors.CodeGeocodingError, Message: domainMessage(err), Err: err}
	default:
		return &HTTPError{Status: http.StatusInternalServerError, Code: codeInternal, Message: "something went wrong", Err: err}
	}
}

// domainMessage keeps the user facing part of an AppError and drops the cause.
func domainMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

// abortWithError records err for errorEnvelope and stops the chain.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
