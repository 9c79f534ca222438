package endpoint

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/sashabaranov/go-openai"
)

// Error types reported in SummaryReport.ErrorsByType
const (
	ErrTypeThrottling    = "ThrottlingError"
	ErrTypeAuth          = "AuthError"
	ErrTypeValidation    = "ValidationError"
	ErrTypeModelNotFound = "ModelNotFoundError"
	ErrTypeServer        = "ServerError"
	ErrTypeTimeout       = "TimeoutError"
	ErrTypeConnection    = "ConnectionError"
	ErrTypeStream        = "StreamError"
	ErrTypeUnknown       = "UnknownError"
)

// Classify maps a client error to one of the ErrType constants
func Classify(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTypeTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}

	var awsErr smithy.APIError
	if errors.As(err, &awsErr) {
		return classifyMessage(awsErr.ErrorCode() + " " + awsErr.ErrorMessage())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTypeTimeout
		}
		return ErrTypeConnection
	}

	return classifyMessage(err.Error())
}

func classifyStatus(status int, msg string) string {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrTypeThrottling
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrTypeAuth
	case status == http.StatusNotFound:
		return ErrTypeModelNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrTypeValidation
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return ErrTypeTimeout
	case status >= 500:
		return ErrTypeServer
	default:
		return classifyMessage(msg)
	}
}

func classifyMessage(msg string) string {
	s := strings.ToLower(msg)
	switch {
	case strings.Contains(s, "throttl") || strings.Contains(s, "too many"):
		return ErrTypeThrottling
	case strings.Contains(s, "access denied") || strings.Contains(s, "accessdenied") || strings.Contains(s, "unauthorized"):
		return ErrTypeAuth
	case strings.Contains(s, "validation"):
		return ErrTypeValidation
	case strings.Contains(s, "not found") || strings.Contains(s, "notfound"):
		return ErrTypeModelNotFound
	case strings.Contains(s, "timeout") || strings.Contains(s, "timed out"):
		return ErrTypeTimeout
	case strings.Contains(s, "connection refused") || strings.Contains(s, "no such host") || strings.Contains(s, "connection reset"):
		return ErrTypeConnection
	case strings.Contains(s, "stream"):
		return ErrTypeStream
	case strings.Contains(s, "internal") || strings.Contains(s, "unavailable"):
		return ErrTypeServer
	default:
		return ErrTypeUnknown
	}
}
