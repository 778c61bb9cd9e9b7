package generation

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// ErrNoImageReturned is returned when the call succeeded but no response
// part carried inline image data.
var ErrNoImageReturned = errors.New("no image data found in the response")

// DefaultTransportReason is used when a failure carries no message.
const DefaultTransportReason = "Failed to generate headshot."

// TransportKind categorizes why a call to Gemini failed.
type TransportKind int

const (
	// KindUnknown is any failure not matched below.
	KindUnknown TransportKind = iota
	// KindNoKey means no API key could be found.
	KindNoKey
	// KindAuth means the key was rejected or is malformed.
	KindAuth
	// KindQuota means the key is rate limited or out of quota.
	KindQuota
	// KindNetwork covers connectivity problems.
	KindNetwork
	// KindTimeout means the call exceeded its deadline.
	KindTimeout
	// KindServer covers 5xx responses.
	KindServer
	// KindMalformed means the response did not have the expected shape.
	KindMalformed
)

func (k TransportKind) String() string {
	switch k {
	case KindNoKey:
		return "no_key"
	case KindAuth:
		return "auth"
	case KindQuota:
		return "quota"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// TransportError is a failed call to Gemini. Reason is what the user sees.
type TransportError struct {
	Kind   TransportKind
	Reason string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return DefaultTransportReason
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(kind TransportKind, reason string, err error) *TransportError {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultTransportReason
	}
	return &TransportError{Kind: kind, Reason: reason, Err: err}
}

// classifyError maps an error from the genai client to a TransportError.
func classifyError(err error) *TransportError {
	if err == nil {
		return nil
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te
	}

	if errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("Gemini request timed out")
		return newTransportError(KindTimeout, "The request to Gemini timed out. Please try again.", err)
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}

	errMsg := err.Error()
	errLower := strings.ToLower(errMsg)

	switch {
	case strings.Contains(errLower, "api key not valid") ||
		strings.Contains(errLower, "invalid api key") ||
		strings.Contains(errLower, "api_key_invalid") ||
		strings.Contains(errLower, "permission denied"):
		log.Error().Err(err).Msg("Invalid API key")
		return newTransportError(KindAuth, errMsg, err)

	case strings.Contains(errLower, "quota") ||
		strings.Contains(errLower, "resource exhausted") ||
		strings.Contains(errLower, "rate limit"):
		log.Error().Err(err).Msg("API quota exceeded")
		return newTransportError(KindQuota, errMsg, err)

	case strings.Contains(errLower, "connection") ||
		strings.Contains(errLower, "network") ||
		strings.Contains(errLower, "timeout") ||
		strings.Contains(errLower, "dial") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "unreachable"):
		log.Error().Err(err).Msg("Network error calling Gemini")
		return newTransportError(KindNetwork, errMsg, err)

	default:
		log.Error().Err(err).Msg("Gemini request failed")
		return newTransportError(KindUnknown, errMsg, err)
	}
}

// classifyAPIError categorizes an error returned by the Gemini API.
func classifyAPIError(err *genai.APIError) *TransportError {
	kind := KindUnknown
	switch {
	case err.Code == 400 || err.Code == 401 || err.Code == 403:
		kind = KindAuth
	case err.Code == 429:
		kind = KindQuota
	case err.Code >= 500:
		kind = KindServer
	}

	log.Error().
		Int("code", err.Code).
		Str("status", err.Status).
		Str("kind", kind.String()).
		Msg("Gemini API error")

	return newTransportError(kind, err.Message, err)
}
