package common

import "errors"

// Error taxonomy shared by the orchestrators and the HTTP surface.
var (
	// ErrAuthResolution means no acting user could be determined for a request.
	ErrAuthResolution = errors.New("no authenticated user found")
	// ErrCredential means the user exists but has no linked Google refresh token.
	ErrCredential = errors.New("no google refresh token found for user")
	// ErrAIGateway wraps failures of the generative-text provider.
	ErrAIGateway = errors.New("ai gateway failure")
	// ErrCalendarGateway wraps failures of the calendar provider.
	ErrCalendarGateway = errors.New("calendar gateway failure")
	// ErrPersistence wraps store failures that must surface to the caller.
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidInput marks a rejected request payload.
	ErrInvalidInput = errors.New("invalid input")
)
