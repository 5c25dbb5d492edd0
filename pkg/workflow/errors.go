package workflow

import "errors"

// Typed errors returned by session operations. Controllers map these
// onto HTTP statuses.
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnknownWorkflow    = errors.New("unknown workflow")
	ErrSessionNotFound    = errors.New("session not found")
	ErrExternalCallFailed = errors.New("external workflow trigger failed")
)
