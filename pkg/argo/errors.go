package argo

import "errors"

var (
	// ErrWorkflowNotFound means the Argo server does not know of the
	// requested workflow run.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrArgoUnavailable means the Argo server could not be reached, or
	// responded in a way that suggests it is not healthy.
	ErrArgoUnavailable = errors.New("argo server unavailable")

	// ErrArgoAuth means the Argo server rejected the configured bearer token.
	ErrArgoAuth = errors.New("argo authentication failed")
)
