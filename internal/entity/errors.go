package entity

import "errors"

// Domain errors
var (
	// Generation errors
	ErrGenerationNotFound   = errors.New("generation not found")
	ErrGenerationInProgress = errors.New("generation is still in progress")
	ErrNoCode               = errors.New("generation has no code")

	// Prompt errors
	ErrPromptEmpty     = errors.New("prompt is empty")
	ErrPromptTooLong   = errors.New("prompt too long")
	ErrPromptTooBig    = errors.New("prompt exceeds token budget")
	ErrUnknownTarget   = errors.New("unknown target")
	ErrInvalidCallback = errors.New("invalid callback URL")

	// Upstream errors
	ErrUpstreamFailed   = errors.New("code generation service failed")
	ErrEmptyCompletion  = errors.New("code generation service returned empty completion")
	ErrUpstreamThrottle = errors.New("code generation service rate limited")

	// Validation errors
	ErrInvalidParameter = errors.New("invalid parameter")
)
