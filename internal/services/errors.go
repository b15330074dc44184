// Package services holds the reply pipeline. This file centralizes the
// service-level error values. They never reach the customer: Assistant turns
// each of them into a fallback reply and only logs the error.
package services

import "errors"

var (
	// ErrLLMUnavailable is the fallback reason when no model is configured.
	ErrLLMUnavailable = errors.New("language model not configured")

	// ErrShortAnswer is returned when the model answered with less text than
	// the configured minimum.
	ErrShortAnswer = errors.New("model answer too short")

	// ErrPanic wraps a recovered panic inside the pipeline.
	ErrPanic = errors.New("reply pipeline panicked")
)

// Fallback reasons, used as metric labels and log fields.
const (
	reasonUnconfigured = "unconfigured"
	reasonCompanyInfo  = "company_info"
	reasonLLMError     = "llm_error"
	reasonShortAnswer  = "short_answer"
	reasonPanic        = "panic"
)
