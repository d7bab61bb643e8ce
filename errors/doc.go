// Package errors provides standardized error handling patterns for catalog components.
//
// # Overview
//
// The errors package implements a four-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable),
// NotFound (missing entity, non-retryable), and Fatal (unrecoverable, stop
// processing).
//
// This classification lets callers make informed decisions about retries,
// HTTP status mapping, and failure recovery without hardcoded error string
// matching. It integrates with Go's standard error handling patterns,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if book == nil {
//	    return errors.WrapNotFound(errors.ErrNotFound, "BookStore", "FindByID", "book lookup")
//	}
//
// Wrap lower-level errors with component context:
//
//	if err := store.Save(ctx, user); err != nil {
//	    return errors.Wrap(err, "Accessor", "Save", "user persist")
//	}
//
// Check classification at the call site:
//
//	if err := accessor.FindByID(ctx, id); err != nil {
//	    switch {
//	    case errors.IsNotFound(err):
//	        // 404-equivalent: entity does not exist
//	    case errors.IsTransient(err):
//	        // retry with backoff
//	    case errors.IsInvalid(err):
//	        // reject, do not retry
//	    }
//	}
//
// # Validation Errors
//
// Bulk operations validate caller-supplied input field by field. A failing
// field is reported through ValidationError, which classifies as Invalid and
// exposes the field name programmatically:
//
//	if strings.TrimSpace(title) == "" {
//	    return errors.Validation("title", "must not be empty")
//	}
//
//	if field, ok := errors.ValidationField(err); ok {
//	    log.Warn("rejected candidate", "field", field)
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: <underlying error>"
//
// which keeps log lines grep-able by component and operation.
package errors
