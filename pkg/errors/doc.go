// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeDecode,
//	    "status packet truncated",
//	    decoder.ErrTruncated,
//	    map[string]any{
//	        "expected": 60,
//	        "received": len(buf),
//	    },
//	)
//
// Callers that only need the classification can test it with IsCode:
//
//	if errors.IsCode(err, errors.ErrCodeDecode) {
//	    // no usable sample this tick
//	}
package errors
