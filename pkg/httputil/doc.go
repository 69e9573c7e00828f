// Package httputil provides retry helpers for the image source HTTP client.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff, but only when the
// returned error is marked transient with [Retryable]:
//
//   - Network errors (connection refused, resets, timeouts)
//   - 5xx server errors
//
// Every other error is returned immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// # Configuration
//
// [RetryWithBackoff] uses [DefaultPolicy]: 3 attempts and a 1 second
// initial delay that doubles after each failure, capped at 8 seconds. A
// [Policy] with an OnRetry callback lets callers log each retry. Cancelling
// the context aborts the wait.
package httputil
