// Package fdisms is a client for the FDI messaging REST API.
//
// A Client is built from an API key and secret and manages the bearer token
// pair itself: construction performs no I/O, the first call that needs
// authorization obtains tokens, and a request rejected with 401 is replayed
// once after the token is renewed. A Client is safe for concurrent use.
//
// Non-200 responses surface as *APIError values that wrap a sentinel per
// status code, so callers can branch with errors.Is:
//
//	balance, err := client.BalanceNow(ctx)
//	if errors.Is(err, fdisms.ErrUnauthorized) {
//		// credentials revoked
//	}
//
// and recover the raw response with errors.As:
//
//	var apiErr *fdisms.APIError
//	if errors.As(err, &apiErr) {
//		log.Printf("status %d: %s", apiErr.StatusCode, apiErr.Body)
//	}
package fdisms
