package httpclient

import "context"

// Response exposes the two response properties the gateway client
// inspects: the raw body and the status code that selects its meaning.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP dispatch so tests and callers can swap the
// transport. Post marshals body to JSON before sending; Get sends no
// body. Implementations must honor ctx cancellation.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Post(ctx context.Context, url string, headers map[string]string, body any) (Response, error)
}
