package fdisms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avicennajr/go-fdisms/pkg/httpclient"
)

// DefaultTimeout bounds each HTTP round trip when no custom client is supplied.
const DefaultTimeout = 15 * time.Second

// Credentials identify an API account.
type Credentials struct {
	APIKey    string `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
	APISecret string `json:"api_secret" yaml:"api_secret" mapstructure:"api_secret"`
}

// Config carries the knobs for building a Client. Credentials are required,
// everything else has a usable default.
type Config struct {
	Credentials Credentials
	Environment Environment
	// BaseURL overrides the environment URL when set. Mainly for tests.
	BaseURL string
	// Timeout applies to the default HTTP client only.
	Timeout time.Duration
	// HTTPClient replaces the default resty transport when set.
	HTTPClient httpclient.Client
	Logger     Logger
}

// session is the token pair issued by the auth endpoints.
type session struct {
	accessToken  string
	refreshToken string
}

// Client talks to the FDI messaging REST API. Construction performs no I/O;
// the first call that needs authorization obtains the token pair. A Client
// is safe for concurrent use.
type Client struct {
	creds   Credentials
	baseURL string
	http    httpclient.Client
	log     Logger

	mu      sync.Mutex
	session session
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Credentials.APIKey) == "" {
		return nil, errors.New("fdisms: credentials api key is empty")
	}
	if strings.TrimSpace(cfg.Credentials.APISecret) == "" {
		return nil, errors.New("fdisms: credentials api secret is empty")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = cfg.Environment.BaseURL()
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = httpclient.NewRestyClient(timeout)
	}

	return &Client{
		creds:   cfg.Credentials,
		baseURL: baseURL,
		http:    hc,
		log:     ensureLogger(cfg.Logger),
	}, nil
}

// BaseURL reports the root URL the client dispatches against.
func (c *Client) BaseURL() string { return c.baseURL }

// do dispatches one HTTP request and returns the raw response. token may be
// empty for endpoints that need no authorization.
func (c *Client) do(ctx context.Context, method, path string, body any, token string) (httpclient.Response, error) {
	headers := map[string]string{"Content-Type": "application/json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	url := c.baseURL + path
	switch method {
	case http.MethodGet:
		return c.http.Get(ctx, url, headers)
	case http.MethodPost:
		return c.http.Post(ctx, url, headers, body)
	default:
		return nil, fmt.Errorf("fdisms: unsupported method %s", method)
	}
}

// open performs an unauthenticated call and translates the response.
func (c *Client) open(ctx context.Context, method, path string, body any) ([]byte, error) {
	resp, err := c.do(ctx, method, path, body, "")
	if err != nil {
		return nil, fmt.Errorf("fdisms: %s %s: %w", method, path, err)
	}
	return translate(resp.StatusCode(), resp.Body())
}

// authorized performs a bearer-token call, acquiring or renewing the token
// as needed. A request rejected with 401 is replayed exactly once after the
// token is renewed.
func (c *Client) authorized(ctx context.Context, method, path string, body any) ([]byte, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, method, path, body, token)
	if err != nil {
		return nil, fmt.Errorf("fdisms: %s %s: %w", method, path, err)
	}
	out, terr := translate(resp.StatusCode(), resp.Body())
	if terr == nil || !errors.Is(terr, ErrUnauthorized) {
		return out, terr
	}

	c.log.DebugObj("access token rejected, renewing", "endpoint", path)
	token, err = c.renewToken(ctx, token)
	if err != nil {
		return nil, err
	}
	resp, err = c.do(ctx, method, path, body, token)
	if err != nil {
		return nil, fmt.Errorf("fdisms: %s %s: %w", method, path, err)
	}
	return translate(resp.StatusCode(), resp.Body())
}

func decode(raw []byte, what string, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("fdisms: decode %s response: %w", what, err)
	}
	return nil
}
