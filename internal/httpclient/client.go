package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"

	"xspect/internal/logger"
)

// Client wraps http.Client with the scanner's request conventions: a fixed
// User-Agent, a hard per-request timeout, a capped redirect chain and an
// optional bounded retry loop.
type Client struct {
	httpClient   *http.Client
	logger       *logger.Logger
	userAgent    string
	maxRetries   int
	requestDelay time.Duration
}

// ClientOptions holds configuration parameters for initializing the Client.
type ClientOptions struct {
	Timeout            time.Duration // Timeout for HTTP requests.
	FollowRedirects    bool          // Whether to follow HTTP redirects.
	InsecureSkipVerify bool          // Whether to skip TLS certificate verification.
	UserAgent          string        // Custom User-Agent string.
	MaxRetries         int           // Maximum number of retries for failed requests.
	RequestDelay       time.Duration // Delay between retries.
}

// NewClient creates an HTTP client instance with the given options.
func NewClient(log *logger.Logger, opts ClientOptions) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = "Xspect-Scanner/1.0"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify},
	}

	client := &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		logger:       log,
		userAgent:    opts.UserAgent,
		maxRetries:   opts.MaxRetries,
		requestDelay: opts.RequestDelay,
	}

	client.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if !opts.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if len(via) >= 10 {
			log.Warn("Exceeded maximum redirects (10).")
			return http.ErrUseLastResponse
		}
		return nil
	}
	return client
}

// Do performs an HTTP request with the configured User-Agent and retry policy.
// A request only counts as failed when the transport errors or the server
// answers 5xx; any other status is returned to the caller as-is.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	c.logger.Debug("Sending request: %s %s", req.Method, req.URL.String())

	var resp *http.Response
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			time.Sleep(c.requestDelay)
		}

		resp, err = c.httpClient.Do(req.Clone(req.Context()))
		if err == nil {
			if resp.StatusCode < 500 || resp.StatusCode > 599 {
				return resp, nil
			}
		}
		// Drop the response only if another attempt follows; the final one
		// is handed back to the caller.
		if resp != nil && i < c.maxRetries {
			resp.Body.Close()
		}
	}

	return resp, err
}

// Get performs an HTTP GET request using the custom client.
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}
