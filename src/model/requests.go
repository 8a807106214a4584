package cowin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/56.0.2924.76 Safari/537.36 Mozilla/5.0 (X11; Linux x86_64) Chrome/44.0.2403.157 Thunderstorm/1.0 (Linux)"
	timeout   = 10 * time.Second
)

// HttpError is returned for any non-2xx response.
type HttpError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("%s (status %d from %s)", e.Message, e.StatusCode, e.URL)
}

// SessionExpired reports a 401 received while a token was configured.
func (e *HttpError) SessionExpired() bool {
	return e.StatusCode == http.StatusUnauthorized && e.Message == msgSessionExpired
}

const (
	msgSessionExpired = "session expired, please sign in again"
	msgTooManyRequest = "too many requests already sent, please retry after 1 hour"
)

type Client struct {
	baseURL    *url.URL
	HTTPClient *http.Client
	userAgent  string
	token      string
}

// NewClient builds a client rooted at baseURL. A nil http.Client gets the
// default 10s timeout.
func NewClient(client *http.Client, baseURL string) (*Client, error) {
	var c Client
	if client == nil {
		client = &http.Client{
			Timeout: timeout,
		}
	}

	urlValue, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	c.baseURL = urlValue
	c.HTTPClient = client
	c.userAgent = userAgent

	return &c, nil
}

// WithToken makes every request carry "Authorization: Bearer <token>".
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid http request: %w", err)
	}
	req.Header.Add("User-Agent", c.userAgent)
	req.Header.Add("Accept", "application/json")
	if c.token != "" {
		req.Header.Add("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// DoJSON sends request and decodes a 2xx body into v.
func (c *Client) DoJSON(request *http.Request, v interface{}) error {
	start := time.Now()
	target := request.URL.Redacted()
	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return fmt.Errorf("unable to query %s: %w", target, err)
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("unable to read response from %s: %w", target, err)
	}
	log.WithField("status", response.StatusCode).Debugln("GET", target, "completed in:", time.Since(start))

	if response.StatusCode < 200 || response.StatusCode > 299 {
		httpErr := &HttpError{StatusCode: response.StatusCode, URL: target, Message: http.StatusText(response.StatusCode)}
		switch {
		case response.StatusCode == http.StatusUnauthorized && c.token != "":
			httpErr.Message = msgSessionExpired
		case response.StatusCode == http.StatusForbidden:
			httpErr.Message = msgTooManyRequest
		}
		return httpErr
	}

	if err := json.Unmarshal(responseBytes, v); err != nil {
		return fmt.Errorf("unable to unmarshal response from %s: %w", target, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v interface{}) error {
	req, err := c.NewRequest(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	return c.DoJSON(req, v)
}
