package contentapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 5 * time.Second

// Client reads resources under a content root over HTTP. Every request
// is bounded by Timeout, including reading the body.
type Client struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Timeout: timeout,
	}
	c.HTTPClient = &http.Client{CheckRedirect: c.checkRedirect}
	return c
}

var ErrForeignRedirect = errors.New("redirect leaves content root")

const maxRedirects = 10

// checkRedirect follows redirects only while they stay under BaseURL.
func (c *Client) checkRedirect(
	req *http.Request,
	via []*http.Request,
) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	u := req.URL
	if u.Scheme != base.Scheme || u.Host != base.Host ||
		!strings.HasPrefix(u.Path, base.Path+"/") {
		return fmt.Errorf("%w: %s", ErrForeignRedirect, u)
	}
	return nil
}

// URL returns the absolute location of rel under the root. A trailing
// separator on rel is preserved.
func (c *Client) URL(rel string) string {
	if rel == "" {
		return c.BaseURL + "/"
	}
	segs := strings.Split(rel, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return c.BaseURL + "/" + strings.Join(segs, "/")
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, newStatusError(
			req.URL.String(), resp.StatusCode, body,
		)
	}
	return resp, nil
}

type StatusError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(
		"GET %s: %d: %s", e.URL, e.StatusCode, e.Message,
	)
}

func newStatusError(u string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if msg == "" || len(msg) > 200 {
		msg = http.StatusText(status)
	}
	return &StatusError{URL: u, StatusCode: status, Message: msg}
}

func IsNotFound(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusNotFound ||
			se.StatusCode == http.StatusGone
	}
	return false
}

// Open starts a GET for rel. The returned body must be closed; closing
// it also releases the request's timeout.
func (c *Client) Open(
	ctx context.Context,
	rel string,
) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.URL(rel), nil,
	)
	if err != nil {
		cancel()
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	return &cancelBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

// Get reads at most limit bytes of rel.
func (c *Client) Get(
	ctx context.Context,
	rel string,
	limit int64,
) ([]byte, error) {
	body, err := c.Open(ctx, rel)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(io.LimitReader(body, limit))
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
