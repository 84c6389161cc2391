package offline

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CacheStatusHeader is set on responses served from a partition
const CacheStatusHeader = "X-Skypulse-Cache"

// CachedResponse is a fully buffered response stored in a partition
type CachedResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	StoredAt   time.Time
}

// RequestKey identifies a request inside a partition: method plus URL without fragment
func RequestKey(req *http.Request) string {
	return keyFor(req.Method, req.URL.String())
}

func keyFor(method, rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL = rawURL[:i]
	}
	return method + " " + rawURL
}

// cloneResponse buffers resp's body and returns a cacheable copy.
// resp.Body is replaced so the caller can still read it.
func cloneResponse(resp *http.Response, now time.Time) (*CachedResponse, error) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))

	return &CachedResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		StoredAt:   now,
	}, nil
}

// toResponse builds a fresh *http.Response for req from the cached copy
func (c *CachedResponse) toResponse(req *http.Request) *http.Response {
	header := c.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(CacheStatusHeader, "hit")

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", c.StatusCode, http.StatusText(c.StatusCode)),
		StatusCode:    c.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(c.Body)),
		ContentLength: int64(len(c.Body)),
		Request:       req,
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
