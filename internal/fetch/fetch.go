// Package fetch downloads scorecard documents from remote URLs, typically a
// league website's published match page or PDF.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"scorebook/internal/constants"

	"github.com/valyala/fasthttp"
)

type Client struct {
	client *fasthttp.Client
}

func NewClient() *Client {
	return &Client{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.FetchTimeout,
			WriteTimeout:        constants.FetchTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// Fetch downloads a document and returns its body and content type. The
// context deadline bounds the whole request.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	timeout := constants.FetchTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		return nil, "", fmt.Errorf("request to %s failed: %w", url, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), url)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, string(resp.Header.ContentType()), nil
}

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether a fetched document is a PDF, by content type or by
// the file magic when servers mislabel.
func IsPDF(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(body, pdfMagic)
}
