// Package catalog provides a course catalog backed by the platform's course
// service over HTTP.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 5 * time.Second

// Config configures the remote catalog client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Retries int
}

type courseResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Published bool   `json:"published"`
}

// HTTPCatalog looks courses up with GET {BaseURL}/courses/{id}. A 404 means
// the course does not exist; any other non-2xx status is an error. Transport
// errors and 5xx responses are retried up to Config.Retries times.
type HTTPCatalog struct {
	client *resty.Client
}

func NewHTTPCatalog(cfg Config) *HTTPCatalog {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &HTTPCatalog{client: client}
}

func (c *HTTPCatalog) IsPublished(ctx context.Context, courseID string) (bool, error) {
	var course courseResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&course).
		Get("/courses/" + url.PathEscape(courseID))
	if err != nil {
		return false, fmt.Errorf("catalog request: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	case resp.IsError():
		return false, fmt.Errorf("catalog request: unexpected status %d", resp.StatusCode())
	}
	return course.Published, nil
}
