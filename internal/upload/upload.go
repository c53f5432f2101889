// Package upload sends an exported image and mask to a generation service
// and polls the job until it finishes.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrJobFailed is returned when the service reports the job as failed.
var ErrJobFailed = errors.New("generation job failed")

// Job states reported by the service.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxInterval  = 5 * time.Second
	maxResponseBytes    = 64 << 20
)

// Status is the service's view of a job.
type Status struct {
	Status   string `json:"status"`
	Progress int    `json:"progress,omitempty"`
	Image    string `json:"image,omitempty"`
	Error    string `json:"error,omitempty"`
}

type submitRequest struct {
	Image string `json:"image"`
	Mask  string `json:"mask"`
}

type submitResponse struct {
	ID string `json:"id"`
}

// Client talks to one generation endpoint.
type Client struct {
	endpoint     string
	client       *http.Client
	pollInterval time.Duration
	maxInterval  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.client = c } }

// WithPollInterval sets the first polling delay. Later delays double up to
// the maximum interval.
func WithPollInterval(d time.Duration) Option { return func(c *Client) { c.pollInterval = d } }

// WithMaxInterval caps the polling delay.
func WithMaxInterval(d time.Duration) Option { return func(c *Client) { c.maxInterval = d } }

// NewClient returns a client for endpoint, such as "http://host:8080/api".
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q: scheme must be http or https", endpoint)
	}
	c := &Client{
		endpoint:     strings.TrimRight(endpoint, "/"),
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: defaultPollInterval,
		maxInterval:  defaultMaxInterval,
	}
	for _, o := range opts {
		o(c)
	}
	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}
	if c.maxInterval < c.pollInterval {
		c.maxInterval = c.pollInterval
	}
	return c, nil
}

// Submit starts a job for the base image and mask data URLs and returns its
// id.
func (c *Client) Submit(ctx context.Context, image, mask string) (string, error) {
	body, err := json.Marshal(submitRequest{Image: image, Mask: mask})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/jobs", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	var resp submitResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}
	if resp.ID == "" {
		return "", errors.New("submit: response has no job id")
	}
	return resp.ID, nil
}

// Poll fetches the current status of a job.
func (c *Client) Poll(ctx context.Context, id string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/jobs/"+url.PathEscape(id), nil)
	if err != nil {
		return Status{}, fmt.Errorf("failed to create request: %w", err)
	}
	var st Status
	if err := c.do(req, &st); err != nil {
		return Status{}, fmt.Errorf("poll %s: %w", id, err)
	}
	return st, nil
}

// Wait polls until the job is done, fails or ctx ends. progress, when not
// nil, is called with every running percentage. It returns the result
// image data URL.
func (c *Client) Wait(ctx context.Context, id string, progress func(int)) (string, error) {
	delay := c.pollInterval
	last := -1
	for {
		st, err := c.Poll(ctx, id)
		if err != nil {
			return "", err
		}
		switch st.Status {
		case StatusDone:
			if progress != nil && last != 100 {
				progress(100)
			}
			if st.Image == "" {
				return "", fmt.Errorf("job %s finished without an image", id)
			}
			return st.Image, nil
		case StatusFailed:
			if st.Error == "" {
				return "", fmt.Errorf("%w: %s", ErrJobFailed, id)
			}
			return "", fmt.Errorf("%w: %s: %s", ErrJobFailed, id, st.Error)
		case StatusRunning, "":
			if progress != nil && st.Progress != last {
				progress(st.Progress)
				last = st.Progress
			}
		default:
			return "", fmt.Errorf("job %s: unknown status %q", id, st.Status)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, c.maxInterval)
	}
}

// Generate submits the pair and waits for the result.
func (c *Client) Generate(ctx context.Context, image, mask string, progress func(int)) (string, error) {
	id, err := c.Submit(ctx, image, mask)
	if err != nil {
		return "", err
	}
	return c.Wait(ctx, id, progress)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %s: %s", req.URL, resp.Status, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	return nil
}
