package logs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"forcealign/internal/api"
)

// ErrAPIUnavailable reports that no server address was configured.
var ErrAPIUnavailable = errors.New("log API unavailable")

// StreamClient fetches log events from a forcealign server.
type StreamClient struct {
	base  *url.URL
	token string
	http  *http.Client
}

// StreamQuery selects a window of the server's log stream.
type StreamQuery struct {
	Since     uint64
	Limit     int
	Follow    bool
	Component string
}

// NewStreamClient returns nil when bind is empty.
func NewStreamClient(bind, token string) (*StreamClient, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, nil
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &StreamClient{
		base:  base,
		token: strings.TrimSpace(token),
		// No timeout: follow requests block server side until events arrive.
		http: &http.Client{},
	}, nil
}

// Fetch performs one request against /v1/logs.
func (c *StreamClient) Fetch(ctx context.Context, q StreamQuery) (api.LogStreamResponse, error) {
	if c == nil {
		return api.LogStreamResponse{}, ErrAPIUnavailable
	}

	values := url.Values{}
	if q.Since > 0 {
		values.Set("since", strconv.FormatUint(q.Since, 10))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Follow {
		values.Set("follow", "true")
	}
	if component := strings.TrimSpace(q.Component); component != "" {
		values.Set("component", component)
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: "/v1/logs", RawQuery: values.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return api.LogStreamResponse{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return api.LogStreamResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return api.LogStreamResponse{}, fmt.Errorf("api logs returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return api.LogStreamResponse{}, fmt.Errorf("api logs returned status %d", resp.StatusCode)
	}

	var payload api.LogStreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return api.LogStreamResponse{}, err
	}
	return payload, nil
}

// Follow polls the stream from since, calling fn for every batch, until ctx
// is cancelled or fn returns an error.
func (c *StreamClient) Follow(ctx context.Context, q StreamQuery, fn func(api.LogStreamResponse) error) error {
	q.Follow = true
	for {
		resp, err := c.Fetch(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if len(resp.Events) > 0 {
			if err := fn(resp); err != nil {
				return err
			}
		}
		if resp.Next > q.Since {
			q.Since = resp.Next
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// IsAPIUnavailable reports whether err means the server could not be reached.
func IsAPIUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrAPIUnavailable) || errors.As(err, &opErr)
}
