package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrymomot/notifyhub/pkg/notifications"
	"github.com/dmitrymomot/notifyhub/pkg/syncengine"
)

// Client is the HTTP adapter between a syncengine.Engine and the notify
// module's REST surface. It implements both the page fetcher and the
// read-state mutator for a single user.
type Client struct {
	baseURL  string
	userID   string
	http     *http.Client
	pageSize int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithPageSize sets the page size requested on every fetch.
func WithPageSize(size int) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// NewClient creates a client against baseURL (the prefix the notify router is
// mounted at) for one user.
func NewClient(baseURL, userID string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		userID:   userID,
		http:     http.DefaultClient,
		pageSize: 20,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage retrieves the page the marker denotes. Page markers map onto
// page/pageSize parameters, cursor markers onto cursor/limit.
func (c *Client) FetchPage(ctx context.Context, marker syncengine.Marker) (syncengine.PageResult, error) {
	q := url.Values{}
	cursorMode := false
	switch {
	case marker == "":
		q.Set("page", "1")
		q.Set("pageSize", strconv.Itoa(c.pageSize))
	default:
		if page, ok := marker.Page(); ok {
			q.Set("page", strconv.Itoa(page))
			q.Set("pageSize", strconv.Itoa(c.pageSize))
			break
		}
		cursor, ok := marker.Cursor()
		if !ok {
			return syncengine.PageResult{}, fmt.Errorf("unrecognized marker %q", marker)
		}
		cursorMode = true
		q.Set("cursor", strconv.FormatInt(cursor, 10))
		q.Set("limit", strconv.Itoa(c.pageSize))
	}

	endpoint := fmt.Sprintf("%s/users/%s/notifications?%s", c.baseURL, url.PathEscape(c.userID), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return syncengine.PageResult{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return syncengine.PageResult{}, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return syncengine.PageResult{}, fmt.Errorf("unexpected status %d listing notifications", resp.StatusCode)
	}

	var page notifications.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return syncengine.PageResult{}, fmt.Errorf("failed to decode notifications page: %w", err)
	}

	result := syncengine.PageResult{
		Records:     page.Records,
		HasMore:     page.HasMore,
		UnreadTotal: page.UnreadTotal,
	}
	if page.HasMore {
		if cursorMode {
			result.NextMarker = syncengine.CursorMarker(page.NextCursor)
		} else {
			result.NextMarker = syncengine.PageMarker(page.Page + 1)
		}
	}
	return result, nil
}

// MarkRead marks one notification as read for the client's user.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("%s/%d/read?userId=%s", c.baseURL, id, url.QueryEscape(c.userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.doMutation(req)
}

// MarkAllRead marks every notification of the client's user as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/users/%s/notifications/read-all", c.baseURL, url.PathEscape(c.userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.doMutation(req)
}

func (c *Client) doMutation(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform mutation: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return notifications.ErrNotFound
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

var (
	_ syncengine.Fetcher = (*Client)(nil)
	_ syncengine.Mutator = (*Client)(nil)
)
