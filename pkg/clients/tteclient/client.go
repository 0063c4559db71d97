// Package tteclient is a typed client for the tabletop.events REST API.
// Every endpoint takes the session token as a query parameter; list
// endpoints are paginated and must be drained fully before the caller
// can trust the result.
package tteclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://tabletop.events/api"

// Client holds a logged-in session against the platform.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	sessionID  string
}

func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// SessionID exposes the current session token, mostly for tests.
func (c *Client) SessionID() string { return c.sessionID }

type session struct {
	ID string `json:"id"`
}

// Login starts a session and stores its token on the client.
func (c *Client) Login(ctx context.Context, apiKeyID, username, password string) error {
	params := url.Values{}
	params.Set("api_key_id", apiKeyID)
	params.Set("username", username)
	params.Set("password", password)

	var result session
	if err := c.call(ctx, http.MethodPost, "/session", params, &result); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	c.sessionID = result.ID
	c.logger.Debug("session started")
	return nil
}

// Logout deletes the session. Safe to call without a session.
func (c *Client) Logout(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}
	err := c.call(ctx, http.MethodDelete, "/session/"+c.sessionID, c.params(), nil)
	c.sessionID = ""
	return err
}

// params returns a query value set carrying the session token.
func (c *Client) params() url.Values {
	v := url.Values{}
	v.Set("session_id", c.sessionID)
	return v
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call performs one request with a single immediate retry on transport
// errors or 5xx responses, then decodes the `result` envelope into out.
func (c *Client) call(ctx context.Context, method, path string, params url.Values, out any) error {
	body, err := c.doOnce(ctx, method, path, params)
	if err != nil {
		c.logger.Debug("retrying request", zap.String("path", path), zap.Error(err))
		body, err = c.doOnce(ctx, method, path, params)
	}
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	envelope := struct {
		Result json.RawMessage `json:"result"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	if envelope.Result == nil {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error.Message)
		}
		return fmt.Errorf("%s %s: response has no result", method, path)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to decode result from %s: %w", path, err)
	}
	return nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return body, nil
}

type paging struct {
	TotalPages     int `json:"total_pages"`
	PageNumber     int `json:"page_number"`
	NextPageNumber int `json:"next_page_number"`
}

// drain collects every item of a paginated list endpoint, looping until
// the reported last page. A partial page set is never returned: any page
// failing after its retry fails the whole fetch, because scheduling over
// an incomplete inventory would silently double-book.
func drain[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	var all []T
	page := 1
	for {
		params.Set("_page_number", strconv.Itoa(page))

		result := struct {
			Items  []T    `json:"items"`
			Paging paging `json:"paging"`
		}{}
		if err := c.call(ctx, http.MethodGet, path, params, &result); err != nil {
			return nil, fmt.Errorf("failed to fetch page %d of %s: %w", page, path, err)
		}
		all = append(all, result.Items...)

		if result.Paging.TotalPages == 0 || result.Paging.PageNumber >= result.Paging.TotalPages {
			return all, nil
		}
		page = result.Paging.NextPageNumber
		if page == 0 {
			page = result.Paging.PageNumber + 1
		}
	}
}
