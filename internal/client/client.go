package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Client is the storefront's HTTP client for the API. It injects the
// bearer token, retries a request once after a 401 by refreshing the
// session, and folds every failure into *Error.
//
// Concurrent 401s share one refresh call through a singleflight group,
// so a burst of expired requests produces a single token rotation.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.RWMutex
	access  string
	refresh string

	refreshGroup singleflight.Group

	// OnSessionExpired fires when a refresh attempt fails and the
	// stored session is dropped.
	OnSessionExpired func()
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetSession stores the token pair issued at login or registration.
func (c *Client) SetSession(accessToken, refreshToken string) {
	c.mu.Lock()
	c.access = accessToken
	c.refresh = refreshToken
	c.mu.Unlock()
}

func (c *Client) ClearSession() {
	c.SetSession("", "")
}

// Authenticated reports whether a session is stored.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.access != ""
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	err := c.doOnce(ctx, method, path, body, out, c.accessToken())
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Kind != KindAuth {
		return err
	}
	token, refreshErr := c.refreshSession(ctx)
	if refreshErr != nil {
		c.ClearSession()
		if c.OnSessionExpired != nil {
			c.OnSessionExpired()
		}
		return apiErr
	}
	return c.doOnce(ctx, method, path, body, out, token)
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, out interface{}, token string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return validationError("invalid request payload")
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return networkError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return businessError("", fmt.Sprintf("request failed with status %d", resp.StatusCode))
		}
		return &Error{Kind: KindUnknown, Message: "unexpected response"}
	}

	if resp.StatusCode >= 400 {
		code, message := "", ""
		if env.Error != nil {
			code, message = env.Error.Code, env.Error.Message
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return authError(code, message)
		}
		if resp.StatusCode == http.StatusBadRequest {
			return validationError(message)
		}
		return businessError(code, message)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindUnknown, Message: "unexpected response", cause: err}
		}
	}
	return nil
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.access
}

// refreshSession rotates the refresh token. Concurrent callers are
// coalesced; all of them get the access token from the single rotation.
func (c *Client) refreshSession(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		c.mu.RLock()
		refresh := c.refresh
		c.mu.RUnlock()
		if refresh == "" {
			return nil, authError("no_session", "not logged in")
		}
		var out struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		}
		err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/refresh",
			map[string]string{"refreshToken": refresh}, &out, "")
		if err != nil {
			return nil, err
		}
		c.SetSession(out.AccessToken, out.RefreshToken)
		return out.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
