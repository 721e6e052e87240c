package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-xray-sdk-go/xray"
	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"permkit/internal/domain"
)

// Client is the outbound HTTP gateway to the identity service. It translates
// HTTP statuses into the domain error taxonomy and nothing else: no retries,
// no caching. Timeouts belong to the injected http.Client.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithXRay instruments outbound calls with X-Ray subsegments. Requires an
// open segment on the request context.
func WithXRay() Option {
	return func(c *Client) { c.http = xray.Client(c.http) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    cleanhttp.DefaultPooledClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrNetwork, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	return resp, nil
}

func decode(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrNetwork, err)
	}
	return nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// ValidateCredential exchanges a bearer token for the user record it
// authenticates.
func (c *Client) ValidateCredential(ctx context.Context, token string) (domain.UserRecord, error) {
	resp, err := c.get(ctx, "/me", token)
	if err != nil {
		return domain.UserRecord{}, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.UserRecord{}, fmt.Errorf("%w: credential rejected", domain.ErrUnauthorized)
	case !success(resp.StatusCode):
		return domain.UserRecord{}, fmt.Errorf("%w: identity service returned %d", domain.ErrNetwork, resp.StatusCode)
	}
	var user domain.UserRecord
	if err := decode(resp, &user); err != nil {
		return domain.UserRecord{}, err
	}
	return user, nil
}

// GetUserRoles fetches the full role records for a user.
func (c *Client) GetUserRoles(ctx context.Context, address, token string) ([]domain.RoleRecord, error) {
	resp, err := c.get(ctx, "/users/"+url.PathEscape(address)+"/roles", token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: credential rejected", domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, address)
	case !success(resp.StatusCode):
		return nil, fmt.Errorf("%w: identity service returned %d", domain.ErrNetwork, resp.StatusCode)
	}
	var roles []domain.RoleRecord
	if err := decode(resp, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetUserRecord fetches another user's record. The identity service only
// answers for admin callers.
func (c *Client) GetUserRecord(ctx context.Context, address, token string) (domain.UserRecord, error) {
	resp, err := c.get(ctx, "/users/"+url.PathEscape(address), token)
	if err != nil {
		return domain.UserRecord{}, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.UserRecord{}, fmt.Errorf("%w: credential rejected", domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		return domain.UserRecord{}, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	case resp.StatusCode == http.StatusNotFound:
		return domain.UserRecord{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, address)
	case !success(resp.StatusCode):
		return domain.UserRecord{}, fmt.Errorf("%w: identity service returned %d", domain.ErrNetwork, resp.StatusCode)
	}
	var user domain.UserRecord
	if err := decode(resp, &user); err != nil {
		return domain.UserRecord{}, err
	}
	return user, nil
}

// CheckPermission asks the identity service for one (user, application,
// scope) decision. A 404 means the permission is simply absent and is a
// denial, not an error.
func (c *Client) CheckPermission(ctx context.Context, address, applicationName, scopeID, token string) (bool, error) {
	path := "/users/" + url.PathEscape(address) + "/permissions/" +
		url.PathEscape(applicationName) + "/" + url.PathEscape(scopeID)
	resp, err := c.get(ctx, path, token)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return false, fmt.Errorf("%w: credential rejected", domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case !success(resp.StatusCode):
		return false, fmt.Errorf("%w: identity service returned %d", domain.ErrNetwork, resp.StatusCode)
	}
	var body struct {
		Allowed bool `json:"allowed"`
	}
	if err := decode(resp, &body); err != nil {
		return false, err
	}
	return body.Allowed, nil
}
