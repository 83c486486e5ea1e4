package client

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

	"github.com/dmitrijs2005/gestor/internal/client/credentials"
	"github.com/dmitrijs2005/gestor/internal/client/models"
	"github.com/dmitrijs2005/gestor/internal/common"
	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

type HTTPClient struct {
	baseURL string
	http    *http.Client
	store   credentials.Store
	timeout time.Duration
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// NewHTTPClient builds a client for the backend rooted at baseURL. The
// bearer token is read from store under credentials.TokenKey.
func NewHTTPClient(baseURL string, store credentials.Store, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		store:   store,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type verifyResponse struct {
	UserID string `json:"userId"`
}

type superAdminResponse struct {
	IsSuperAdmin bool `json:"isSuperAdmin"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *HTTPClient) VerifyToken(ctx context.Context) (string, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, &resp); err != nil {
		return "", err
	}
	if resp.UserID == "" {
		return "", ErrUnauthorized
	}
	return resp.UserID, nil
}

func (c *HTTPClient) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &u)
	return u, err
}

func (c *HTTPClient) GetUserBusinessLinksByUserID(ctx context.Context, userID string) ([]models.UserBusinessLink, error) {
	var links []models.UserBusinessLink
	if err := c.do(ctx, http.MethodGet, "/user-business/user/"+url.PathEscape(userID), nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (c *HTTPClient) GetBusinessByID(ctx context.Context, id string) (models.Business, error) {
	var b models.Business
	err := c.do(ctx, http.MethodGet, "/business/"+url.PathEscape(id), nil, &b)
	return b, err
}

func (c *HTTPClient) GetSubscriptionsByBusinessID(ctx context.Context, businessID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := c.do(ctx, http.MethodGet, "/subscriptions/business/"+url.PathEscape(businessID), nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *HTTPClient) CheckSuperAdmin(ctx context.Context) (bool, error) {
	var resp superAdminResponse
	if err := c.do(ctx, http.MethodGet, "/auth/superadmin", nil, &resp); err != nil {
		return false, err
	}
	return resp.IsSuperAdmin, nil
}

func (c *HTTPClient) FindPendingGuestInvitations(ctx context.Context, email string) ([]models.GuestInvitation, error) {
	var invitations []models.GuestInvitation
	path := "/guests/pending?" + url.Values{"email": {email}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (models.AuthResult, error) {
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &res); err != nil {
		return models.AuthResult{}, err
	}
	if res.Token == "" {
		return models.AuthResult{}, fmt.Errorf("login: %w", ErrUnauthorized)
	}
	return res, nil
}

func (c *HTTPClient) RegisterUser(ctx context.Context, form models.SignupForm) (models.AuthResult, error) {
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", form, &res); err != nil {
		return models.AuthResult{}, err
	}
	if res.Token == "" {
		return models.AuthResult{}, fmt.Errorf("register: %w", ErrUnauthorized)
	}
	return res, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	if c.store != nil {
		token, err := c.store.Get(ctx, credentials.TokenKey)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) mapError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrDuplicateEmail
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	}

	var er errorResponse
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(b, &er); err != nil || er.Message == "" {
		er.Message = strings.TrimSpace(string(b))
	}
	return &APIError{StatusCode: resp.StatusCode, Message: er.Message}
}
