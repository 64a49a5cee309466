// Package remote provides the HTTP client store: a repository.Backend
// implementation over the Stockroom inventory API.
package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/prn-tf/stockroom/internal/config"
	"github.com/prn-tf/stockroom/internal/domain"
	"github.com/prn-tf/stockroom/internal/pkg/crypto"
	"github.com/prn-tf/stockroom/internal/repository"
)

// HeaderAPIKey is the request header carrying the encrypted API key.
const HeaderAPIKey = "X-encrypted-api-key"

// Client implements repository.Backend over the inventory HTTP API.
//
// Every operation is one request: no retry, bounded by the configured
// client timeout and the caller's context. The encrypted API key header
// is computed at most once per Client and reused for every request; a
// failed computation is cached the same way and resurfaces on each call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       config.AuthConfig
	logger     zerolog.Logger

	headerOnce  sync.Once
	headerValue string
	headerErr   error
}

// NewClient creates a remote store client for the given API base URL,
// e.g. "https://inventory.example.com:8443/api".
func NewClient(cfg config.RemoteConfig, auth config.AuthConfig, logger zerolog.Logger) *Client {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		auth:   auth,
		logger: logger.With().Str("backend", "remote").Logger(),
	}
}

// encryptedKey returns the header value, computing it on first use.
func (c *Client) encryptedKey() (string, error) {
	c.headerOnce.Do(func() {
		key, err := c.auth.GetEncryptionKey()
		if err != nil {
			c.headerErr = fmt.Errorf("api key setup: %w", err)
			return
		}
		iv, err := c.auth.GetEncryptionIV()
		if err != nil {
			c.headerErr = fmt.Errorf("api key setup: %w", err)
			return
		}
		enc, err := crypto.NewEncryptor(key, iv)
		if err != nil {
			c.headerErr = fmt.Errorf("api key setup: %w", err)
			return
		}
		c.headerValue = enc.EncryptString(c.auth.APIKey)
	})
	return c.headerValue, c.headerErr
}

// newRequest builds an authenticated request against the API base URL.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	headerValue, err := c.encryptedKey()
	if err != nil {
		return nil, err
	}
	req.Header.Set(HeaderAPIKey, headerValue)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do executes the request and returns the response body. A 404 maps to
// the not-found sentinel; any other non-2xx status is an error.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, repository.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return body, nil
}

// parseID parses a plain-text integer id response body.
func parseID(body []byte) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an id", ErrBadResponse, string(body))
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: non-positive id %d", ErrBadResponse, id)
	}
	return id, nil
}

// CreateItem posts the item and adopts the server-assigned id from the
// response body.
func (c *Client) CreateItem(ctx context.Context, item *domain.Item) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode item: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/Inventory/", nil, payload)
	if err != nil {
		return err
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}

	id, err := parseID(body)
	if err != nil {
		return err
	}
	item.ID = id

	return nil
}

// GetItem retrieves a single item by ID.
func (c *Client) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/Inventory/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	item := &domain.Item{}
	if err := json.Unmarshal(body, item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return item, nil
}

// ListItems retrieves all items owned by the user.
func (c *Client) ListItems(ctx context.Context, userID int64) ([]*domain.Item, error) {
	query := url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	req, err := c.newRequest(ctx, http.MethodGet, "/Inventory/", query, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var items []*domain.Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return items, nil
}

// UpdateItem rewrites an existing item.
func (c *Client) UpdateItem(ctx context.Context, item *domain.Item) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode item: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/Inventory/"+strconv.FormatInt(item.ID, 10), nil, payload)
	if err != nil {
		return err
	}

	_, err = c.do(req)
	return err
}

// DeleteItem removes an item by ID.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/Inventory/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return err
	}

	_, err = c.do(req)
	return err
}

// CreateUser posts the user and adopts the server-assigned id.
func (c *Client) CreateUser(ctx context.Context, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/Users/", nil, payload)
	if err != nil {
		return err
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}

	id, err := parseID(body)
	if err != nil {
		return err
	}
	user.ID = id

	return nil
}

// GetUser retrieves a user by exact username via the filtered listing.
func (c *Client) GetUser(ctx context.Context, username string) (*domain.User, error) {
	query := url.Values{"username": {username}}
	req, err := c.newRequest(ctx, http.MethodGet, "/Users/", query, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var users []*domain.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users[0], nil
}

// ListUsers retrieves every registered user.
func (c *Client) ListUsers(ctx context.Context) ([]*domain.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/Users/", nil, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var users []*domain.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return users, nil
}

// Ensure Client implements repository.Backend.
var _ repository.Backend = (*Client)(nil)
