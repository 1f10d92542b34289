// Package client is a typed HTTP client for the menu service API. The admin
// and public frontends use it as their data layer: every call maps to one
// network round-trip and returns either the affected documents or a
// structured error to surface to the user.
//
// The package depends only on the standard library so that modules outside
// this one can import it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client talks to a menu service instance.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customises the client.
type Option func(*Client)

// WithToken sets the bearer token attached to admin requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Menu -------------------------------------------------------------------

// Menu fetches all menu items, ordered by category then name.
func (c *Client) Menu(ctx context.Context) ([]Item, error) {
	var items []Item
	err := c.do(ctx, http.MethodGet, "/api/menu", nil, &items)
	return items, err
}

// MenuItem fetches a single item.
func (c *Client) MenuItem(ctx context.Context, id string) (Item, error) {
	var item Item
	err := c.do(ctx, http.MethodGet, "/api/menu/"+id, nil, &item)
	return item, err
}

// MenuByCategory fetches items of one category, ordered by name.
func (c *Client) MenuByCategory(ctx context.Context, category Category) ([]Item, error) {
	var items []Item
	err := c.do(ctx, http.MethodGet, "/api/menu/category/"+string(category), nil, &items)
	return items, err
}

// FeaturedItems fetches the featured selection.
func (c *Client) FeaturedItems(ctx context.Context) ([]Item, error) {
	var items []Item
	err := c.do(ctx, http.MethodGet, "/api/menu/featured/items", nil, &items)
	return items, err
}

// CreateMenuItem creates an item from a JSON draft.
func (c *Client) CreateMenuItem(ctx context.Context, draft Draft) (Item, error) {
	var item Item
	err := c.do(ctx, http.MethodPost, "/api/menu", draft, &item)
	return item, err
}

// UpdateMenuItem applies a partial or full update.
func (c *Client) UpdateMenuItem(ctx context.Context, id string, draft Draft) (Item, error) {
	var item Item
	err := c.do(ctx, http.MethodPut, "/api/menu/"+id, draft, &item)
	return item, err
}

// DeleteMenuItem removes an item.
func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/menu/"+id, nil, nil)
}

// CreateMenuItemWithPhoto creates an item from a multipart form carrying a
// photo file.
func (c *Client) CreateMenuItemWithPhoto(ctx context.Context, draft Draft, photoName string, photo io.Reader) (Item, error) {
	var item Item
	err := c.doMultipart(ctx, http.MethodPost, "/api/menu", draft, photoName, photo, &item)
	return item, err
}

// UpdateMenuItemWithPhoto updates an item, replacing its photo.
func (c *Client) UpdateMenuItemWithPhoto(ctx context.Context, id string, draft Draft, photoName string, photo io.Reader) (Item, error) {
	var item Item
	err := c.doMultipart(ctx, http.MethodPut, "/api/menu/"+id, draft, photoName, photo, &item)
	return item, err
}

// --- Admin users ------------------------------------------------------------

// Users lists admin accounts.
func (c *Client) Users(ctx context.Context) ([]Account, error) {
	var accounts []Account
	err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &accounts)
	return accounts, err
}

// CreateUser creates an admin account.
func (c *Client) CreateUser(ctx context.Context, draft AccountDraft) (Account, error) {
	var acct Account
	err := c.do(ctx, http.MethodPost, "/api/admin/users", draft, &acct)
	return acct, err
}

// UpdateUser updates an admin account. Leave the draft password nil or blank
// to keep the current one.
func (c *Client) UpdateUser(ctx context.Context, id string, draft AccountDraft) (Account, error) {
	var acct Account
	err := c.do(ctx, http.MethodPut, "/api/admin/users/"+id, draft, &acct)
	return acct, err
}

// DeleteUser removes an admin account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/users/"+id, nil, nil)
}

// --- Transport --------------------------------------------------------------

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, draft Draft, photoName string, photo io.Reader, out interface{}) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	writeField := func(name, value string) {
		_ = form.WriteField(name, value)
	}
	if draft.Name != nil {
		writeField("name", *draft.Name)
	}
	if draft.Description != nil {
		writeField("description", *draft.Description)
	}
	if draft.Price != nil {
		writeField("price", strconv.FormatFloat(*draft.Price, 'f', -1, 64))
	}
	if draft.Category != nil {
		writeField("category", *draft.Category)
	}
	if draft.PhotoURL != nil {
		writeField("photoUrl", *draft.PhotoURL)
	}
	if draft.Featured != nil {
		writeField("featured", strconv.FormatBool(*draft.Featured))
	}
	if draft.Available != nil {
		writeField("available", strconv.FormatBool(*draft.Available))
	}

	if photo != nil {
		part, err := form.CreateFormFile("photo", photoName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, photo); err != nil {
			return fmt.Errorf("copy photo: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError maps an error response onto the client error type so
// callers can branch with IsNotFound and friends.
func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Message string       `json:"message"`
		Errors  []FieldError `json:"errors"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Message == "" {
		envelope.Message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}

	kind := KindInternal
	switch resp.StatusCode {
	case http.StatusBadRequest:
		kind = KindValidation
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusConflict:
		kind = KindConflict
	case http.StatusUnauthorized:
		kind = KindUnauthorized
	case http.StatusForbidden:
		kind = KindForbidden
	}

	return &Error{Kind: kind, StatusCode: resp.StatusCode, Message: envelope.Message, Fields: envelope.Errors}
}
