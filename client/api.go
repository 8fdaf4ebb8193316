package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yeremiapane/food-order-app/models"
)

const ordersPath = "/api/orders"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Client calls the order API. Every request first passes the local rate limiter.
type Client struct {
	BaseURL       string
	HTTP          *http.Client
	Limiter       *RateLimiter
	ManagerHeader string
	ManagerSecret string
	Token         string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTP:          &http.Client{Timeout: 15 * time.Second},
		Limiter:       DefaultRateLimiter(),
		ManagerHeader: "X-Manager-Secret",
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func flag(name, value string) url.Values {
	return url.Values{name: []string{value}}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Allow(); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
		return
	}
	if c.ManagerSecret != "" {
		req.Header.Set(c.ManagerHeader, c.ManagerSecret)
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, manager bool) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if manager {
		c.authorize(req)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

func (c *Client) ListActive(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, ordersPath, nil, nil, &orders, false)
	return orders, err
}

func (c *Client) ListRecent(ctx context.Context) ([]models.RecentOrder, error) {
	var orders []models.RecentOrder
	err := c.do(ctx, http.MethodGet, ordersPath, flag("completed-orders", "true"), nil, &orders, false)
	return orders, err
}

func (c *Client) Track(ctx context.Context, id string) (models.RecentOrder, error) {
	var out struct {
		Order models.RecentOrder `json:"order"`
	}
	err := c.do(ctx, http.MethodGet, ordersPath, flag("track-order", id), nil, &out, false)
	return out.Order, err
}

func (c *Client) KitchenStatus(ctx context.Context) (bool, error) {
	var out struct {
		IsOpen bool `json:"isOpen"`
	}
	err := c.do(ctx, http.MethodGet, ordersPath, flag("kitchen-status", "true"), nil, &out, false)
	return out.IsOpen, err
}

func (c *Client) SetKitchenStatus(ctx context.Context, open bool) (bool, error) {
	var out struct {
		IsOpen bool `json:"isOpen"`
	}
	err := c.do(ctx, http.MethodPost, ordersPath, flag("kitchen-status", "true"),
		map[string]bool{"isOpen": open}, &out, true)
	return out.IsOpen, err
}

func (c *Client) CreateOrder(ctx context.Context, input models.OrderInput) (models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	err := c.do(ctx, http.MethodPost, ordersPath, nil, input, &out, false)
	return out.Order, err
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	err := c.do(ctx, http.MethodPut, ordersPath, flag("update-order", id),
		models.StatusUpdate{Status: status}, &out, true)
	return out.Order, err
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, ordersPath, flag("delete-order", id), nil, nil, true)
}

func (c *Client) ClearActive(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, http.MethodPost, ordersPath, nil, []models.Order{}, &out, true)
	return out.Count, err
}

// Login menukar secret manager dengan token sesi dan menyimpannya di Client.
func (c *Client) Login(ctx context.Context, secret string) (time.Time, error) {
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/manager/session", nil, map[string]string{"secret": secret}, &out, false); err != nil {
		return time.Time{}, err
	}
	c.Token = out.Token
	return out.ExpiresAt, nil
}

// DrainEvents takes pending events from the server log (polling mode).
func (c *Client) DrainEvents(ctx context.Context, max int) ([]models.Event, error) {
	var out struct {
		Events []models.Event `json:"events"`
	}
	var query url.Values
	if max > 0 {
		query = flag("max", fmt.Sprint(max))
	}
	err := c.do(ctx, http.MethodGet, "/api/events/poll", query, nil, &out, false)
	return out.Events, err
}
