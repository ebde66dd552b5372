// Package client is a Go client for the restaurant inventory API. Every call
// takes an explicit *Session; nothing is kept in package state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

const defaultTimeout = 15 * time.Second

var (
	// ErrNotSignedIn is returned when a call needs a token the session lacks.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrExceedsAvailable is returned by UseStock before any request is made.
	ErrExceedsAvailable = errors.New("cannot use more than available stock")
	// ErrInvalidAmount is returned for non-positive or non-finite usage amounts.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrNoItem is returned by UseStock when called without an item.
	ErrNoItem = errors.New("no item selected")
)

// APIError carries the server's error message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Item mirrors the API's item representation.
type Item struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      domain.Category `json:"category"`
	Quantity      float64         `json:"quantity"`
	Unit          domain.Unit     `json:"unit"`
	ReorderLevel  float64         `json:"reorderLevel"`
	Image         *string         `json:"image"`
	LastUpdatedBy string          `json:"lastUpdatedBy,omitempty"`
	LowStock      bool            `json:"lowStock"`
	StockLevel    string          `json:"stockLevel"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Stats mirrors GET /api/inventory/stats.
type Stats struct {
	TotalItems     int                `json:"totalItems"`
	LowStock       int                `json:"lowStock"`
	OutOfStock     int                `json:"outOfStock"`
	QuantityByUnit map[string]float64 `json:"quantityByUnit"`
}

// ImageFile is an image attached to a create or update. Its presence switches
// the request to multipart/form-data.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// ItemInput is the body of CreateItem. A nil ReorderLevel uses the server default.
type ItemInput struct {
	Name         string          `json:"name"`
	Category     domain.Category `json:"category"`
	Quantity     float64         `json:"quantity"`
	Unit         domain.Unit     `json:"unit"`
	ReorderLevel *float64        `json:"reorderLevel,omitempty"`
	Image        *ImageFile      `json:"-"`
}

// ItemPatch is a partial update; nil fields are not sent.
type ItemPatch struct {
	Name         *string          `json:"name,omitempty"`
	Category     *domain.Category `json:"category,omitempty"`
	Quantity     *float64         `json:"quantity,omitempty"`
	Unit         *domain.Unit     `json:"unit,omitempty"`
	ReorderLevel *float64         `json:"reorderLevel,omitempty"`
	Image        *ImageFile       `json:"-"`
}

// ListQuery narrows ListInventory on the server. Zero values mean no filter.
type ListQuery struct {
	Search   string
	Category domain.Category
	Status   domain.StockStatus
}

// Client talks to one API base URL, e.g. "http://localhost:5000/api".
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authPayload struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Token string      `json:"token"`
}

func (p authPayload) session(theme Theme) *Session {
	return &Session{UserID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role, Token: p.Token, Theme: theme}
}

// Signup creates an account and returns a signed-in session. An empty role
// lets the server pick its default. The theme of prev, if any, carries over.
func (c *Client) Signup(ctx context.Context, prev *Session, name, email, password, role string) (*Session, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	if role != "" {
		body["role"] = role
	}
	var out authPayload
	if err := c.doJSON(ctx, nil, http.MethodPost, "/auth/signup", body, nil, &out); err != nil {
		return nil, err
	}
	return out.session(prev.theme()), nil
}

// Login exchanges credentials for a signed-in session. The theme of prev, if
// any, carries over.
func (c *Client) Login(ctx context.Context, prev *Session, email, password string) (*Session, error) {
	var out authPayload
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, nil, http.MethodPost, "/auth/login", body, nil, &out); err != nil {
		return nil, err
	}
	return out.session(prev.theme()), nil
}

func (c *Client) ListInventory(ctx context.Context, s *Session, q ListQuery) ([]Item, error) {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", string(q.Category))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	path := "/inventory"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}

	var items []Item
	if err := c.doJSON(ctx, s, http.MethodGet, path, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, s *Session, id string) (*Item, error) {
	var item Item
	if err := c.doJSON(ctx, s, http.MethodGet, "/inventory/"+url.PathEscape(id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) Stats(ctx context.Context, s *Session) (*Stats, error) {
	var stats Stats
	if err := c.doJSON(ctx, s, http.MethodGet, "/inventory/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) CreateItem(ctx context.Context, s *Session, in ItemInput) (*Item, error) {
	var item Item
	if in.Image == nil {
		if err := c.doJSON(ctx, s, http.MethodPost, "/inventory", in, nil, &item); err != nil {
			return nil, err
		}
		return &item, nil
	}

	fields := map[string]string{
		"name":     in.Name,
		"category": string(in.Category),
		"quantity": formatFloat(in.Quantity),
		"unit":     string(in.Unit),
	}
	if in.ReorderLevel != nil {
		fields["reorderLevel"] = formatFloat(*in.ReorderLevel)
	}
	if err := c.doMultipart(ctx, s, http.MethodPost, "/inventory", fields, in.Image, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateItem(ctx context.Context, s *Session, id string, p ItemPatch) (*Item, error) {
	path := "/inventory/" + url.PathEscape(id)
	var item Item
	if p.Image == nil {
		if err := c.doJSON(ctx, s, http.MethodPut, path, p, nil, &item); err != nil {
			return nil, err
		}
		return &item, nil
	}

	fields := make(map[string]string)
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Category != nil {
		fields["category"] = string(*p.Category)
	}
	if p.Quantity != nil {
		fields["quantity"] = formatFloat(*p.Quantity)
	}
	if p.Unit != nil {
		fields["unit"] = string(*p.Unit)
	}
	if p.ReorderLevel != nil {
		fields["reorderLevel"] = formatFloat(*p.ReorderLevel)
	}
	if err := c.doMultipart(ctx, s, http.MethodPut, path, fields, p.Image, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem returns the server's confirmation message.
func (c *Client) DeleteItem(ctx context.Context, s *Session, id string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, s, http.MethodDelete, "/inventory/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// AdjustStock applies a signed delta. A non-empty idempotencyKey makes
// retries of the same call safe.
func (c *Client) AdjustStock(ctx context.Context, s *Session, id string, amount float64, idempotencyKey string) (*Item, error) {
	var headers http.Header
	if idempotencyKey != "" {
		headers = http.Header{"Idempotency-Key": []string{idempotencyKey}}
	}
	var item Item
	body := map[string]float64{"amount": amount}
	if err := c.doJSON(ctx, s, http.MethodPatch, "/inventory/"+url.PathEscape(id)+"/stock", body, headers, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// NewIdempotencyKey returns a fresh key for AdjustStock or UseStock. Mint it
// once per user action and reuse it for every retry of that action.
func NewIdempotencyKey() string {
	return uuid.NewString()
}

// UseStock records consumption of amount from item. It refuses locally when
// amount exceeds the quantity the caller last saw, then sends a negative
// delta. idempotencyKey behaves as in AdjustStock.
func (c *Client) UseStock(ctx context.Context, s *Session, item *Item, amount float64, idempotencyKey string) (*Item, error) {
	if item == nil {
		return nil, ErrNoItem
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > item.Quantity {
		return nil, ErrExceedsAvailable
	}
	return c.AdjustStock(ctx, s, item.ID, -amount, idempotencyKey)
}

func (c *Client) doJSON(ctx context.Context, s *Session, method, path string, in any, headers http.Header, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, s, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, s *Session, method, path string, fields map[string]string, img *ImageFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
	}

	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	if _, err := io.Copy(part, img.Data); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}

	req, err := c.newRequest(ctx, s, method, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, s *Session, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s != nil {
		if !s.Authenticated() {
			return nil, ErrNotSignedIn
		}
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
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

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
