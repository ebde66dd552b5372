package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/restauranthub/inventory-system/internal/api/middleware"
	"github.com/restauranthub/inventory-system/internal/core/domain"
	"github.com/restauranthub/inventory-system/internal/core/ports"
)

// stubInventoryService records the last inputs and returns canned results.
type stubInventoryService struct {
	listIn     ports.ListItemsInput
	createIn   ports.CreateItemInput
	updateIn   ports.UpdateItemInput
	adjustIn   ports.StockAdjustment
	limit      int
	stagedSeen bool
	err        error
}

var sampleItem = &domain.InventoryItem{
	ID: "item-1", Name: "Whole Milk", Category: domain.CategoryDairy,
	Quantity: 24, Unit: domain.UnitLiters, ReorderLevel: 20,
	CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
}

func (s *stubInventoryService) List(_ context.Context, in ports.ListItemsInput) ([]*domain.InventoryItem, error) {
	s.listIn = in
	return []*domain.InventoryItem{sampleItem}, s.err
}

func (s *stubInventoryService) Get(context.Context, string) (*domain.InventoryItem, error) {
	return sampleItem, s.err
}

func (s *stubInventoryService) Stats(context.Context) (*ports.ItemStats, error) {
	return &ports.ItemStats{TotalItems: 1, QuantityByUnit: map[domain.Unit]float64{domain.UnitLiters: 24}}, s.err
}

func (s *stubInventoryService) Create(_ context.Context, _ domain.Identity, in ports.CreateItemInput) (*domain.InventoryItem, error) {
	s.createIn = in
	if in.Image != nil {
		_, statErr := os.Stat(in.Image.Path)
		s.stagedSeen = statErr == nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return sampleItem, nil
}

func (s *stubInventoryService) Update(_ context.Context, _ domain.Identity, _ string, in ports.UpdateItemInput) (*domain.InventoryItem, error) {
	s.updateIn = in
	if s.err != nil {
		return nil, s.err
	}
	return sampleItem, nil
}

func (s *stubInventoryService) Delete(context.Context, domain.Identity, string) error {
	return s.err
}

func (s *stubInventoryService) AdjustStock(_ context.Context, _ domain.Identity, adj ports.StockAdjustment) (*domain.InventoryItem, error) {
	s.adjustIn = adj
	if s.err != nil {
		return nil, s.err
	}
	return sampleItem, nil
}

func (s *stubInventoryService) Movements(_ context.Context, _ domain.Identity, _ string, limit int) ([]*domain.StockMovement, error) {
	s.limit = limit
	return nil, s.err
}

var testAdmin = domain.Identity{UserID: "admin-1", Role: domain.RoleAdmin}

func authed(c echo.Context) echo.Context {
	middleware.SetIdentity(c, testAdmin)
	return c
}

func newInventoryHandler(svc *stubInventoryService) *InventoryHandler {
	return NewInventoryHandler(svc, zerolog.Nop())
}

func TestInventoryHandler_List_PassesFilters(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{}

	req := httptest.NewRequest(http.MethodGet, "/api/inventory?search=milk&category=Dairy&status=low", nil)
	rec := httptest.NewRecorder()
	c := authed(e.NewContext(req, rec))

	if err := newInventoryHandler(svc).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.listIn != (ports.ListItemsInput{Search: "milk", Category: "Dairy", Status: "low"}) {
		t.Fatalf("unexpected filter: %+v", svc.listIn)
	}

	var items []itemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(items) != 1 || items[0].LowStock || items[0].StockLevel != "medium" || items[0].Image != nil {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestInventoryHandler_Create_JSON(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{}

	c, rec := jsonContext(e, http.MethodPost, "/api/inventory",
		`{"name":"Whole Milk","category":"Dairy","quantity":24,"unit":"liters"}`)
	if err := newInventoryHandler(svc).Create(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.createIn.Quantity == nil || *svc.createIn.Quantity != 24 || svc.createIn.ReorderLevel != nil {
		t.Fatalf("unexpected input: %+v", svc.createIn)
	}
}

func TestInventoryHandler_Create_Validation(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{}

	bodies := []string{
		`{"category":"Dairy","quantity":1,"unit":"liters"}`,
		`{"name":"Milk","category":"Candy","quantity":1,"unit":"liters"}`,
		`{"name":"Milk","category":"Dairy","unit":"liters"}`,
		`{"name":"Milk","category":"Dairy","quantity":-1,"unit":"liters"}`,
		`{"name":"Milk","category":"Dairy","quantity":1,"unit":"gallons"}`,
		`{"name":"Milk","category":"Dairy","quantity":1,"unit":"LITERS"}`,
		`{"name":"Milk","category":"dairy","quantity":1,"unit":"liters"}`,
	}
	for _, body := range bodies {
		c, _ := jsonContext(e, http.MethodPost, "/api/inventory", body)
		if err := newInventoryHandler(svc).Create(authed(c)); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", body, err)
		}
	}
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, image []byte, imageType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="milk.png"`)
		h.Set("Content-Type", imageType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(image); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestInventoryHandler_Create_MultipartWithImage(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{}

	req := multipartRequest(t, http.MethodPost, "/api/inventory", map[string]string{
		"name": "Whole Milk", "category": "Dairy", "quantity": "24", "unit": "liters", "reorderLevel": "20",
	}, []byte("png"), "image/png")
	rec := httptest.NewRecorder()
	c := authed(e.NewContext(req, rec))

	if err := newInventoryHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.createIn.Image == nil || svc.createIn.Image.Filename != "milk.png" {
		t.Fatalf("expected staged image, got %+v", svc.createIn.Image)
	}
	if !svc.stagedSeen {
		t.Fatalf("staged file should exist while the service runs")
	}
	if _, err := os.Stat(svc.createIn.Image.Path); !os.IsNotExist(err) {
		t.Fatalf("staged file should be removed after the request, stat err: %v", err)
	}
	if svc.createIn.ReorderLevel == nil || *svc.createIn.ReorderLevel != 20 {
		t.Fatalf("unexpected reorder level: %v", svc.createIn.ReorderLevel)
	}
}

func TestInventoryHandler_Create_StagedFileRemovedOnFailure(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{err: errors.New("upload failed")}

	req := multipartRequest(t, http.MethodPost, "/api/inventory", map[string]string{
		"name": "Whole Milk", "category": "Dairy", "quantity": "24", "unit": "liters",
	}, []byte("png"), "image/png")
	c := authed(e.NewContext(req, httptest.NewRecorder()))

	if err := newInventoryHandler(svc).Create(c); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := os.Stat(svc.createIn.Image.Path); !os.IsNotExist(err) {
		t.Fatalf("staged file should be removed, stat err: %v", err)
	}
}

func TestInventoryHandler_Create_RejectsNonImage(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{}

	req := multipartRequest(t, http.MethodPost, "/api/inventory", map[string]string{
		"name": "Whole Milk", "category": "Dairy", "quantity": "24", "unit": "liters",
	}, []byte("#!/bin/sh"), "text/x-shellscript")
	c := authed(e.NewContext(req, httptest.NewRecorder()))

	if err := newInventoryHandler(svc).Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestInventoryHandler_Create_MultipartBadNumber(t *testing.T) {
	e := newTestEcho()
	req := multipartRequest(t, http.MethodPost, "/api/inventory", map[string]string{
		"name": "Whole Milk", "category": "Dairy", "quantity": "lots", "unit": "liters",
	}, nil, "")
	c := authed(e.NewContext(req, httptest.NewRecorder()))

	if err := newInventoryHandler(&stubInventoryService{}).Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestInventoryHandler_Update_Partial(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{}

	c, rec := jsonContext(e, http.MethodPut, "/api/inventory/item-1", `{"quantity":30}`)
	c.SetParamNames("id")
	c.SetParamValues("item-1")
	if err := newInventoryHandler(svc).Update(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	in := svc.updateIn
	if in.Quantity == nil || *in.Quantity != 30 {
		t.Fatalf("expected quantity 30, got %v", in.Quantity)
	}
	if in.Name != nil || in.Category != nil || in.Unit != nil || in.ReorderLevel != nil || in.Image != nil {
		t.Fatalf("unsupplied fields must stay nil: %+v", in)
	}
}

func TestInventoryHandler_Update_MultipartPartial(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{}

	req := multipartRequest(t, http.MethodPut, "/api/inventory/item-1", map[string]string{"name": "Skim Milk"}, nil, "")
	c := authed(e.NewContext(req, httptest.NewRecorder()))
	c.SetParamNames("id")
	c.SetParamValues("item-1")

	if err := newInventoryHandler(svc).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.updateIn.Name == nil || *svc.updateIn.Name != "Skim Milk" {
		t.Fatalf("expected name, got %+v", svc.updateIn)
	}
	if svc.updateIn.Quantity != nil || svc.updateIn.Category != nil {
		t.Fatalf("unsupplied fields must stay nil: %+v", svc.updateIn)
	}
}

func TestInventoryHandler_Delete(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodDelete, "/api/inventory/item-1", nil)
	rec := httptest.NewRecorder()
	c := authed(e.NewContext(req, rec))

	if err := newInventoryHandler(&stubInventoryService{}).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "Item removed" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestInventoryHandler_Delete_NotFound(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodDelete, "/api/inventory/missing", nil)
	c := authed(e.NewContext(req, httptest.NewRecorder()))

	err := newInventoryHandler(&stubInventoryService{err: domain.ErrItemNotFound}).Delete(c)
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestInventoryHandler_AdjustStock(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{}

	c, rec := jsonContext(e, http.MethodPatch, "/api/inventory/item-1/stock", `{"amount":-5}`)
	c.Request().Header.Set("Idempotency-Key", "retry-1")
	c.SetParamNames("id")
	c.SetParamValues("item-1")

	if err := newInventoryHandler(svc).AdjustStock(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.adjustIn != (ports.StockAdjustment{ItemID: "item-1", Amount: -5, IdempotencyKey: "retry-1"}) {
		t.Fatalf("unexpected adjustment: %+v", svc.adjustIn)
	}
}

func TestInventoryHandler_AdjustStock_MissingAmount(t *testing.T) {
	e := newTestEcho()
	c, _ := jsonContext(e, http.MethodPatch, "/api/inventory/item-1/stock", `{}`)

	err := newInventoryHandler(&stubInventoryService{}).AdjustStock(authed(c))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestInventoryHandler_AdjustStock_Insufficient(t *testing.T) {
	e := newTestEcho()
	c, _ := jsonContext(e, http.MethodPatch, "/api/inventory/item-1/stock", `{"amount":-6}`)

	err := newInventoryHandler(&stubInventoryService{err: domain.ErrInsufficientStock}).AdjustStock(authed(c))
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestInventoryHandler_RequiresIdentity(t *testing.T) {
	e := newTestEcho()
	c, _ := jsonContext(e, http.MethodPatch, "/api/inventory/item-1/stock", `{"amount":1}`)

	err := newInventoryHandler(&stubInventoryService{}).AdjustStock(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestInventoryHandler_Movements_Limit(t *testing.T) {
	e := newTestEcho()
	svc := &stubInventoryService{}

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/item-1/movements?limit=10", nil)
	c := authed(e.NewContext(req, httptest.NewRecorder()))
	if err := newInventoryHandler(svc).Movements(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.limit != 10 {
		t.Fatalf("expected limit 10, got %d", svc.limit)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/inventory/item-1/movements?limit=abc", nil)
	c = authed(e.NewContext(req, httptest.NewRecorder()))
	var he *echo.HTTPError
	if err := newInventoryHandler(svc).Movements(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
