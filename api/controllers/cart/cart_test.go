package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartdto "github.com/angelmondragon/tableserve-backend/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/tableserve-backend/internal/cart"
	"github.com/angelmondragon/tableserve-backend/internal/catalog"
	"github.com/angelmondragon/tableserve-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
)

type stubCartService struct {
	view        *cartsvc.View
	quote       *cartsvc.Quote
	err         error
	lastScope   cartsvc.Scope
	lastInput   cartsvc.LineInput
	lastLineID  uuid.UUID
	lastIndex   int
	clearCalled bool
}

func (s *stubCartService) Get(_ context.Context, scope cartsvc.Scope) (*cartsvc.View, error) {
	s.lastScope = scope
	return s.view, s.err
}

func (s *stubCartService) AddLine(_ context.Context, scope cartsvc.Scope, input cartsvc.LineInput) (*cartsvc.View, error) {
	s.lastScope = scope
	s.lastInput = input
	return s.view, s.err
}

func (s *stubCartService) EditLine(_ context.Context, scope cartsvc.Scope, lineID uuid.UUID, input cartsvc.LineInput) (*cartsvc.View, error) {
	s.lastScope = scope
	s.lastLineID = lineID
	s.lastInput = input
	return s.view, s.err
}

func (s *stubCartService) RemoveLine(_ context.Context, scope cartsvc.Scope, index int) (*cartsvc.View, error) {
	s.lastScope = scope
	s.lastIndex = index
	return s.view, s.err
}

func (s *stubCartService) Clear(_ context.Context, scope cartsvc.Scope) error {
	s.lastScope = scope
	s.clearCalled = true
	return s.err
}

func (s *stubCartService) Quote(_ context.Context, scope cartsvc.Scope, input cartsvc.LineInput) (*cartsvc.Quote, error) {
	s.lastScope = scope
	s.lastInput = input
	return s.quote, s.err
}

type stubCatalog struct {
	items []catalog.Item
	err   error
}

func (s stubCatalog) ListMenuItems(context.Context, uuid.UUID) ([]catalog.Item, error) {
	return s.items, s.err
}

func (s stubCatalog) FindMenuItem(context.Context, uuid.UUID, uuid.UUID) (*catalog.Item, error) {
	return nil, s.err
}

func scopedRequest(method, body string, scope cartsvc.Scope, extra map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
	}
	rc := chi.NewRouteContext()
	rc.URLParams.Add("restaurantSlug", scope.RestaurantSlug)
	rc.URLParams.Add("sessionId", scope.SessionID.String())
	rc.URLParams.Add("menuId", scope.MenuID.String())
	for k, v := range extra {
		rc.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func testScope() cartsvc.Scope {
	return cartsvc.Scope{RestaurantSlug: "luigis", SessionID: uuid.New(), MenuID: uuid.New()}
}

func viewWithPizza(scope cartsvc.Scope) *cartsvc.View {
	c := cartsvc.New(scope).AddLine(cartsvc.Line{
		ID:        uuid.New(),
		Name:      "Margherita",
		UnitPrice: decimal.RequireFromString("12.50"),
		Quantity:  2,
	})
	return &cartsvc.View{Cart: c, Summary: pricing.Summarize(c.Lines)}
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) cartdto.Cart {
	t.Helper()
	var envelope struct {
		Data cartdto.Cart `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartFetchSuccess(t *testing.T) {
	scope := testScope()
	svc := &stubCartService{view: viewWithPizza(scope)}

	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, scopedRequest(http.MethodGet, "", scope, nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastScope != scope {
		t.Fatalf("scope not parsed from route: %+v", svc.lastScope)
	}
	got := decodeCart(t, resp)
	if len(got.Lines) != 1 || got.ItemCount != 2 {
		t.Fatalf("unexpected cart %+v", got)
	}
	if !got.Total.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected total 25, got %s", got.Total)
	}
	if !got.Lines[0].Total.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected line total 25, got %s", got.Lines[0].Total)
	}
}

func TestCartFetchRejectsBadSessionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("restaurantSlug", "luigis")
	rc.URLParams.Add("sessionId", "not-a-uuid")
	rc.URLParams.Add("menuId", uuid.NewString())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	CartFetch(&stubCartService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartFetchDependencyFailure(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeDependency, "load cart")}
	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, scopedRequest(http.MethodGet, "", testScope(), nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestCartAddLineMapsToggles(t *testing.T) {
	scope := testScope()
	itemID := uuid.New()
	svc := &stubCartService{view: viewWithPizza(scope)}
	body := fmt.Sprintf(`{
		"item_id": "%s",
		"quantity": 2,
		"additional_notes": "  no basil  ",
		"toggles": [
			{"rule": "Size", "option": "Large", "selected": true, "quantity": 1},
			{"rule": "Toppings", "option": "Olives", "selected": true, "quantity": 2}
		]
	}`, itemID)

	resp := httptest.NewRecorder()
	CartAddLine(svc, nil).ServeHTTP(resp, scopedRequest(http.MethodPost, body, scope, nil))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastInput.ItemID != itemID || svc.lastInput.Quantity != 2 {
		t.Fatalf("unexpected input %+v", svc.lastInput)
	}
	if len(svc.lastInput.Toggles) != 2 || svc.lastInput.Toggles[1].Option != "Olives" || svc.lastInput.Toggles[1].Quantity != 2 {
		t.Fatalf("toggles not mapped in order: %+v", svc.lastInput.Toggles)
	}
	if svc.lastInput.AdditionalNotes == nil || *svc.lastInput.AdditionalNotes != "no basil" {
		t.Fatalf("expected trimmed notes, got %v", svc.lastInput.AdditionalNotes)
	}
}

func TestCartAddLineRejectsUnknownFields(t *testing.T) {
	resp := httptest.NewRecorder()
	body := `{"item_id":"` + uuid.NewString() + `","quantity":1,"price":"0.01"}`
	svc := &stubCartService{}
	CartAddLine(svc, nil).ServeHTTP(resp, scopedRequest(http.MethodPost, body, testScope(), nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastInput.ItemID != uuid.Nil {
		t.Fatalf("service should not be called")
	}
}

func TestCartAddLineSurfacesWarning(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.Warning(cartsvc.WarningInvalidQuantity, "quantity must be at least 1")}
	body := `{"item_id":"` + uuid.NewString() + `","quantity":0}`
	resp := httptest.NewRecorder()
	CartAddLine(svc, nil).ServeHTTP(resp, scopedRequest(http.MethodPost, body, testScope(), nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Details["warning"] != cartsvc.WarningInvalidQuantity {
		t.Fatalf("expected invalid_quantity warning, got %v", envelope.Error.Details)
	}
}

func TestCartEditLineReportsReplaced(t *testing.T) {
	scope := testScope()
	lineID := uuid.New()
	view := viewWithPizza(scope)
	replaced := false
	view.Replaced = &replaced
	svc := &stubCartService{view: view}

	resp := httptest.NewRecorder()
	req := scopedRequest(http.MethodPut, `{"quantity":1}`, scope, map[string]string{"lineId": lineID.String()})
	CartEditLine(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastLineID != lineID {
		t.Fatalf("expected line id %s got %s", lineID, svc.lastLineID)
	}
	got := decodeCart(t, resp)
	if got.Replaced == nil || *got.Replaced {
		t.Fatalf("expected replaced=false in response")
	}
}

func TestCartRemoveLineParsesIndex(t *testing.T) {
	scope := testScope()
	svc := &stubCartService{view: viewWithPizza(scope)}

	resp := httptest.NewRecorder()
	CartRemoveLine(svc, nil).ServeHTTP(resp, scopedRequest(http.MethodDelete, "", scope, map[string]string{"index": "3"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastIndex != 3 {
		t.Fatalf("expected index 3 got %d", svc.lastIndex)
	}

	bad := httptest.NewRecorder()
	CartRemoveLine(svc, nil).ServeHTTP(bad, scopedRequest(http.MethodDelete, "", scope, map[string]string{"index": "-1"}))
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative index got %d", bad.Code)
	}
}

func TestCartClear(t *testing.T) {
	svc := &stubCartService{}
	resp := httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(resp, scopedRequest(http.MethodDelete, "", testScope(), nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if !svc.clearCalled {
		t.Fatalf("expected clear to be called")
	}
}

func TestCartQuoteReturnsUnsatisfiedRules(t *testing.T) {
	itemID := uuid.New()
	svc := &stubCartService{quote: &cartsvc.Quote{
		ItemID:           itemID,
		UnitPrice:        decimal.RequireFromString("9"),
		LineTotal:        decimal.RequireFromString("9"),
		Satisfied:        false,
		UnsatisfiedRules: []string{"Size"},
	}}
	resp := httptest.NewRecorder()
	body := `{"item_id":"` + itemID.String() + `"}`
	CartQuote(svc, nil).ServeHTTP(resp, scopedRequest(http.MethodPost, body, testScope(), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartdto.Quote `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Satisfied || len(envelope.Data.UnsatisfiedRules) != 1 || envelope.Data.UnsatisfiedRules[0] != "Size" {
		t.Fatalf("unexpected quote %+v", envelope.Data)
	}
}

func TestMenuItemsLists(t *testing.T) {
	items := []catalog.Item{{ID: uuid.New(), Name: "Margherita", BasePrice: decimal.RequireFromString("10"), IsAvailable: true}}
	resp := httptest.NewRecorder()
	MenuItems(stubCatalog{items: items}, nil).ServeHTTP(resp, scopedRequest(http.MethodGet, "", testScope(), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []cartdto.MenuItem `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "Margherita" {
		t.Fatalf("unexpected items %+v", envelope.Data)
	}
}
