package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

const (
	batchPattern  = "/api/v1/sessions/{sessionId}/order-batches"
	submitPattern = "/api/v1/restaurants/{restaurantSlug}/sessions/{sessionId}/menus/{menuId}/submit"
	batchURL      = "/api/v1/sessions/7d1c/order-batches"
	submitURL     = "/api/v1/restaurants/luigis/sessions/7d1c/menus/91aa/submit"
)

func TestMatchRuleSelection(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		pattern  string
		ok       bool
		optional bool
	}{
		{"batch create", http.MethodPost, batchPattern, true, false},
		{"submit", http.MethodPost, submitPattern, true, true},
		{"cart read", http.MethodGet, "/api/v1/restaurants/{restaurantSlug}/sessions/{sessionId}/menus/{menuId}/cart", false, false},
		{"batch list", http.MethodGet, batchPattern, false, false},
		{"empty", http.MethodPost, "", false, false},
	}

	for _, tt := range tests {
		rule, ok := matchRule(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && rule.optional != tt.optional {
			t.Fatalf("%s: expected optional=%v got %v", tt.name, tt.optional, rule.optional)
		}
	}
}

func TestIdempotencyMiddlewareRequiresHeader(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := requestWithPattern(http.MethodPost, batchURL, batchPattern, strings.NewReader(`{"lines":[]}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencyMiddlewareOptionalRoutePassesThrough(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := requestWithPattern(http.MethodPost, submitURL, submitPattern, strings.NewReader(`{}`))
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", resp.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected handler to run for each request without a key, ran %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key")
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	req := requestWithPattern(http.MethodPost, submitURL, submitPattern, strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", resp.Code)
	}

	replay := requestWithPattern(http.MethodPost, submitURL, submitPattern, strings.NewReader(`{}`))
	replay.Header.Set("Idempotency-Key", "abc")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, replay)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyMiddlewareDoesNotStoreServerErrors(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	statuses := []int{http.StatusServiceUnavailable, http.StatusCreated}
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statuses[calls])
		calls++
	})

	for i, want := range statuses {
		req := requestWithPattern(http.MethodPost, submitURL, submitPattern, strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "retry-me")
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		if resp.Code != want {
			t.Fatalf("attempt %d: expected %d got %d", i, want, resp.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected the retry to reach the handler, calls=%d", calls)
	}
}

func TestIdempotencyMiddlewareRetriesAfterRecoverableRejection(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"warning", http.StatusBadRequest},
		{"in flight", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			mw := Idempotency(store, time.Hour, nil)
			tableSelected := false
			calls := 0
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				if !tableSelected {
					w.WriteHeader(tt.status)
					return
				}
				w.WriteHeader(http.StatusCreated)
			})

			send := func() int {
				req := requestWithPattern(http.MethodPost, submitURL, submitPattern, strings.NewReader(`{}`))
				req.Header.Set("Idempotency-Key", "order-7")
				resp := httptest.NewRecorder()
				mw(handler).ServeHTTP(resp, req)
				return resp.Code
			}

			if got := send(); got != tt.status {
				t.Fatalf("expected first response %d got %d", tt.status, got)
			}
			if len(store.data) != 0 {
				t.Fatalf("rejection must not be stored")
			}
			tableSelected = true
			if got := send(); got != http.StatusCreated {
				t.Fatalf("expected retry with same key to reach handler, got %d", got)
			}
			if got := send(); got != http.StatusCreated || calls != 2 {
				t.Fatalf("expected success to be replayed, status=%d calls=%d", got, calls)
			}
		})
	}
}

func TestIdempotencyMiddlewareScopesByStaff(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	for _, staff := range []string{"staff-a", "staff-b"} {
		req := requestWithPattern(http.MethodPost, batchURL, batchPattern, strings.NewReader(`{}`))
		req = req.WithContext(WithStaffID(req.Context(), staff))
		req.Header.Set("Idempotency-Key", "shared")
		mw(handler).ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("same key from different staff should not replay, calls=%d", calls)
	}
}

func TestIdempotencyMiddlewareDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := requestWithPattern(http.MethodPost, batchURL, batchPattern, strings.NewReader(`{"lines":[1]}`))
	req.Header.Set("Idempotency-Key", "xyz")
	mw(handler).ServeHTTP(httptest.NewRecorder(), req)

	replay := requestWithPattern(http.MethodPost, batchURL, batchPattern, strings.NewReader(`{"lines":[2]}`))
	replay.Header.Set("Idempotency-Key", "xyz")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, replay)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}
