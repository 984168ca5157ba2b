package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dealdrop/dealdrop/internal/auth"
	"github.com/dealdrop/dealdrop/internal/handler/dto"
	"github.com/dealdrop/dealdrop/internal/model"
	"github.com/dealdrop/dealdrop/internal/service"
)

const testDealID = "0b6f3c1e-9f5a-4c0d-8f7a-1d2e3f4a5b6c"

type stubWishlistService struct {
	entries   []model.ResolvedEntry
	listErr   error
	addErr    error
	removeErr error

	gotAdd    *service.AddEntryInput
	gotRemove string
}

func (s *stubWishlistService) ListEntries(ctx context.Context, accountID string) ([]model.ResolvedEntry, error) {
	return s.entries, s.listErr
}

func (s *stubWishlistService) AddEntry(ctx context.Context, input service.AddEntryInput) error {
	s.gotAdd = &input
	return s.addErr
}

func (s *stubWishlistService) RemoveEntry(ctx context.Context, accountID, dealID string) error {
	s.gotRemove = dealID
	return s.removeErr
}

func newWishlistHandler(svc WishlistProvider) *WishlistHandler {
	return NewWishlistHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func withAccount(r *http.Request, role model.Role) *http.Request {
	accountCtx := &model.AccountContext{
		TokenID:   "tok-1",
		AccountID: "acct-1",
		Email:     "shopper@example.com",
		Role:      role,
		Scopes:    []string{model.ScopeRead, model.ScopeWrite},
	}
	return r.WithContext(auth.ContextWithAccount(r.Context(), accountCtx))
}

func TestWishlistList(t *testing.T) {
	price := int64(80)
	svc := &stubWishlistService{
		entries: []model.ResolvedEntry{
			{
				DealID:       testDealID,
				AlertEnabled: true,
				CreatedAt:    time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC),
				Status:       model.DealStatusActive,
				BestPrice:    &price,
			},
			{
				DealID:    "1c7f4d2f-0a6b-4d1e-9a8b-2e3f4a5b6c7d",
				CreatedAt: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
				Status:    model.DealStatusExpired,
			},
		},
	}
	h := newWishlistHandler(svc)

	req := withAccount(httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil), model.RoleSubscriber)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body []dto.WishlistEntryResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("got %d entries, want 2", len(body))
	}
	if body[0].DealID != testDealID || body[0].BestPrice == nil || *body[0].BestPrice != 80 {
		t.Errorf("first entry = %+v, want active deal with bestPrice 80", body[0])
	}
	if body[1].Status != "expired" || body[1].BestPrice != nil {
		t.Errorf("second entry = %+v, want expired with null bestPrice", body[1])
	}
}

func TestWishlistList_NullPriceSerialization(t *testing.T) {
	svc := &stubWishlistService{
		entries: []model.ResolvedEntry{
			{DealID: testDealID, Status: model.DealStatusExpired},
		},
	}
	h := newWishlistHandler(svc)

	req := withAccount(httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil), model.RoleFree)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if !strings.Contains(rec.Body.String(), `"bestPrice":null`) {
		t.Errorf("body = %s, want explicit bestPrice null", rec.Body.String())
	}
}

func TestWishlistList_EmptyArray(t *testing.T) {
	h := newWishlistHandler(&stubWishlistService{})

	req := withAccount(httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil), model.RoleFree)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestWishlistList_ServiceError(t *testing.T) {
	h := newWishlistHandler(&stubWishlistService{listErr: errors.New("db down")})

	req := withAccount(httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil), model.RoleFree)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestWishlistAdd(t *testing.T) {
	svc := &stubWishlistService{}
	h := newWishlistHandler(svc)

	body := strings.NewReader(`{"dealId":"` + testDealID + `","alertEnabled":true}`)
	req := withAccount(httptest.NewRequest(http.MethodPost, "/api/v1/wishlist", body), model.RoleSubscriber)
	rec := httptest.NewRecorder()
	h.Add(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if svc.gotAdd == nil {
		t.Fatal("AddEntry was not called")
	}
	if svc.gotAdd.AccountID != "acct-1" || svc.gotAdd.DealID != testDealID || !svc.gotAdd.AlertEnabled {
		t.Errorf("AddEntry input = %+v", svc.gotAdd)
	}
	if svc.gotAdd.Role != model.RoleSubscriber {
		t.Errorf("role = %q, want %q", svc.gotAdd.Role, model.RoleSubscriber)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("body = %s, want success true", rec.Body.String())
	}
}

func TestWishlistAdd_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		addErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			body:       `{"dealId":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_JSON",
		},
		{
			name:       "invalid deal id",
			body:       `{"dealId":"nope"}`,
			addErr:     service.ErrInvalidDealID,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DEAL_ID",
		},
		{
			name:       "alerts require subscription",
			body:       `{"dealId":"` + testDealID + `","alertEnabled":true}`,
			addErr:     service.ErrAlertsRequireSubscription,
			wantStatus: http.StatusForbidden,
			wantCode:   "ALERTS_REQUIRE_SUBSCRIPTION",
		},
		{
			name:       "deal not found",
			body:       `{"dealId":"` + testDealID + `"}`,
			addErr:     service.ErrDealNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "DEAL_NOT_FOUND",
		},
		{
			name:       "storage failure",
			body:       `{"dealId":"` + testDealID + `"}`,
			addErr:     errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newWishlistHandler(&stubWishlistService{addErr: tt.addErr})

			req := withAccount(httptest.NewRequest(http.MethodPost, "/api/v1/wishlist", strings.NewReader(tt.body)), model.RoleFree)
			rec := httptest.NewRecorder()
			h.Add(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var errBody dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if errBody.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", errBody.Code, tt.wantCode)
			}
		})
	}
}

func TestWishlistRemove(t *testing.T) {
	svc := &stubWishlistService{}
	h := newWishlistHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/wishlist/"+testDealID, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("dealId", testDealID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	req = withAccount(req, model.RoleFree)

	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.gotRemove != testDealID {
		t.Errorf("RemoveEntry deal = %q, want %q", svc.gotRemove, testDealID)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("body = %s, want success true", rec.Body.String())
	}
}

func TestWishlistRemove_InvalidDealID(t *testing.T) {
	h := newWishlistHandler(&stubWishlistService{removeErr: service.ErrInvalidDealID})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/wishlist/nope", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("dealId", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	req = withAccount(req, model.RoleFree)

	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
