package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Atomic996/Bougtobstore/internal/domain/entity"
	"github.com/Atomic996/Bougtobstore/internal/platform/logger"
	"github.com/Atomic996/Bougtobstore/internal/repository"
	"github.com/Atomic996/Bougtobstore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Submit(ctx context.Context, input service.SubmitInput) (*entity.Listing, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingService) ActiveListings(ctx context.Context, filter service.ListFilter) []*entity.Listing {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entity.Listing)
}

func (m *MockListingService) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingService) MarkStatus(ctx context.Context, id, sellerID string, status entity.ListingStatus) error {
	args := m.Called(ctx, id, sellerID, status)
	return args.Error(0)
}

func newTestRouter(svc ListingService) *chi.Mux {
	mux := chi.NewRouter()
	SetupListingRoutes(mux, NewListingHandler(svc, logger.NewNop()))
	return mux
}

func TestHandleSubmitListing_Created(t *testing.T) {
	svc := new(MockListingService)
	svc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.SubmitInput) bool {
		return in.Title == "طاولة خشبية" && in.SellerID == "seller_abc"
	})).Return(&entity.Listing{ID: "l1", Title: "طاولة خشبية", SellerID: "seller_abc"}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"title":         "طاولة خشبية",
		"price":         12000,
		"image":         "data:image/jpeg;base64,ZmFrZQ==",
		"contact_type":  "phone",
		"contact_value": "0550000000",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/listings", bytes.NewReader(body))
	req.Header.Set(sellerIDHeader, "seller_abc")
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "seller_abc", rec.Header().Get(sellerIDHeader))
	var created entity.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "l1", created.ID)
}

func TestHandleSubmitListing_PolicyRejectionIs422(t *testing.T) {
	svc := new(MockListingService)
	svc.On("Submit", mock.Anything, mock.Anything).
		Return(nil, &service.PolicyRejectionError{Reason: "title contains a forbidden word: سلاح"})

	body, _ := json.Marshal(map[string]interface{}{"title": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/listings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp rejectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Rejected)
	assert.Contains(t, resp.Reason, "سلاح")
}

func TestHandleSubmitListing_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation", service.ErrValidation, http.StatusBadRequest},
		{"infrastructure", errors.New("connection reset"), http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockListingService)
			svc.On("Submit", mock.Anything, mock.Anything).Return(nil, tc.err)

			body, _ := json.Marshal(map[string]interface{}{"title": "x"})
			req := httptest.NewRequest(http.MethodPost, "/api/listings", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			newTestRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestHandleSubmitListing_InvalidBody(t *testing.T) {
	svc := new(MockListingService)
	req := httptest.NewRequest(http.MethodPost, "/api/listings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestHandleListListings_PassesFilters(t *testing.T) {
	svc := new(MockListingService)
	svc.On("ActiveListings", mock.Anything, service.ListFilter{
		Category: entity.CategoryElectronics,
		Query:    "هاتف",
	}).Return([]*entity.Listing{{ID: "a"}})

	req := httptest.NewRequest(http.MethodGet, "/api/listings?category=electronics&q=%D9%87%D8%A7%D8%AA%D9%81", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var listings []*entity.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "a", listings[0].ID)
}

func TestHandleListListings_MineRequiresHeader(t *testing.T) {
	svc := new(MockListingService)
	req := httptest.NewRequest(http.MethodGet, "/api/listings?mine=true", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ActiveListings", mock.Anything, mock.Anything)
}

func TestHandleListListings_MineScopesToSeller(t *testing.T) {
	svc := new(MockListingService)
	svc.On("ActiveListings", mock.Anything, service.ListFilter{SellerID: "seller_abc"}).
		Return([]*entity.Listing{})

	req := httptest.NewRequest(http.MethodGet, "/api/listings?mine=true", nil)
	req.Header.Set(sellerIDHeader, "seller_abc")
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandleGetListing_NotFound(t *testing.T) {
	svc := new(MockListingService)
	svc.On("GetListing", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/listings/missing", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUpdateListingStatus(t *testing.T) {
	cases := []struct {
		name     string
		sellerID string
		body     string
		svcErr   error
		wantCode int
	}{
		{"success", "owner", `{"status":"sold"}`, nil, http.StatusNoContent},
		{"missing header", "", `{"status":"sold"}`, nil, http.StatusForbidden},
		{"unknown status", "owner", `{"status":"archived"}`, nil, http.StatusBadRequest},
		{"foreign listing", "intruder", `{"status":"sold"}`, repository.ErrForbidden, http.StatusForbidden},
		{"invalid transition", "owner", `{"status":"active"}`, service.ErrInvalidTransition, http.StatusConflict},
		{"not found", "owner", `{"status":"deleted"}`, repository.ErrNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockListingService)
			svc.On("MarkStatus", mock.Anything, "l1", tc.sellerID, mock.Anything).Return(tc.svcErr)

			req := httptest.NewRequest(http.MethodPatch, "/api/listings/l1/status", bytes.NewReader([]byte(tc.body)))
			if tc.sellerID != "" {
				req.Header.Set(sellerIDHeader, tc.sellerID)
			}
			rec := httptest.NewRecorder()

			newTestRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	newTestRouter(new(MockListingService)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
