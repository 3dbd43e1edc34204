package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Atomic996/Bougtobstore/internal/domain/entity"
	"github.com/Atomic996/Bougtobstore/internal/platform/logger"
	"github.com/Atomic996/Bougtobstore/internal/repository"
	"github.com/Atomic996/Bougtobstore/internal/service"
	"github.com/go-chi/chi/v5"
)

// sellerIDHeader carries the browser's persisted pseudo-identity. The
// submit response echoes the effective id so a first-time client can store
// it.
const sellerIDHeader = "X-Seller-ID"

type ListingService interface {
	Submit(ctx context.Context, input service.SubmitInput) (*entity.Listing, error)
	ActiveListings(ctx context.Context, filter service.ListFilter) []*entity.Listing
	GetListing(ctx context.Context, id string) (*entity.Listing, error)
	MarkStatus(ctx context.Context, id, sellerID string, status entity.ListingStatus) error
}

type ListingHandler struct {
	svc    ListingService
	logger logger.Logger
}

func NewListingHandler(svc ListingService, log logger.Logger) *ListingHandler {
	return &ListingHandler{svc: svc, logger: log}
}

type submitRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Image         string  `json:"image"`
	ImageFilename string  `json:"image_filename"`
	SellerName    string  `json:"seller_name"`
	ContactType   string  `json:"contact_type"`
	ContactValue  string  `json:"contact_value"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type rejectionResponse struct {
	Rejected bool   `json:"rejected"`
	Reason   string `json:"reason"`
}

func (h *ListingHandler) HandleSubmitListing(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("invalid submit request body: %v", err)
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.svc.Submit(r.Context(), service.SubmitInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Category:      entity.Category(req.Category),
		Image:         req.Image,
		ImageFilename: req.ImageFilename,
		SellerID:      r.Header.Get(sellerIDHeader),
		SellerName:    req.SellerName,
		ContactType:   req.ContactType,
		ContactValue:  req.ContactValue,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set(sellerIDHeader, listing.SellerID)
	respondJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	filter := service.ListFilter{
		Category: entity.Category(r.URL.Query().Get("category")),
		Query:    r.URL.Query().Get("q"),
	}
	if r.URL.Query().Get("mine") == "true" {
		sellerID := r.Header.Get(sellerIDHeader)
		if sellerID == "" {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "mine=true requires the " + sellerIDHeader + " header"})
			return
		}
		filter.SellerID = sellerID
	}

	listings := h.svc.ActiveListings(r.Context(), filter)
	respondJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.svc.GetListing(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) HandleUpdateListingStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sellerID := r.Header.Get(sellerIDHeader)
	if sellerID == "" {
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "missing " + sellerIDHeader + " header"})
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	status, err := entity.ParseListingStatus(req.Status)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.svc.MarkStatus(r.Context(), id, sellerID, status); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ListingHandler) respondError(w http.ResponseWriter, err error) {
	var rejection *service.PolicyRejectionError
	switch {
	case errors.As(err, &rejection):
		respondJSON(w, http.StatusUnprocessableEntity, rejectionResponse{Rejected: true, Reason: rejection.Reason})
	case errors.Is(err, service.ErrValidation):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "listing not found"})
	case errors.Is(err, repository.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "listing belongs to another seller"})
	default:
		h.logger.Errorf("request failed: %v", err)
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "could not save the listing, please try again"})
	}
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
