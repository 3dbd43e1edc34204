package http

import "github.com/go-chi/chi/v5"

// SetupListingRoutes wires the storefront routes. Everything is public: the
// pseudo-identity header scopes owner actions but is not authentication.
func SetupListingRoutes(mux *chi.Mux, h *ListingHandler) {
	mux.Get("/healthz", h.HandleHealthz)

	mux.Get("/api/listings", h.HandleListListings)
	mux.Post("/api/listings", h.HandleSubmitListing)
	mux.Get("/api/listings/{id}", h.HandleGetListing)
	mux.Patch("/api/listings/{id}/status", h.HandleUpdateListingStatus)
}
