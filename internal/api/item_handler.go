package api

import (
	"context"
	"net/http"

	"github.com/ShipIM/database-refactoring/internal/api/shared"
	"github.com/ShipIM/database-refactoring/internal/domain"
)

// Catalog is the catalog behavior the item endpoints depend on.
// service.CatalogService implements it.
type Catalog interface {
	ListItems(ctx context.Context, filter domain.ItemFilter, page domain.Page) (domain.Paged[domain.Item], error)
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	IsFavorite(ctx context.Context, login string, itemID int64) (bool, error)
	AddFavorite(ctx context.Context, login string, itemID int64) error
	RemoveFavorite(ctx context.Context, login string, itemID int64) error
	ListFavorites(
		ctx context.Context,
		login string,
		filter domain.ItemFilter,
		page domain.Page,
	) (domain.Paged[domain.Item], error)
	GetSelfPrice(ctx context.Context, itemID int64) (int64, error)
	GetItemsForPeriod(
		ctx context.Context,
		period domain.Period,
		itemID int64,
		page domain.Page,
	) (domain.Paged[domain.DailyPriceSample], error)
	GetActiveLots(ctx context.Context, itemID int64, page domain.Page) (domain.Paged[domain.Lot], error)
	GetDependencies(ctx context.Context, itemID int64, page domain.Page) (domain.Paged[domain.Dependency], error)
	ListCategories(ctx context.Context) ([]string, error)
	ListFavoriteCategories(ctx context.Context, login string) ([]string, error)
}

// ItemHandler handles the catalog endpoints under /items.
type ItemHandler struct {
	catalog Catalog
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(catalog Catalog) *ItemHandler {
	return &ItemHandler{catalog: catalog}
}

// ListItems handles GET /items.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	page, ok := handlePageQuery(w, r)
	if !ok {
		return
	}

	items, err := h.catalog.ListItems(r.Context(), getItemFilter(r), page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(items, itemToResponse))
}

// GetItem handles GET /items/{id}. Authenticated callers also learn whether the
// item is one of their favorites.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathItemID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.catalog.GetItem(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := itemToResponse(*item)
	if login, ok := getPrincipal(r); ok {
		favourite, err := h.catalog.IsFavorite(r.Context(), login, id)
		if err != nil {
			HandleAPIError(w, r, err)
			return
		}
		resp.IsFavourite = &favourite
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ListFavorites handles GET /items/favourites.
func (h *ItemHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	login, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	page, ok := handlePageQuery(w, r)
	if !ok {
		return
	}

	items, err := h.catalog.ListFavorites(r.Context(), login, getItemFilter(r), page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(items, itemToResponse))
}

// AddFavorite handles POST /items/favourites.
func (h *ItemHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	login, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req FavoriteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.catalog.AddFavorite(r.Context(), login, req.ItemID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, FavoriteResponse{ItemID: req.ItemID})
}

// RemoveFavorite handles DELETE /items/favourites/{id}. Removing an item that is not
// a favorite succeeds.
func (h *ItemHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	login, id, ok := handlePrincipalAndPathItemID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.RemoveFavorite(r.Context(), login, id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFavoriteCategories handles GET /items/favourites/categories.
func (h *ItemHandler) ListFavoriteCategories(w http.ResponseWriter, r *http.Request) {
	login, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	categories, err := h.catalog.ListFavoriteCategories(r.Context(), login)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// ListCategories handles GET /items/categories.
func (h *ItemHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// GetSelfPrice handles GET /items/self-price/{id}. The body is a bare integer.
func (h *ItemHandler) GetSelfPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathItemID(w, r, "id")
	if !ok {
		return
	}

	price, err := h.catalog.GetSelfPrice(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, price)
}

// GetItemsForPeriod handles POST /items/items-for-period.
func (h *ItemHandler) GetItemsForPeriod(w http.ResponseWriter, r *http.Request) {
	page, ok := handlePageQuery(w, r)
	if !ok {
		return
	}

	var req PeriodRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	period, err := req.Period()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	samples, err := h.catalog.GetItemsForPeriod(r.Context(), period, req.ItemID, page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(samples, sampleToResponse))
}

// GetActiveLots handles GET /items/{id}/lots.
func (h *ItemHandler) GetActiveLots(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathItemID(w, r, "id")
	if !ok {
		return
	}
	page, ok := handlePageQuery(w, r)
	if !ok {
		return
	}

	lots, err := h.catalog.GetActiveLots(r.Context(), id, page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(lots, lotToResponse))
}

// GetDependencies handles GET /items/{id}/dependencies.
func (h *ItemHandler) GetDependencies(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathItemID(w, r, "id")
	if !ok {
		return
	}
	page, ok := handlePageQuery(w, r)
	if !ok {
		return
	}

	deps, err := h.catalog.GetDependencies(r.Context(), id, page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newPageResponse(deps, dependencyToResponse))
}
