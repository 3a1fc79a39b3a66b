package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ShipIM/database-refactoring/internal/api/shared"
	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/service/auth"
)

// getPrincipal returns the authenticated caller's login placed in the context
// by the authentication middleware.
func getPrincipal(r *http.Request) (string, bool) {
	return shared.GetPrincipal(r.Context())
}

// getPathItemID parses a positive int64 item id from the URL path parameters.
func getPathItemID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "is required", nil)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer", nil)
	}
	return id, nil
}

// getPageQuery reads page_number (default 0) and page_size (default 20) from the query.
func getPageQuery(r *http.Request) (domain.Page, error) {
	query := PageQuery{Number: 0, Size: domain.DefaultPageSize}
	values := r.URL.Query()

	if raw := values.Get("page_number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Page{}, domain.NewValidationError("page_number", "must be an integer", nil)
		}
		query.Number = n
	}
	if raw := values.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Page{}, domain.NewValidationError("page_size", "must be an integer", nil)
		}
		query.Size = n
	}

	if err := shared.ValidateRequest(&query); err != nil {
		return domain.Page{}, err
	}
	return domain.NewPage(query.Number, query.Size), nil
}

// getItemFilter reads the optional name and category filters from the query.
// An absent or empty parameter applies no filter.
func getItemFilter(r *http.Request) domain.ItemFilter {
	var filter domain.ItemFilter
	values := r.URL.Query()
	if name := values.Get("name"); name != "" {
		filter.Name = &name
	}
	if category := values.Get("category"); category != "" {
		filter.Category = &category
	}
	return filter
}

// requirePrincipal returns the caller's login, writing a 401 when it is missing.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (string, bool) {
	login, ok := getPrincipal(r)
	if !ok {
		logger.FromContext(r.Context()).Warn("principal not found in request context")
		HandleAPIError(w, r, auth.ErrMissingToken)
		return "", false
	}
	return login, true
}

// handlePrincipalAndPathItemID extracts both the caller's login and the path item id.
// It writes an error response and returns false if either is missing or invalid.
func handlePrincipalAndPathItemID(w http.ResponseWriter, r *http.Request, paramName string) (string, int64, bool) {
	login, ok := requirePrincipal(w, r)
	if !ok {
		return "", 0, false
	}

	id, ok := handlePathItemID(w, r, paramName)
	if !ok {
		return "", 0, false
	}
	return login, id, true
}

// handlePathItemID extracts the path item id, writing a 400 on failure.
func handlePathItemID(w http.ResponseWriter, r *http.Request, paramName string) (int64, bool) {
	id, err := getPathItemID(r, paramName)
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err)
		return 0, false
	}
	return id, true
}

// handlePageQuery extracts the pagination query, writing a 400 on failure.
func handlePageQuery(w http.ResponseWriter, r *http.Request) (domain.Page, bool) {
	page, err := getPageQuery(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return domain.Page{}, false
	}
	return page, true
}

// decodeAndValidate decodes the JSON body into req and validates it, writing a 400
// on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
