package api

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"github.com/ShipIM/database-refactoring/internal/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=16"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// Token is the JWT used for API authorization
	Token string `json:"token"`
	Email string `json:"email"`
}

// FavoriteRequest defines the payload for adding a favorite.
type FavoriteRequest struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

// FavoriteResponse echoes the favorited item.
type FavoriteResponse struct {
	ItemID int64 `json:"item_id"`
}

// PeriodRequest selects the daily price history of an item.
// Start and End are inclusive calendar dates.
type PeriodRequest struct {
	Start  string `json:"start"   validate:"required,datetime=2006-01-02"`
	End    string `json:"end"     validate:"required,datetime=2006-01-02"`
	ItemID int64  `json:"item_id" validate:"required,gt=0"`
}

// Period converts the validated request into a domain period.
func (p PeriodRequest) Period() (domain.Period, error) {
	start, err := time.Parse(DateLayout, p.Start)
	if err != nil {
		return domain.Period{}, domain.NewValidationError("start", "must be a date in YYYY-MM-DD format", nil)
	}
	end, err := time.Parse(DateLayout, p.End)
	if err != nil {
		return domain.Period{}, domain.NewValidationError("end", "must be a date in YYYY-MM-DD format", nil)
	}
	return domain.Period{Start: start, End: end}, nil
}

// PageQuery holds the pagination query parameters.
type PageQuery struct {
	Number int `json:"page_number" validate:"gte=0,lte=100000000"`
	Size   int `json:"page_size"   validate:"gte=1,lte=20"`
}

// ItemResponse is the wire form of a catalog item. IsFavourite is only present
// for authenticated callers.
type ItemResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Properties  json.RawMessage `json:"properties"`
	IsFavourite *bool           `json:"is_favourite,omitempty"`
}

// LotResponse is the wire form of an active lot.
type LotResponse struct {
	ID           int64     `json:"lot_id"`
	Vendor       string    `json:"vendor"`
	CurrentPrice int64     `json:"cost_current"`
	BuyoutPrice  int64     `json:"cost_buy"`
	EndsAt       time.Time `json:"time_end"`
}

// DependencyResponse is one node of an item's component expansion.
type DependencyResponse struct {
	Name  string `json:"name"`
	ID    int64  `json:"id"`
	Level int64  `json:"level"`
}

// DailyPriceResponse is the aggregate of one calendar day.
type DailyPriceResponse struct {
	Day        string `json:"day"`
	MaxCostBuy int64  `json:"max_cost_buy"`
	Quantity   int64  `json:"quantity"`
}

// PageResponse is the envelope of every paginated listing.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"page_number"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int64 `json:"total_pages"`
}

func newPageResponse[S, T any](page domain.Paged[S], convert func(S) T) PageResponse[T] {
	return PageResponse[T]{
		Content:       lo.Map(page.Items, func(item S, _ int) T { return convert(item) }),
		PageNumber:    page.Page.Number,
		PageSize:      page.Page.Size,
		TotalElements: page.Total,
		TotalPages:    page.TotalPages(),
	}
}

func itemToResponse(item domain.Item) ItemResponse {
	props := item.Properties
	if len(props) == 0 {
		props = json.RawMessage("{}")
	}
	return ItemResponse{ID: item.ID, Name: item.Name, Properties: props}
}

func lotToResponse(lot domain.Lot) LotResponse {
	return LotResponse{
		ID:           lot.ID,
		Vendor:       lot.Seller,
		CurrentPrice: lot.CurrentPrice,
		BuyoutPrice:  lot.BuyoutPrice,
		EndsAt:       lot.EndsAt,
	}
}

func dependencyToResponse(dep domain.Dependency) DependencyResponse {
	return DependencyResponse{Name: dep.Name, ID: dep.ID, Level: dep.Level}
}

func sampleToResponse(sample domain.DailyPriceSample) DailyPriceResponse {
	return DailyPriceResponse{
		Day:        sample.Day.Format(DateLayout),
		MaxCostBuy: sample.MaxBuyoutPrice,
		Quantity:   sample.Quantity,
	}
}
