package matching

import (
	"time"
)

// DTOs for the HTTP surface.

type DiscoverRequestDTO struct {
	MinAge        int      `json:"min_age" validate:"omitempty,min=18,max=120"`
	MaxAge        int      `json:"max_age" validate:"omitempty,min=18,max=120"`
	MaxDistanceKm float64  `json:"max_distance_km" validate:"omitempty,min=0,max=20000"`
	VerifiedOnly  bool     `json:"verified_only"`
	TravelStyles  []string `json:"travel_styles" validate:"omitempty,max=20,dive,min=1"`
	Destinations  []string `json:"destinations" validate:"omitempty,max=20,dive,min=1"`
	DateFrom      string   `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo        string   `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Limit         int      `json:"limit" validate:"omitempty,min=1,max=100"`
}

// ToFilterSettings converts the validated DTO into the engine's
// immutable filter value.
func (d *DiscoverRequestDTO) ToFilterSettings() *FilterSettings {
	filters := &FilterSettings{
		MinAge:        d.MinAge,
		MaxAge:        d.MaxAge,
		MaxDistanceKm: d.MaxDistanceKm,
		VerifiedOnly:  d.VerifiedOnly,
		TravelStyles:  d.TravelStyles,
		Destinations:  d.Destinations,
	}

	if t, err := time.Parse("2006-01-02", d.DateFrom); err == nil {
		filters.DateFrom = t
	}
	if t, err := time.Parse("2006-01-02", d.DateTo); err == nil {
		filters.DateTo = t
	}

	return filters
}

type SwipeRequestDTO struct {
	TargetID string `json:"target_id" validate:"required"`
	Decision string `json:"decision" validate:"required,oneof=positive negative"`
}

type DiscoverResponseDTO struct {
	Matches     []*MatchRecommendation `json:"matches"`
	Total       int                    `json:"total"`
	GeneratedAt time.Time              `json:"generated_at"`
}
