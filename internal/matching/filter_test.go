package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func filterRequester() *Profile {
	return &Profile{
		ID:       "requester",
		Age:      28,
		Location: &Coordinates{Latitude: 48.8566, Longitude: 2.3522}, // Paris
	}
}

func TestPassesFiltersAgeRange(t *testing.T) {
	filters := &FilterSettings{MinAge: 18, MaxAge: 30}

	assert.True(t, PassesFilters(filterRequester(), &Profile{ID: "ok", Age: 25}, filters))
	assert.False(t, PassesFilters(filterRequester(), &Profile{ID: "old", Age: 70}, filters))
	assert.False(t, PassesFilters(filterRequester(), &Profile{ID: "young", Age: 17}, filters))
}

func TestPassesFiltersVerifiedOnly(t *testing.T) {
	filters := &FilterSettings{VerifiedOnly: true}

	assert.False(t, PassesFilters(filterRequester(), &Profile{ID: "c", Age: 25}, filters))
	assert.True(t, PassesFilters(filterRequester(), &Profile{ID: "c", Age: 25, IsVerified: true}, filters))
}

func TestPassesFiltersTravelStyles(t *testing.T) {
	filters := &FilterSettings{TravelStyles: []string{"Budget", "backpacker"}}

	match := &Profile{ID: "c", Age: 25, TravelStyles: []string{"budget", "luxury"}}
	miss := &Profile{ID: "c", Age: 25, TravelStyles: []string{"luxury"}}

	assert.True(t, PassesFilters(filterRequester(), match, filters), "style match is case-insensitive")
	assert.False(t, PassesFilters(filterRequester(), miss, filters))
}

func TestPassesFiltersDestinations(t *testing.T) {
	filters := &FilterSettings{Destinations: []string{"japan"}}

	byDestination := &Profile{ID: "c", Age: 25, NextDestination: "Tokyo, Japan"}
	byCity := &Profile{ID: "c", Age: 25, CurrentCity: "Osaka, Japan"}
	neither := &Profile{ID: "c", Age: 25, NextDestination: "Lima, Peru"}

	assert.True(t, PassesFilters(filterRequester(), byDestination, filters))
	assert.True(t, PassesFilters(filterRequester(), byCity, filters))
	assert.False(t, PassesFilters(filterRequester(), neither, filters))
}

func TestPassesFiltersDistance(t *testing.T) {
	filters := &FilterSettings{MaxDistanceKm: 100}

	versailles := &Profile{ID: "c", Age: 25, Location: &Coordinates{Latitude: 48.8049, Longitude: 2.1204}}
	marseille := &Profile{ID: "c", Age: 25, Location: &Coordinates{Latitude: 43.2965, Longitude: 5.3698}}
	noLocation := &Profile{ID: "c", Age: 25}

	assert.True(t, PassesFilters(filterRequester(), versailles, filters))
	assert.False(t, PassesFilters(filterRequester(), marseille, filters))
	assert.True(t, PassesFilters(filterRequester(), noLocation, filters), "distance check needs both coordinates")
}

func TestPassesFiltersDateRange(t *testing.T) {
	june := &FilterSettings{
		DateFrom: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	winter := &Profile{ID: "c", Age: 25, TravelDates: "2026-01"}
	midJune := &Profile{ID: "c", Age: 25, TravelDates: "2026-06-15"}
	straddling := &Profile{ID: "c", Age: 25, TravelDates: "2026-05-20 to 2026-06-05"}
	undated := &Profile{ID: "c", Age: 25}
	vague := &Profile{ID: "c", Age: 25, TravelDates: "whenever"}

	assert.False(t, PassesFilters(filterRequester(), winter, june))
	assert.True(t, PassesFilters(filterRequester(), midJune, june))
	assert.True(t, PassesFilters(filterRequester(), straddling, june), "partial overlap passes")
	assert.True(t, PassesFilters(filterRequester(), undated, june), "missing dates degrade, not exclude")
	assert.True(t, PassesFilters(filterRequester(), vague, june))

	openEnded := &FilterSettings{DateFrom: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	assert.False(t, PassesFilters(filterRequester(), winter, openEnded))
	assert.True(t, PassesFilters(filterRequester(), midJune, openEnded))
}

func TestPassesFiltersExcludesSelf(t *testing.T) {
	requester := filterRequester()
	assert.False(t, PassesFilters(requester, requester, nil))
}

func TestFilterCandidatesAndCombined(t *testing.T) {
	filters := &FilterSettings{MinAge: 18, MaxAge: 30, VerifiedOnly: true}

	candidates := []*Profile{
		{ID: "pass", Age: 25, IsVerified: true},
		{ID: "too-old", Age: 70, IsVerified: true},
		{ID: "unverified", Age: 25},
		{ID: "requester", Age: 28, IsVerified: true},
	}

	surviving := FilterCandidates(filterRequester(), candidates, filters)

	assert.Len(t, surviving, 1)
	assert.Equal(t, "pass", surviving[0].ID)
}

func TestNilFiltersOnlyExcludeSelf(t *testing.T) {
	candidates := []*Profile{
		{ID: "a", Age: 99},
		{ID: "requester", Age: 28},
	}

	surviving := FilterCandidates(filterRequester(), candidates, nil)
	assert.Len(t, surviving, 1)
	assert.Equal(t, "a", surviving[0].ID)
}
