package matching

import (
	"strings"
	"time"
)

// PassesFilters applies the hard constraints to one candidate. Checks are
// AND-combined; absent or empty constraint values mean no restriction.
// Filtering runs before any scoring to bound the per-request cost.
func PassesFilters(requester, candidate *Profile, filters *FilterSettings) bool {
	if candidate.ID == requester.ID {
		return false
	}
	if filters == nil {
		return true
	}

	if filters.MinAge > 0 && candidate.Age < filters.MinAge {
		return false
	}
	if filters.MaxAge > 0 && candidate.Age > filters.MaxAge {
		return false
	}

	if filters.VerifiedOnly && !candidate.IsVerified {
		return false
	}

	if len(filters.TravelStyles) > 0 && !sharesAnyTag(candidate.TravelStyles, filters.TravelStyles) {
		return false
	}

	if len(filters.Destinations) > 0 && !mentionsAnyDestination(candidate, filters.Destinations) {
		return false
	}

	if filters.MaxDistanceKm > 0 && requester.Location != nil && candidate.Location != nil {
		if HaversineDistanceKm(*requester.Location, *candidate.Location) > filters.MaxDistanceKm {
			return false
		}
	}

	if !withinDateRange(candidate.TravelDates, filters.DateFrom, filters.DateTo) {
		return false
	}

	return true
}

// withinDateRange checks the candidate's declared travel window against a
// configured date range. A candidate with absent or unparseable dates
// passes: missing data degrades, it does not exclude.
func withinDateRange(travelDates string, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}

	start, end, ok := parseTravelWindow(travelDates)
	if !ok {
		return true
	}

	if !from.IsZero() && end.Before(from) {
		return false
	}
	if !to.IsZero() && start.After(to) {
		return false
	}
	return true
}

// FilterCandidates returns the candidates surviving every configured
// constraint, the requester's own profile always excluded.
func FilterCandidates(requester *Profile, candidates []*Profile, filters *FilterSettings) []*Profile {
	surviving := make([]*Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if PassesFilters(requester, candidate, filters) {
			surviving = append(surviving, candidate)
		}
	}
	return surviving
}

func sharesAnyTag(tags, wanted []string) bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = true
	}
	for _, w := range wanted {
		if set[strings.ToLower(w)] {
			return true
		}
	}
	return false
}

// mentionsAnyDestination does a case-insensitive substring check against
// the candidate's destination and current city.
func mentionsAnyDestination(candidate *Profile, destinations []string) bool {
	haystack := strings.ToLower(candidate.NextDestination + " " + candidate.CurrentCity)
	for _, dest := range destinations {
		if dest == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(dest)) {
			return true
		}
	}
	return false
}
