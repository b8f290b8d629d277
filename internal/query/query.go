// Package query derives filtered views and counts from a guest list that is
// already in memory. Nothing here does I/O or modifies its input.
package query

import (
	"strconv"
	"strings"

	"guestlist/internal/models"
)

// Statistics summarises RSVP responses.
type Statistics struct {
	Total     int `json:"total"`
	Coming    int `json:"coming"`
	NotComing int `json:"not_coming"`
	Maybe     int `json:"maybe"`
}

// FilterBySearch keeps guests whose name contains q (case-insensitive) or
// whose phone number contains q. A blank query returns guests unchanged.
func FilterBySearch(guests []models.Guest, q string) []models.Guest {
	q = strings.TrimSpace(q)
	if q == "" {
		return guests
	}
	needle := strings.ToLower(q)

	return filter(guests, func(g models.Guest) bool {
		return strings.Contains(strings.ToLower(g.Name), needle) ||
			strings.Contains(strconv.FormatInt(g.Phone, 10), q)
	})
}

// FilterByCategory keeps guests matching c on gender or RSVP status.
// CategoryAll and unknown categories return guests unchanged.
func FilterByCategory(guests []models.Guest, c models.Category) []models.Guest {
	switch c {
	case models.CategoryMale, models.CategoryFemale:
		gender := models.Gender(c)
		return filter(guests, func(g models.Guest) bool { return g.Gender == gender })
	case models.CategoryYes, models.CategoryNo, models.CategoryMaybe:
		status := models.RSVPStatus(c)
		return filter(guests, func(g models.Guest) bool { return g.RSVP == status })
	}
	return guests
}

// Apply runs the search first and the category filter second.
func Apply(guests []models.Guest, q string, c models.Category) []models.Guest {
	return FilterByCategory(FilterBySearch(guests, q), c)
}

func ComputeStatistics(guests []models.Guest) Statistics {
	stats := Statistics{Total: len(guests)}
	for _, g := range guests {
		switch g.RSVP {
		case models.RSVPYes:
			stats.Coming++
		case models.RSVPNo:
			stats.NotComing++
		case models.RSVPMaybe:
			stats.Maybe++
		}
	}
	return stats
}

func filter(guests []models.Guest, keep func(models.Guest) bool) []models.Guest {
	result := make([]models.Guest, 0, len(guests))
	for _, g := range guests {
		if keep(g) {
			result = append(result, g)
		}
	}
	return result
}
