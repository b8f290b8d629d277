package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"guestlist/internal/models"
)

var (
	ann   = models.Guest{ID: 1, Name: "Ann", Gender: models.GenderFemale, Phone: 5551234, RSVP: models.RSVPYes}
	bob   = models.Guest{ID: 2, Name: "Bob", Gender: models.GenderMale, Phone: 5555678, RSVP: models.RSVPNo}
	carla = models.Guest{ID: 3, Name: "Carla Banner", Gender: models.GenderFemale, Phone: 4441234, RSVP: models.RSVPMaybe}
	dan   = models.Guest{ID: 4, Name: "Dan", Gender: models.GenderMale, Phone: 7770000, RSVP: models.RSVPYes}

	guests = []models.Guest{ann, bob, carla, dan}
)

func TestFilterBySearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []models.Guest
	}{
		{name: "empty query", query: "", want: guests},
		{name: "whitespace query", query: "  \t", want: guests},
		{name: "name case-insensitive", query: "ANN", want: []models.Guest{ann, carla}},
		{name: "phone prefix", query: "555123", want: []models.Guest{ann}},
		{name: "phone suffix shared", query: "1234", want: []models.Guest{ann, carla}},
		{name: "padded query", query: " bob ", want: []models.Guest{bob}},
		{name: "no match", query: "zoe", want: []models.Guest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterBySearch(guests, tt.query)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterBySearch(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestFilterBySearch_EmptyQueryIsIdentity(t *testing.T) {
	for _, q := range []string{"", "a", "555", "nobody"} {
		once := FilterBySearch(guests, q)
		assert.Equal(t, once, FilterBySearch(once, ""), "query %q", q)
	}
}

func TestFilterByCategory(t *testing.T) {
	tests := []struct {
		category models.Category
		want     []models.Guest
	}{
		{category: models.CategoryAll, want: guests},
		{category: models.CategoryMale, want: []models.Guest{bob, dan}},
		{category: models.CategoryFemale, want: []models.Guest{ann, carla}},
		{category: models.CategoryYes, want: []models.Guest{ann, dan}},
		{category: models.CategoryNo, want: []models.Guest{bob}},
		{category: models.CategoryMaybe, want: []models.Guest{carla}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, FilterByCategory(guests, tt.category)); diff != "" {
				t.Errorf("FilterByCategory(%s) mismatch (-want +got):\n%s", tt.category, diff)
			}
		})
	}
}

func TestApply(t *testing.T) {
	got := Apply(guests, "a", models.CategoryFemale)
	assert.Equal(t, []models.Guest{ann, carla}, got)

	got = Apply(guests, "555", models.CategoryNo)
	assert.Equal(t, []models.Guest{bob}, got)

	got = Apply(guests, "", models.CategoryAll)
	assert.Equal(t, guests, got)
}

func TestFiltersDoNotMutateInput(t *testing.T) {
	input := []models.Guest{ann, bob, carla, dan}
	_ = Apply(input, "a", models.CategoryYes)
	assert.Equal(t, guests, input)
}

func TestComputeStatistics(t *testing.T) {
	stats := ComputeStatistics(guests)
	assert.Equal(t, Statistics{Total: 4, Coming: 2, NotComing: 1, Maybe: 1}, stats)
	assert.Equal(t, stats.Total, stats.Coming+stats.NotComing+stats.Maybe)

	assert.Equal(t, Statistics{}, ComputeStatistics(nil))

	subset := FilterByCategory(guests, models.CategoryMale)
	s := ComputeStatistics(subset)
	assert.Equal(t, s.Total, s.Coming+s.NotComing+s.Maybe)
}
