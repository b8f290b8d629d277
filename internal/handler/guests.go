package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"guestlist/internal/models"
	"guestlist/internal/query"
)

// GuestStore is the persistence the handler works against
type GuestStore interface {
	GetAll(ctx context.Context) ([]models.Guest, error)
	Add(ctx context.Context, guest models.Guest) (models.Guest, error)
	DeleteByID(ctx context.Context, id int64) error
	Reset(ctx context.Context) error
}

// GuestInput is raw guest data as typed by the user
type GuestInput struct {
	// ID is optional; zero lets the store assign one.
	ID     int64
	Name   string
	Gender string
	Phone  string
	RSVP   string
}

// ListView is a filtered guest list together with statistics for the
// whole list.
type ListView struct {
	Guests   []models.Guest
	Stats    query.Statistics
	Search   string
	Category models.Category
}

type GuestHandler struct {
	store GuestStore
}

// NewGuestHandler creates a new guest handler
func NewGuestHandler(store GuestStore) *GuestHandler {
	return &GuestHandler{store: store}
}

// Register validates input and adds the guest. Invalid input never reaches
// the store.
func (h *GuestHandler) Register(ctx context.Context, in GuestInput) (models.Guest, error) {
	guest, err := ParseGuest(in)
	if err != nil {
		return models.Guest{}, err
	}

	stored, err := h.store.Add(ctx, guest)
	if err != nil {
		return models.Guest{}, fmt.Errorf("failed to add guest: %w", err)
	}
	return stored, nil
}

// List returns guests matching search and category, in insertion order.
func (h *GuestHandler) List(ctx context.Context, search, category string) (*ListView, error) {
	c, err := models.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	guests, err := h.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load guests: %w", err)
	}

	return &ListView{
		Guests:   query.Apply(guests, search, c),
		Stats:    query.ComputeStatistics(guests),
		Search:   strings.TrimSpace(search),
		Category: c,
	}, nil
}

// Stats returns RSVP statistics for the whole guest list
func (h *GuestHandler) Stats(ctx context.Context) (query.Statistics, error) {
	guests, err := h.store.GetAll(ctx)
	if err != nil {
		return query.Statistics{}, fmt.Errorf("failed to load guests: %w", err)
	}
	return query.ComputeStatistics(guests), nil
}

// Remove deletes every guest with the given ID. Unknown IDs are not an error.
func (h *GuestHandler) Remove(ctx context.Context, id int64) error {
	if err := h.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete guest %d: %w", id, err)
	}
	return nil
}

// RemoveAll clears the guest list
func (h *GuestHandler) RemoveAll(ctx context.Context) error {
	if err := h.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to clear guests: %w", err)
	}
	return nil
}

// ParseGuest turns raw input into a validated guest.
func ParseGuest(in GuestInput) (models.Guest, error) {
	gender, err := models.ParseGender(in.Gender)
	if err != nil {
		return models.Guest{}, err
	}
	rsvp, err := models.ParseRSVP(in.RSVP)
	if err != nil {
		return models.Guest{}, err
	}
	phone, err := ParsePhone(in.Phone)
	if err != nil {
		return models.Guest{}, err
	}

	guest := models.Guest{
		ID:     in.ID,
		Name:   strings.TrimSpace(in.Name),
		Gender: gender,
		Phone:  phone,
		RSVP:   rsvp,
	}
	if err := guest.Validate(); err != nil {
		return models.Guest{}, err
	}
	return guest, nil
}

// ParsePhone strips common separators and parses the digits. Anything that
// is not a number yields zero, which Validate rejects.
func ParsePhone(raw string) (int64, error) {
	phone := strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "").Replace(raw)
	if phone == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(phone, 10, 64)
	if err != nil || n < 0 {
		return 0, &models.ValidationError{Field: "phone", Reason: fmt.Sprintf("%q is not a phone number", raw)}
	}
	return n, nil
}
