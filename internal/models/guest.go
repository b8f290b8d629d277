package models

import (
	"errors"
	"fmt"
	"strings"
)

// Guest represents one entry in the guest list. Records are never edited in
// place; an edit replaces the whole record.
type Guest struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Gender Gender     `json:"gender"`
	Phone  int64      `json:"phone"`
	RSVP   RSVPStatus `json:"rsvp"`
}

// Gender of a guest
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// RSVPStatus represents the response to the invitation
type RSVPStatus string

const (
	RSVPYes   RSVPStatus = "yes"
	RSVPNo    RSVPStatus = "no"
	RSVPMaybe RSVPStatus = "maybe"
)

// Category selects a subset of the guest list by gender or RSVP status.
type Category string

const (
	CategoryAll    Category = "all"
	CategoryMale   Category = Category(GenderMale)
	CategoryFemale Category = Category(GenderFemale)
	CategoryYes    Category = Category(RSVPYes)
	CategoryNo     Category = Category(RSVPNo)
	CategoryMaybe  Category = Category(RSVPMaybe)
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryAll, CategoryMale, CategoryFemale, CategoryYes, CategoryNo, CategoryMaybe,
}

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports guest input that must not be persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Valid reports whether g is a known gender
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Valid reports whether s is a known RSVP status
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return true
	}
	return false
}

// ParseGender accepts "male"/"female" in any case.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	}
	return "", &ValidationError{Field: "gender", Reason: fmt.Sprintf("unknown value %q", s)}
}

// ParseRSVP accepts yes/no/maybe in any case.
func ParseRSVP(s string) (RSVPStatus, error) {
	status := RSVPStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", &ValidationError{Field: "rsvp", Reason: fmt.Sprintf("unknown value %q", s)}
	}
	return status, nil
}

// ParseCategory accepts any category name in any case. An empty string
// means CategoryAll.
func ParseCategory(s string) (Category, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return CategoryAll, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown value %q", s)}
}

// Validate checks the fields a guest needs before it can be stored.
func (g Guest) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if g.Phone == 0 {
		return &ValidationError{Field: "phone", Reason: "must not be zero"}
	}
	if !g.Gender.Valid() {
		return &ValidationError{Field: "gender", Reason: fmt.Sprintf("unknown value %q", g.Gender)}
	}
	if !g.RSVP.Valid() {
		return &ValidationError{Field: "rsvp", Reason: fmt.Sprintf("unknown value %q", g.RSVP)}
	}
	return nil
}
