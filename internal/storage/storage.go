package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"guestlist/internal/models"
)

// StorageKey is the single key holding the whole guest list.
const StorageKey = "data"

// KV is the key-value namespace the guest list is persisted in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Storage keeps the guest list as one JSON array under StorageKey. Every
// mutation reads the whole list, changes it in memory and writes it back.
// Nothing is cached between calls and no locking is done; callers must not
// issue writes concurrently.
type Storage struct {
	kv  KV
	log zerolog.Logger
	now func() time.Time

	lastID int64
}

type Option func(*Storage)

// WithLogger sets the logger used to report failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Storage) {
		s.log = logger.With().Str("component", "Storage").Logger()
	}
}

// WithClock replaces time.Now for ID assignment.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// NewStorage creates a guest store on top of kv
func NewStorage(kv KV, opts ...Option) *Storage {
	s := &Storage{
		kv:  kv,
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns every guest in insertion order. A missing blob is an empty
// list, not an error.
func (s *Storage) GetAll(ctx context.Context) ([]models.Guest, error) {
	data, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read guest list")
		return nil, &IOError{Op: "read", Err: err}
	}
	if !ok {
		return []models.Guest{}, nil
	}

	guests, err := decode(data)
	if err != nil {
		s.log.Error().Err(err).Int("bytes", len(data)).Msg("Stored guest list is corrupted")
		return nil, &CorruptionError{Key: StorageKey, Err: err}
	}
	return guests, nil
}

// Add appends guest to the list and persists it. Uniqueness of the ID is not
// checked. A zero ID is replaced with a millisecond timestamp that is
// strictly greater than any ID this Storage issued before.
func (s *Storage) Add(ctx context.Context, guest models.Guest) (models.Guest, error) {
	guests, err := s.GetAll(ctx)
	if err != nil {
		return models.Guest{}, err
	}

	if guest.ID == 0 {
		guest.ID = s.nextID()
	}
	guests = append(guests, guest)

	if err := s.save(ctx, guests); err != nil {
		return models.Guest{}, err
	}
	s.log.Info().Int64("id", guest.ID).Str("name", guest.Name).Msg("Guest added")
	return guest, nil
}

// DeleteByID removes every guest with the given ID. Deleting an unknown ID
// succeeds without touching the stored blob.
func (s *Storage) DeleteByID(ctx context.Context, id int64) error {
	guests, err := s.GetAll(ctx)
	if err != nil {
		return err
	}

	kept := guests[:0]
	for _, g := range guests {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	removed := len(guests) - len(kept)
	if removed == 0 {
		return nil
	}

	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.log.Info().Int64("id", id).Int("removed", removed).Msg("Guest deleted")
	return nil
}

// Reset removes the stored guest list entirely.
func (s *Storage) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		s.log.Error().Err(err).Msg("Failed to reset guest list")
		return &IOError{Op: "delete", Err: err}
	}
	s.log.Info().Msg("Guest list reset")
	return nil
}

func (s *Storage) save(ctx context.Context, guests []models.Guest) error {
	data, err := json.Marshal(guests)
	if err != nil {
		return &IOError{Op: "encode", Err: err}
	}
	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		s.log.Error().Err(err).Int("guests", len(guests)).Msg("Failed to write guest list")
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

func (s *Storage) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// decode parses a stored blob. JSON null counts as an empty list; anything
// that is not an array of well-formed guests is rejected.
func decode(data []byte) ([]models.Guest, error) {
	var guests []models.Guest
	if err := json.Unmarshal(data, &guests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if guests == nil {
		return []models.Guest{}, nil
	}
	for i, g := range guests {
		if !g.Gender.Valid() {
			return nil, fmt.Errorf("guest %d: unknown gender %q", i, g.Gender)
		}
		if !g.RSVP.Valid() {
			return nil, fmt.Errorf("guest %d: unknown rsvp %q", i, g.RSVP)
		}
	}
	return guests, nil
}
