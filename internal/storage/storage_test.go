package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestlist/internal/models"
	"guestlist/internal/securestore"
)

type memoryKV struct {
	values  map[string][]byte
	getErr  error
	setErr  error
	delErr  error
	setCall int
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string][]byte)}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value []byte) error {
	m.setCall++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.values, key)
	return nil
}

var (
	ann = models.Guest{ID: 1, Name: "Ann", Gender: models.GenderFemale, Phone: 5551234, RSVP: models.RSVPYes}
	bob = models.Guest{ID: 2, Name: "Bob", Gender: models.GenderMale, Phone: 5555678, RSVP: models.RSVPNo}
)

func TestStorage_GetAllEmpty(t *testing.T) {
	s := NewStorage(newMemoryKV())

	guests, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, guests)
	assert.Empty(t, guests)
}

func TestStorage_AddKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	s := NewStorage(kv)

	_, err := s.Add(ctx, ann)
	require.NoError(t, err)
	_, err = s.Add(ctx, bob)
	require.NoError(t, err)

	guests, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Guest{ann, bob}, guests)
	assert.JSONEq(t,
		`[{"id":1,"name":"Ann","gender":"Female","phone":5551234,"rsvp":"yes"},
		  {"id":2,"name":"Bob","gender":"Male","phone":5555678,"rsvp":"no"}]`,
		string(kv.values[StorageKey]))
}

func TestStorage_AddDoesNotCheckCollisions(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(newMemoryKV())

	_, err := s.Add(ctx, ann)
	require.NoError(t, err)
	_, err = s.Add(ctx, ann)
	require.NoError(t, err)

	guests, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, guests, 2)

	require.NoError(t, s.DeleteByID(ctx, ann.ID))
	guests, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, guests)
}

func TestStorage_AddAssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	fixed := time.UnixMilli(1_700_000_000_000)
	s := NewStorage(newMemoryKV(), WithClock(func() time.Time { return fixed }))

	g := ann
	g.ID = 0
	first, err := s.Add(ctx, g)
	require.NoError(t, err)
	second, err := s.Add(ctx, g)
	require.NoError(t, err)

	assert.Equal(t, fixed.UnixMilli(), first.ID)
	assert.Equal(t, fixed.UnixMilli()+1, second.ID)

	kept, err := s.Add(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, kept.ID)
}

func TestStorage_DeleteByID(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	s := NewStorage(kv)

	_, err := s.Add(ctx, ann)
	require.NoError(t, err)
	_, err = s.Add(ctx, bob)
	require.NoError(t, err)

	require.NoError(t, s.DeleteByID(ctx, ann.ID))
	guests, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Guest{bob}, guests)

	// second delete is a no-op
	writes := kv.setCall
	require.NoError(t, s.DeleteByID(ctx, ann.ID))
	assert.Equal(t, writes, kv.setCall)
	guests, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Guest{bob}, guests)
}

func TestStorage_DeleteUnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(newMemoryKV())
	_, err := s.Add(ctx, ann)
	require.NoError(t, err)
	_, err = s.Add(ctx, bob)
	require.NoError(t, err)

	require.NoError(t, s.DeleteByID(ctx, 999))

	guests, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Guest{ann, bob}, guests)
}

func TestStorage_Corruption(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: "{{{"},
		{name: "object instead of array", blob: `{"id":1}`},
		{name: "wrong field type", blob: `[{"id":"one","name":"Ann","gender":"Female","phone":1,"rsvp":"yes"}]`},
		{name: "unknown rsvp", blob: `[{"id":1,"name":"Ann","gender":"Female","phone":1,"rsvp":"later"}]`},
		{name: "unknown gender", blob: `[{"id":1,"name":"Ann","gender":"x","phone":1,"rsvp":"yes"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := newMemoryKV()
			kv.values[StorageKey] = []byte(tt.blob)
			s := NewStorage(kv)

			_, err := s.GetAll(ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStorageCorruption)
			var cErr *CorruptionError
			require.True(t, errors.As(err, &cErr))
			assert.Equal(t, StorageKey, cErr.Key)

			// writes refuse to overwrite the corrupted blob
			_, err = s.Add(ctx, ann)
			assert.ErrorIs(t, err, ErrStorageCorruption)
			assert.ErrorIs(t, s.DeleteByID(ctx, 1), ErrStorageCorruption)
			assert.Equal(t, tt.blob, string(kv.values[StorageKey]))
		})
	}
}

func TestStorage_NullBlobIsEmpty(t *testing.T) {
	kv := newMemoryKV()
	kv.values[StorageKey] = []byte("null")

	guests, err := NewStorage(kv).GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, guests)
}

func TestStorage_IOErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk unavailable")

	kv := newMemoryKV()
	kv.getErr = boom
	s := NewStorage(kv)

	_, err := s.GetAll(ctx)
	assert.ErrorIs(t, err, ErrStorageIO)
	assert.ErrorIs(t, err, boom)
	_, err = s.Add(ctx, ann)
	assert.ErrorIs(t, err, ErrStorageIO)

	kv.getErr = nil
	kv.setErr = boom
	_, err = s.Add(ctx, ann)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)

	kv.delErr = boom
	assert.ErrorIs(t, s.Reset(ctx), ErrStorageIO)
}

func TestStorage_Reset(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(newMemoryKV())
	_, err := s.Add(ctx, ann)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))
	guests, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, guests)
}

func TestStorage_SecureStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "guests.db")

	kv, err := securestore.New(ctx, &securestore.Config{Path: path, Passphrase: "secret"})
	require.NoError(t, err)
	s := NewStorage(kv)
	_, err = s.Add(ctx, ann)
	require.NoError(t, err)
	_, err = s.Add(ctx, bob)
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	kv, err = securestore.New(ctx, &securestore.Config{Path: path, Passphrase: "secret"})
	require.NoError(t, err)
	defer kv.Close()
	s = NewStorage(kv)

	guests, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Guest{ann, bob}, guests)

	require.NoError(t, s.DeleteByID(ctx, ann.ID))
	guests, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Guest{bob}, guests)
}
