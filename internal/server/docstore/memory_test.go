package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/avolkova/ecommute/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), KeyEmissions)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryStore_PutGetRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc := &Document{Key: KeyUsers, Revision: 0, Body: []byte(`{"a":1}`)}
	require.NoError(t, s.Put(ctx, doc))
	assert.Equal(t, int64(1), doc.Revision)

	got, err := s.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Revision)
	assert.JSONEq(t, `{"a":1}`, string(got.Body))
}

func TestMemoryStore_StaleRevisionRejected(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, &Document{Key: KeyUsers, Revision: 0, Body: []byte(`{}`)}))

	// A second writer that read the pre-creation state must not win.
	err := s.Put(ctx, &Document{Key: KeyUsers, Revision: 0, Body: []byte(`{"b":2}`)})
	assert.ErrorIs(t, err, common.ErrorRevisionConflict)

	got, err := s.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(got.Body))
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, &Document{Key: KeyUsers, Revision: 0, Body: []byte(`{"a":1}`)}))

	got, err := s.Get(ctx, KeyUsers)
	require.NoError(t, err)
	got.Body[0] = 'X'

	again, err := s.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(again.Body))
}

func TestUpdate_CreatesAndAppends(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := Update(ctx, s, KeyEmissions, func(body []byte) ([]byte, error) {
		if body != nil {
			t.Fatalf("expected nil body for first write, got %q", body)
		}
		return []byte(`{"n":1}`), nil
	})
	require.NoError(t, err)

	err = Update(ctx, s, KeyEmissions, func(body []byte) ([]byte, error) {
		assert.JSONEq(t, `{"n":1}`, string(body))
		return []byte(`{"n":2}`), nil
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, KeyEmissions)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":2}`, string(got.Body))
	assert.Equal(t, int64(2), got.Revision)
}

func TestUpdate_RetriesOnConflict(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	err := Update(ctx, s, KeyEmissions, func(body []byte) ([]byte, error) {
		calls++
		if calls == 1 {
			// Simulate a concurrent writer landing between our read and write.
			require.NoError(t, s.Put(ctx, &Document{Key: KeyEmissions, Revision: 0, Body: []byte(`{"n":0}`)}))
		}
		return []byte(`{"n":9}`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	got, err := s.Get(ctx, KeyEmissions)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":9}`, string(got.Body))
}

func TestUpdate_PropagatesCallbackError(t *testing.T) {
	s := NewMemoryStore()

	wantErr := errors.New("boom")
	err := Update(context.Background(), s, KeyEmissions, func(body []byte) ([]byte, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
