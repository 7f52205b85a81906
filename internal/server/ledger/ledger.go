// Package ledger implements the append-only emission ledger persisted as the
// "emissions" document. Entries are never edited or removed; insertion order
// is the only index.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avolkova/ecommute/internal/common"
	"github.com/avolkova/ecommute/internal/server/docstore"
	"github.com/avolkova/ecommute/internal/server/models"
	"github.com/google/uuid"
)

type Ledger struct {
	store docstore.Store
}

func New(store docstore.Store) *Ledger {
	return &Ledger{store: store}
}

// Append adds one entry to the ledger. The record is created on first append;
// a missing record is never an error. Returns the stored entry with its
// server-assigned ID.
func (l *Ledger) Append(ctx context.Context, user string, amount int64, date string) (*models.EmissionEntry, error) {
	entry := models.EmissionEntry{
		ID:     uuid.NewString(),
		User:   user,
		Amount: amount,
		Date:   date,
	}

	err := docstore.Update(ctx, l.store, docstore.KeyEmissions, func(body []byte) ([]byte, error) {
		rec, err := decodeRecord(body)
		if err != nil {
			return nil, err
		}
		rec.Entries = append(rec.Entries, entry)
		return json.Marshal(rec)
	})
	if err != nil {
		return nil, fmt.Errorf("appending emission: %w", err)
	}

	return &entry, nil
}

// EntriesFor returns the entries of one user in ledger order. A user with no
// entries, or a ledger that has never been written, yields an empty slice.
func (l *Ledger) EntriesFor(ctx context.Context, user string) ([]models.EmissionEntry, error) {
	all, err := l.All(ctx)
	if err != nil {
		return nil, err
	}

	entries := []models.EmissionEntry{}
	for _, e := range all {
		if e.User == user {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// All returns every ledger entry in insertion order, or an empty slice when
// the ledger has never been written.
func (l *Ledger) All(ctx context.Context) ([]models.EmissionEntry, error) {
	doc, err := l.store.Get(ctx, docstore.KeyEmissions)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return []models.EmissionEntry{}, nil
		}
		return nil, err
	}

	rec, err := decodeRecord(doc.Body)
	if err != nil {
		return nil, err
	}
	if rec.Entries == nil {
		return []models.EmissionEntry{}, nil
	}
	return rec.Entries, nil
}

func decodeRecord(body []byte) (*models.EmissionRecord, error) {
	rec := &models.EmissionRecord{Schema: models.SchemaVersion}
	if body == nil {
		return rec, nil
	}
	if err := json.Unmarshal(body, rec); err != nil {
		return nil, fmt.Errorf("decoding emissions record: %w", err)
	}
	return rec, nil
}
