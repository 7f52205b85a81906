// Package creds implements the credential store persisted as the "users"
// document: an ordered list of username/password records, lazily created on
// first write.
//
// Username uniqueness is enforced only by callers checking Exists before
// Create; the store itself appends unconditionally. Two concurrent creators
// can therefore leave two records for the same username (the inherited
// check-then-create race). Verify and ChangePassword tolerate duplicates.
package creds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avolkova/ecommute/internal/common"
	"github.com/avolkova/ecommute/internal/server/docstore"
	"github.com/avolkova/ecommute/internal/server/models"
)

type Store struct {
	store  docstore.Store
	hasher Hasher
}

func New(store docstore.Store, hasher Hasher) *Store {
	return &Store{store: store, hasher: hasher}
}

// Exists reports whether a record with the given username is present.
// A users document that has never been written means no user exists.
func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range rec.Users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Create appends a new credential record. It performs no uniqueness check of
// its own; callers are expected to consult Exists first.
func (s *Store) Create(ctx context.Context, username, password string) error {
	stored, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	err = docstore.Update(ctx, s.store, docstore.KeyUsers, func(body []byte) ([]byte, error) {
		rec, err := decodeRecord(body)
		if err != nil {
			return nil, err
		}
		rec.Users = append(rec.Users, models.Credential{Username: username, Password: stored})
		return json.Marshal(rec)
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Remove deletes every record with the given username. It does not verify
// the password; callers are expected to call Verify first.
func (s *Store) Remove(ctx context.Context, username string) error {
	err := docstore.Update(ctx, s.store, docstore.KeyUsers, func(body []byte) ([]byte, error) {
		rec, err := decodeRecord(body)
		if err != nil {
			return nil, err
		}
		kept := rec.Users[:0]
		for _, u := range rec.Users {
			if u.Username != username {
				kept = append(kept, u)
			}
		}
		rec.Users = kept
		return json.Marshal(rec)
	})
	if err != nil {
		return fmt.Errorf("removing user: %w", err)
	}
	return nil
}

// ChangePassword overwrites the password of every record with the given
// username (there should be exactly one).
func (s *Store) ChangePassword(ctx context.Context, username, newPassword string) error {
	stored, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	err = docstore.Update(ctx, s.store, docstore.KeyUsers, func(body []byte) ([]byte, error) {
		rec, err := decodeRecord(body)
		if err != nil {
			return nil, err
		}
		for i := range rec.Users {
			if rec.Users[i].Username == username {
				rec.Users[i].Password = stored
			}
		}
		return json.Marshal(rec)
	})
	if err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return nil
}

// Verify reports whether some record matches both the username and the
// password. A users document that has never been written verifies nothing.
func (s *Store) Verify(ctx context.Context, username, password string) (bool, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range rec.Users {
		if u.Username == username && s.hasher.Compare(u.Password, password) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) load(ctx context.Context) (*models.UserRecord, error) {
	doc, err := s.store.Get(ctx, docstore.KeyUsers)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &models.UserRecord{Schema: models.SchemaVersion}, nil
		}
		return nil, err
	}
	return decodeRecord(doc.Body)
}

func decodeRecord(body []byte) (*models.UserRecord, error) {
	rec := &models.UserRecord{Schema: models.SchemaVersion}
	if body == nil {
		return rec, nil
	}
	if err := json.Unmarshal(body, rec); err != nil {
		return nil, fmt.Errorf("decoding users record: %w", err)
	}
	return rec, nil
}
