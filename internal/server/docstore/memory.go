package docstore

import (
	"context"
	"sync"

	"github.com/avolkova/ecommute/internal/common"
)

// MemoryStore is a mutex-guarded in-memory Store with the same revision
// semantics as the PostgreSQL implementation. It backs the standalone server
// mode and the package tests.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]*Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, common.ErrorNotFound
	}

	body := make([]byte, len(doc.Body))
	copy(body, doc.Body)
	return &Document{Key: doc.Key, Revision: doc.Revision, Body: body}, nil
}

func (s *MemoryStore) Put(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if stored, ok := s.docs[doc.Key]; ok {
		current = stored.Revision
	}
	if doc.Revision != current {
		return common.ErrorRevisionConflict
	}

	body := make([]byte, len(doc.Body))
	copy(body, doc.Body)
	s.docs[doc.Key] = &Document{Key: doc.Key, Revision: current + 1, Body: body}
	doc.Revision = current + 1
	return nil
}
