// Package memory implements the content repositories over process memory.
// It backs the test suite and DATABASE_DRIVER=memory.
package memory

import (
	"context"
	"log/slog"
	"sync"

	models "folio/internal/domain/models/content"
	"folio/internal/domain/repositories"
)

// Store holds every table behind one mutex. Transactions hold the mutex for
// their whole duration and restore a copy of the state when fn fails.
type Store struct {
	mu     sync.Mutex
	data   *state
	logger *slog.Logger
}

type state struct {
	articles    map[string]models.Article // Without Tags and Chapters
	chapters    map[string]models.Chapter // Without Sections
	sections    map[string]models.Section
	tags        map[string]models.Tag
	tagBySlug   map[string]string
	articleTags map[string][]string // article id -> tag ids in link order
	revisions   map[string][]models.Revision
}

func newState() *state {
	return &state{
		articles:    make(map[string]models.Article),
		chapters:    make(map[string]models.Chapter),
		sections:    make(map[string]models.Section),
		tags:        make(map[string]models.Tag),
		tagBySlug:   make(map[string]string),
		articleTags: make(map[string][]string),
		revisions:   make(map[string][]models.Revision),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.articles {
		c.articles[k] = v
	}
	for k, v := range s.chapters {
		c.chapters[k] = v
	}
	for k, v := range s.sections {
		c.sections[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k, v := range s.tagBySlug {
		c.tagBySlug[k] = v
	}
	for k, v := range s.articleTags {
		c.articleTags[k] = append([]string(nil), v...)
	}
	for k, v := range s.revisions {
		c.revisions[k] = append([]models.Revision(nil), v...)
	}
	return c
}

// NewStore creates an empty store
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{data: newState(), logger: logger}
}

type txMarker struct{}

// lock acquires the store mutex unless ctx already runs inside one of this
// store's transactions
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txMarker{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// TransactionManager implements repositories.TransactionManager for the store
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager bound to store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx runs fn with exclusive access to the store. Any error restores the
// state from before the call.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	s := tm.store
	if owner, ok := ctx.Value(txMarker{}).(*Store); ok && owner == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.data.clone()
	if err := fn(context.WithValue(ctx, txMarker{}, s)); err != nil {
		s.data = backup
		return err
	}
	return nil
}

// inTx reports whether ctx runs inside one of this store's transactions
func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txMarker{}).(*Store)
	return ok && owner == s
}
