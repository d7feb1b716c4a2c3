package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories that share one connection or transaction.
type Store struct {
	db          *gorm.DB
	Templates   *TemplateRepository
	Occurrences *OccurrenceRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Templates:   NewTemplateRepository(db),
		Occurrences: NewOccurrenceRepository(db),
	}
}

// WithTx runs fn inside a transaction. Every repository reached through the
// Store passed to fn uses that transaction; returning an error rolls back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
