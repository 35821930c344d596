// Package memory is an in-process record store built on go-memdb. Writes are
// serialised by memdb's single-writer transactions, which is what makes the
// unique checks below atomic.
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-memdb"
)

const (
	tableOperators = "operators"
	tableProfiles  = "profiles"

	indexID    = "id"
	indexEmail = "email"
	indexRFC   = "rfc"
	indexCURP  = "curp"
)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableOperators: {
				Name: tableOperators,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					indexEmail: {
						Name:    indexEmail,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email"},
					},
				},
			},
			tableProfiles: {
				Name: tableProfiles,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					indexEmail: {
						Name:    indexEmail,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email"},
					},
					indexRFC: {
						Name:         indexRFC,
						Unique:       true,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "RFC"},
					},
					indexCURP: {
						Name:         indexCURP,
						Unique:       true,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "CURP"},
					},
				},
			},
		},
	}
}

// Store owns the memdb instance shared by both repositories.
type Store struct {
	db *memdb.MemDB
}

func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memdb: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Operators() *OperatorRepository { return &OperatorRepository{db: s.db} }
func (s *Store) Profiles() *ProfileRepository   { return &ProfileRepository{db: s.db} }

// Ping always succeeds; it lets the store stand in for a remote one in
// readiness checks.
func (s *Store) Ping(context.Context) error { return nil }

// taken reports whether value is indexed by a record other than selfID.
// Empty values are never taken.
func taken(txn *memdb.Txn, table, index, value, selfID string, idOf func(interface{}) string) (bool, error) {
	if value == "" {
		return false, nil
	}
	raw, err := txn.First(table, index, value)
	if err != nil {
		return false, fmt.Errorf("memdb lookup %s.%s: %w", table, index, err)
	}
	return raw != nil && idOf(raw) != selfID, nil
}

// window sorts records by creation and returns [offset, offset+limit).
func window[T any](items []T, created func(T) (time.Time, string), offset, limit int) []T {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := created(items[i])
		tj, idj := created(items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
