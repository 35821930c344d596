package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// ProfileRepository implements ports.ProfileRepository on memdb.
type ProfileRepository struct {
	db *memdb.MemDB
}

func profileID(raw interface{}) string { return raw.(*domain.Profile).ID }

func copyProfile(raw interface{}) *domain.Profile {
	c := *raw.(*domain.Profile)
	return &c
}

func (r *ProfileRepository) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	return r.first(indexEmail, email)
}

func (r *ProfileRepository) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	return r.first(indexID, id)
}

func (r *ProfileRepository) first(index, value string) (*domain.Profile, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableProfiles, index, value)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if raw == nil {
		return nil, domain.ErrNotFound
	}
	return copyProfile(raw), nil
}

func (r *ProfileRepository) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	rec := *p
	rec.ID = uuid.NewString()
	return r.write(&rec, false)
}

func (r *ProfileRepository) Update(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	rec := *p
	return r.write(&rec, true)
}

func (r *ProfileRepository) write(rec *domain.Profile, mustExist bool) (*domain.Profile, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if mustExist {
		existing, err := txn.First(tableProfiles, indexID, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("find profile: %w", err)
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
	}

	unique := []struct {
		index, field, value string
	}{
		{indexEmail, "email", rec.Email},
		{indexRFC, domain.FieldRFC, rec.RFC},
		{indexCURP, domain.FieldCURP, rec.CURP},
	}
	for _, u := range unique {
		dup, err := taken(txn, tableProfiles, u.index, u.value, rec.ID, profileID)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, &domain.DuplicateKeyError{Field: u.field}
		}
	}

	if err := txn.Insert(tableProfiles, rec); err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	txn.Commit()
	return copyProfile(rec), nil
}

func (r *ProfileRepository) Delete(_ context.Context, id string) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableProfiles, indexID, id)
	if err != nil {
		return fmt.Errorf("find profile: %w", err)
	}
	if raw == nil {
		return domain.ErrNotFound
	}
	if err := txn.Delete(tableProfiles, raw); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	txn.Commit()
	return nil
}

func (r *ProfileRepository) List(_ context.Context, offset, limit int) ([]*domain.Profile, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableProfiles, indexID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var all []*domain.Profile
	for raw := it.Next(); raw != nil; raw = it.Next() {
		all = append(all, copyProfile(raw))
	}
	return window(all, func(p *domain.Profile) (time.Time, string) { return p.CreatedAt, p.ID }, offset, limit), nil
}
