package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// OperatorRepository implements ports.OperatorRepository on memdb.
type OperatorRepository struct {
	db *memdb.MemDB
}

func operatorID(raw interface{}) string { return raw.(*domain.Operator).ID }

func copyOperator(raw interface{}) *domain.Operator {
	c := *raw.(*domain.Operator)
	return &c
}

func (r *OperatorRepository) FindByEmail(_ context.Context, email string) (*domain.Operator, error) {
	return r.first(indexEmail, email)
}

func (r *OperatorRepository) FindByID(_ context.Context, id string) (*domain.Operator, error) {
	return r.first(indexID, id)
}

func (r *OperatorRepository) first(index, value string) (*domain.Operator, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableOperators, index, value)
	if err != nil {
		return nil, fmt.Errorf("find operator: %w", err)
	}
	if raw == nil {
		return nil, domain.ErrNotFound
	}
	return copyOperator(raw), nil
}

func (r *OperatorRepository) Create(_ context.Context, op *domain.Operator) (*domain.Operator, error) {
	rec := *op
	rec.ID = uuid.NewString()
	return r.write(&rec, false)
}

func (r *OperatorRepository) Update(_ context.Context, op *domain.Operator) (*domain.Operator, error) {
	rec := *op
	return r.write(&rec, true)
}

func (r *OperatorRepository) write(rec *domain.Operator, mustExist bool) (*domain.Operator, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if mustExist {
		existing, err := txn.First(tableOperators, indexID, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("find operator: %w", err)
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
	}

	dup, err := taken(txn, tableOperators, indexEmail, rec.Email, rec.ID, operatorID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, &domain.DuplicateKeyError{Field: "email"}
	}

	if err := txn.Insert(tableOperators, rec); err != nil {
		return nil, fmt.Errorf("insert operator: %w", err)
	}
	txn.Commit()
	return copyOperator(rec), nil
}

func (r *OperatorRepository) Delete(_ context.Context, id string) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableOperators, indexID, id)
	if err != nil {
		return fmt.Errorf("find operator: %w", err)
	}
	if raw == nil {
		return domain.ErrNotFound
	}
	if err := txn.Delete(tableOperators, raw); err != nil {
		return fmt.Errorf("delete operator: %w", err)
	}
	txn.Commit()
	return nil
}

func (r *OperatorRepository) List(_ context.Context, offset, limit int) ([]*domain.Operator, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableOperators, indexID)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	var all []*domain.Operator
	for raw := it.Next(); raw != nil; raw = it.Next() {
		all = append(all, copyOperator(raw))
	}
	return window(all, func(o *domain.Operator) (time.Time, string) { return o.CreatedAt, o.ID }, offset, limit), nil
}
