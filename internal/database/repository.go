package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound indicates the requested entity was not found.
var ErrNotFound = errors.New("entity not found")

// EntityMapper maps between domain values and database models.
type EntityMapper[D any, E any] interface {
	ToDomain(entity E) D
	ToModel(domain D) E
}

// Repository provides generic persistence operations over one model type.
type Repository[D any, E any] struct {
	db     Database
	mapper EntityMapper[D, E]
	label  string
}

// NewRepository creates a new Repository.
func NewRepository[D any, E any](db Database, mapper EntityMapper[D, E], label string) Repository[D, E] {
	return Repository[D, E]{
		db:     db,
		mapper: mapper,
		label:  label,
	}
}

// Find retrieves entities matching q.
func (r Repository[D, E]) Find(ctx context.Context, q Query) ([]D, error) {
	var entities []E
	if err := q.Apply(r.db.Session(ctx).Model(new(E))).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("find %s: %w", r.label, err)
	}

	domains := make([]D, len(entities))
	for i, entity := range entities {
		domains[i] = r.mapper.ToDomain(entity)
	}
	return domains, nil
}

// FindOne retrieves the first entity matching q.
func (r Repository[D, E]) FindOne(ctx context.Context, q Query) (D, error) {
	var (
		entity E
		zero   D
	)
	err := q.Apply(r.db.Session(ctx)).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, r.label)
	}
	if err != nil {
		return zero, fmt.Errorf("find one %s: %w", r.label, err)
	}
	return r.mapper.ToDomain(entity), nil
}

// Exists reports whether any entity matches q.
func (r Repository[D, E]) Exists(ctx context.Context, q Query) (bool, error) {
	n, err := r.Count(ctx, q)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of entities matching q.
func (r Repository[D, E]) Count(ctx context.Context, q Query) (int64, error) {
	var count int64
	if err := q.ApplyConditions(r.db.Session(ctx).Model(new(E))).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", r.label, err)
	}
	return count, nil
}

// DeleteBy removes entities matching q. An empty query removes every row.
func (r Repository[D, E]) DeleteBy(ctx context.Context, q Query) error {
	return r.DeleteByTx(r.db.Session(ctx), q)
}

// DeleteByTx is DeleteBy inside an existing transaction.
func (r Repository[D, E]) DeleteByTx(tx *gorm.DB, q Query) error {
	if len(q.filters) == 0 {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	if err := q.ApplyConditions(tx).Delete(new(E)).Error; err != nil {
		return fmt.Errorf("delete %s: %w", r.label, err)
	}
	return nil
}

// CreateTx inserts domain values inside an existing transaction.
func (r Repository[D, E]) CreateTx(tx *gorm.DB, values []D) error {
	if len(values) == 0 {
		return nil
	}
	entities := make([]E, len(values))
	for i, v := range values {
		entities[i] = r.mapper.ToModel(v)
	}
	if err := tx.Create(&entities).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.label, err)
	}
	return nil
}

// Mapper returns the entity mapper.
func (r Repository[D, E]) Mapper() EntityMapper[D, E] {
	return r.mapper
}
