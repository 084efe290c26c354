package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// QueryOptions narrows a repository read. The zero value matches everything.
type QueryOptions struct {
	Where   string
	Args    []any
	Order   string
	Preload []string
	Offset  int
	Limit   int
}

// Repository is the generic read/write surface over one entity collection.
// Reads run immediately against the owning unit of work's current session, so
// inside an open transaction they observe that transaction's snapshot. Writes
// are only staged; nothing reaches the database until the unit of work flushes
// them with Commit.
type Repository[T any] interface {
	// GetByID returns the matching row, or nil without error when none exists.
	GetByID(ctx context.Context, id uint) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	Query(ctx context.Context, opts QueryOptions) ([]T, error)
	Exists(ctx context.Context, query string, args ...any) (bool, error)
	// Count with an empty query counts the whole collection.
	Count(ctx context.Context, query string, args ...any) (int64, error)
	// Add stages an insert. The entity receives its persisted ID at flush time.
	Add(entity *T)
	// Update stages a full-row update of a previously retrieved entity. The
	// flush fails with ErrStaleUpdate if the row no longer exists.
	Update(entity *T)
	Delete(entity *T)
}

type gormRepository[T any] struct {
	uow *unitOfWork
}

func newGormRepository[T any](uow *unitOfWork) *gormRepository[T] {
	return &gormRepository[T]{uow: uow}
}

func (r *gormRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.uow.session().WithContext(ctx).First(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *gormRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	var entities []T
	if err := r.uow.session().WithContext(ctx).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *gormRepository[T]) Query(ctx context.Context, opts QueryOptions) ([]T, error) {
	db := r.uow.session().WithContext(ctx)
	if opts.Where != "" {
		db = db.Where(opts.Where, opts.Args...)
	}
	for _, path := range opts.Preload {
		db = db.Preload(path)
	}
	if opts.Order != "" {
		db = db.Order(opts.Order)
	}
	if opts.Offset > 0 {
		db = db.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		db = db.Limit(opts.Limit)
	}

	var entities []T
	if err := db.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *gormRepository[T]) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	count, err := r.Count(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository[T]) Count(ctx context.Context, query string, args ...any) (int64, error) {
	var entity T
	db := r.uow.session().WithContext(ctx).Model(&entity)
	if query != "" {
		db = db.Where(query, args...)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gormRepository[T]) Add(entity *T)    { r.uow.stage(opAdd, entity) }
func (r *gormRepository[T]) Update(entity *T) { r.uow.stage(opUpdate, entity) }
func (r *gormRepository[T]) Delete(entity *T) { r.uow.stage(opDelete, entity) }
