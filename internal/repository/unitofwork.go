package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forosuite/foro/internal/model"
	"gorm.io/gorm"
)

var (
	// ErrTransactionOpen is returned by BeginTransaction when the unit of work
	// already holds an open transaction.
	ErrTransactionOpen = errors.New("a transaction is already open")
	// ErrNoTransaction is returned when committing or rolling back without an
	// open transaction.
	ErrNoTransaction = errors.New("no open transaction")
	// ErrStaleUpdate is returned at flush time when a staged Update targets a
	// row that does not exist.
	ErrStaleUpdate = errors.New("update target row does not exist")
)

// UnitOfWork aggregates one repository per entity type over a single database
// session, so staged writes across entity types flush together and an explicit
// transaction spans multiple flushes. Instances are request-scoped and not safe
// for concurrent use.
type UnitOfWork interface {
	Usuarios() Repository[model.Usuario]
	Categorias() Repository[model.Categoria]
	Temas() Repository[model.Tema]
	Mensajes() Repository[model.Mensaje]

	// Commit flushes every staged write, in staging order, as one atomic batch
	// and reports the number of affected rows. Outside an explicit transaction
	// the flush is its own durability boundary; inside one the writes stay
	// revocable until CommitTransaction.
	Commit(ctx context.Context) (int64, error)

	BeginTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
}

// Factory hands out a fresh unit of work per logical operation.
type Factory interface {
	NewUnitOfWork() UnitOfWork
}

type gormFactory struct {
	db *gorm.DB
}

func NewFactory(db *gorm.DB) Factory {
	return &gormFactory{db: db}
}

func (f *gormFactory) NewUnitOfWork() UnitOfWork {
	return &unitOfWork{db: f.db}
}

type opKind int

const (
	opAdd opKind = iota
	opUpdate
	opDelete
)

type pendingOp struct {
	kind   opKind
	entity any
}

type unitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	pending []pendingOp

	usuarios   Repository[model.Usuario]
	categorias Repository[model.Categoria]
	temas      Repository[model.Tema]
	mensajes   Repository[model.Mensaje]
}

// Repository accessors are memoized on first use; every repository shares the
// unit of work's session and staging queue.

func (u *unitOfWork) Usuarios() Repository[model.Usuario] {
	if u.usuarios == nil {
		u.usuarios = newGormRepository[model.Usuario](u)
	}
	return u.usuarios
}

func (u *unitOfWork) Categorias() Repository[model.Categoria] {
	if u.categorias == nil {
		u.categorias = newGormRepository[model.Categoria](u)
	}
	return u.categorias
}

func (u *unitOfWork) Temas() Repository[model.Tema] {
	if u.temas == nil {
		u.temas = newGormRepository[model.Tema](u)
	}
	return u.temas
}

func (u *unitOfWork) Mensajes() Repository[model.Mensaje] {
	if u.mensajes == nil {
		u.mensajes = newGormRepository[model.Mensaje](u)
	}
	return u.mensajes
}

func (u *unitOfWork) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *unitOfWork) stage(kind opKind, entity any) {
	u.pending = append(u.pending, pendingOp{kind: kind, entity: entity})
}

func (u *unitOfWork) Commit(ctx context.Context) (int64, error) {
	if len(u.pending) == 0 {
		return 0, nil
	}

	var affected int64
	flush := func(tx *gorm.DB) error {
		for _, op := range u.pending {
			n, err := applyOp(tx.WithContext(ctx), op)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	}

	var err error
	if u.tx != nil {
		err = flush(u.tx)
	} else {
		err = u.db.Transaction(flush)
	}
	if err != nil {
		return 0, err
	}

	u.pending = nil
	return affected, nil
}

func (u *unitOfWork) BeginTransaction(ctx context.Context) error {
	if u.tx != nil {
		return ErrTransactionOpen
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

// CommitTransaction flushes staged writes and then finalizes the transaction.
// On any failure the transaction is rolled back before the error is returned.
// The open-transaction marker is cleared on every path.
func (u *unitOfWork) CommitTransaction(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}

	if _, err := u.Commit(ctx); err != nil {
		_ = u.RollbackTransaction(ctx)
		return err
	}

	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// RollbackTransaction discards all staged-but-uncommitted changes made since
// BeginTransaction.
func (u *unitOfWork) RollbackTransaction(_ context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}

	err := u.tx.Rollback().Error
	u.tx = nil
	u.pending = nil
	return err
}

func applyOp(db *gorm.DB, op pendingOp) (int64, error) {
	switch op.kind {
	case opAdd:
		res := db.Create(op.entity)
		return res.RowsAffected, res.Error
	case opUpdate:
		res := db.Model(op.entity).Select("*").Updates(op.entity)
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			return 0, ErrStaleUpdate
		}
		return res.RowsAffected, nil
	case opDelete:
		res := db.Delete(op.entity)
		return res.RowsAffected, res.Error
	default:
		return 0, fmt.Errorf("unknown staged operation %d", op.kind)
	}
}
