package service

import (
	"context"
	"sort"

	"github.com/forosuite/foro/internal/model"
	"github.com/forosuite/foro/internal/repository"
)

// fakeFactory reparte siempre el mismo unit of work para poder inspeccionar su
// estado después de la operación bajo prueba.
type fakeFactory struct {
	uow *fakeUoW
}

func (f *fakeFactory) NewUnitOfWork() repository.UnitOfWork { return f.uow }

// fakeUoW implementa repository.UnitOfWork en memoria con la misma semántica
// de staging: los writes quedan pendientes hasta Commit y el rollback los
// deshace mediante un journal.
type fakeUoW struct {
	usuarios   *fakeRepo[model.Usuario]
	categorias *fakeRepo[model.Categoria]
	temas      *fakeRepo[model.Tema]
	mensajes   *fakeRepo[model.Mensaje]

	txOpen  bool
	begins  int
	pending []func() error
	undo    []func()
}

func newFakeUoW() *fakeUoW {
	u := &fakeUoW{}
	u.usuarios = newFakeRepo(u, func(e *model.Usuario) *uint { return &e.ID })
	u.categorias = newFakeRepo(u, func(e *model.Categoria) *uint { return &e.ID })
	u.temas = newFakeRepo(u, func(e *model.Tema) *uint { return &e.ID })
	u.mensajes = newFakeRepo(u, func(e *model.Mensaje) *uint { return &e.ID })
	return u
}

func (u *fakeUoW) Usuarios() repository.Repository[model.Usuario]     { return u.usuarios }
func (u *fakeUoW) Categorias() repository.Repository[model.Categoria] { return u.categorias }
func (u *fakeUoW) Temas() repository.Repository[model.Tema]           { return u.temas }
func (u *fakeUoW) Mensajes() repository.Repository[model.Mensaje]     { return u.mensajes }

func (u *fakeUoW) Commit(_ context.Context) (int64, error) {
	var affected int64
	for _, op := range u.pending {
		if err := op(); err != nil {
			return 0, err
		}
		affected++
	}
	u.pending = nil
	if !u.txOpen {
		// Sin transacción abierta el flush es definitivo.
		u.undo = nil
	}
	return affected, nil
}

func (u *fakeUoW) BeginTransaction(_ context.Context) error {
	if u.txOpen {
		return repository.ErrTransactionOpen
	}
	u.begins++
	u.txOpen = true
	return nil
}

func (u *fakeUoW) CommitTransaction(ctx context.Context) error {
	if !u.txOpen {
		return repository.ErrNoTransaction
	}
	if _, err := u.Commit(ctx); err != nil {
		_ = u.RollbackTransaction(ctx)
		return err
	}
	u.txOpen = false
	u.undo = nil
	return nil
}

func (u *fakeUoW) RollbackTransaction(_ context.Context) error {
	if !u.txOpen {
		return repository.ErrNoTransaction
	}
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.undo = nil
	u.pending = nil
	u.txOpen = false
	return nil
}

type fakeRepo[T any] struct {
	uow  *fakeUoW
	rows map[uint]T
	seq  uint
	idOf func(*T) *uint

	// addErr hace fallar el flush del próximo Add; simula un fallo de
	// almacenamiento en el insert.
	addErr error
	// match filtra Query cuando la prueba necesita un predicado concreto.
	match func(e T, opts repository.QueryOptions) bool
	// cuenta filtra Count/Exists; sin él se cuenta toda la colección.
	cuenta func(e T, query string, args ...any) bool
}

func newFakeRepo[T any](uow *fakeUoW, idOf func(*T) *uint) *fakeRepo[T] {
	return &fakeRepo[T]{uow: uow, rows: make(map[uint]T), idOf: idOf}
}

func (r *fakeRepo[T]) seed(e T) {
	id := *r.idOf(&e)
	r.rows[id] = e
	if id > r.seq {
		r.seq = id
	}
}

func (r *fakeRepo[T]) GetByID(_ context.Context, id uint) (*T, error) {
	e, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := e
	return &cp, nil
}

func (r *fakeRepo[T]) GetAll(_ context.Context) ([]T, error) {
	return r.ordered(), nil
}

func (r *fakeRepo[T]) Query(_ context.Context, opts repository.QueryOptions) ([]T, error) {
	all := r.ordered()
	if opts.Where == "" || r.match == nil {
		return all, nil
	}
	var out []T
	for _, e := range all {
		if r.match(e, opts) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRepo[T]) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	n, err := r.Count(ctx, query, args...)
	return n > 0, err
}

func (r *fakeRepo[T]) Count(_ context.Context, query string, args ...any) (int64, error) {
	if query == "" || r.cuenta == nil {
		return int64(len(r.rows)), nil
	}
	var n int64
	for _, e := range r.rows {
		if r.cuenta(e, query, args...) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo[T]) Add(e *T) {
	r.uow.pending = append(r.uow.pending, func() error {
		if r.addErr != nil {
			return r.addErr
		}
		r.seq++
		id := r.seq
		*r.idOf(e) = id
		r.rows[id] = *e
		r.uow.undo = append(r.uow.undo, func() { delete(r.rows, id) })
		return nil
	})
}

func (r *fakeRepo[T]) Update(e *T) {
	r.uow.pending = append(r.uow.pending, func() error {
		id := *r.idOf(e)
		prev, ok := r.rows[id]
		if !ok {
			return repository.ErrStaleUpdate
		}
		r.rows[id] = *e
		r.uow.undo = append(r.uow.undo, func() { r.rows[id] = prev })
		return nil
	})
}

func (r *fakeRepo[T]) Delete(e *T) {
	r.uow.pending = append(r.uow.pending, func() error {
		id := *r.idOf(e)
		prev, ok := r.rows[id]
		if !ok {
			return nil
		}
		delete(r.rows, id)
		r.uow.undo = append(r.uow.undo, func() { r.rows[id] = prev })
		return nil
	})
}

func (r *fakeRepo[T]) ordered() []T {
	ids := make([]uint, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.rows[id])
	}
	return out
}
