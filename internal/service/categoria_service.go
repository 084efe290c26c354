package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/model"
	"github.com/forosuite/foro/internal/repository"
	"github.com/forosuite/foro/pkg/apperror"
	"github.com/forosuite/foro/pkg/slug"
)

type CategoriaService interface {
	GetCategorias(ctx context.Context, incluirInactivas bool) ([]dto.CategoriaResponse, error)
	CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	ActualizarCategoria(ctx context.Context, categoriaID uint, req dto.ActualizarCategoriaRequest) error
	EliminarCategoria(ctx context.Context, categoriaID uint) error
}

type categoriaService struct {
	uowFactory repository.Factory
	logger     *slog.Logger
}

func NewCategoriaService(uowFactory repository.Factory, logger *slog.Logger) CategoriaService {
	return &categoriaService{uowFactory: uowFactory, logger: logger}
}

func (s *categoriaService) GetCategorias(ctx context.Context, incluirInactivas bool) ([]dto.CategoriaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork()

	opts := repository.QueryOptions{Order: "orden ASC, nombre ASC"}
	if !incluirInactivas {
		opts.Where = "activa = ?"
		opts.Args = []any{true}
	}

	categorias, err := uow.Categorias().Query(ctx, opts)
	if err != nil {
		return nil, err
	}

	respuestas := make([]dto.CategoriaResponse, 0, len(categorias))
	for i := range categorias {
		n, err := uow.Temas().Count(ctx, "categoria_id = ?", categorias[i].ID)
		if err != nil {
			return nil, err
		}
		respuestas = append(respuestas, buildCategoriaResponse(&categorias[i], n))
	}
	return respuestas, nil
}

func (s *categoriaService) CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork()

	nombre := strings.TrimSpace(req.Nombre)

	existe, err := uow.Categorias().Exists(ctx, "nombre = ?", nombre)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apperror.New(http.StatusConflict, "ya existe una categoría con ese nombre", apperror.ErrConflict)
	}

	categoria := &model.Categoria{
		Nombre:      nombre,
		Descripcion: strings.TrimSpace(req.Descripcion),
		Slug:        slug.Derivar(nombre),
		Orden:       req.Orden,
		Activa:      true,
	}

	uow.Categorias().Add(categoria)
	if _, err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("categoría creada", "categoria_id", categoria.ID, "nombre", categoria.Nombre)

	resp := buildCategoriaResponse(categoria, 0)
	return &resp, nil
}

func (s *categoriaService) ActualizarCategoria(ctx context.Context, categoriaID uint, req dto.ActualizarCategoriaRequest) error {
	uow := s.uowFactory.NewUnitOfWork()

	categoria, err := uow.Categorias().GetByID(ctx, categoriaID)
	if err != nil {
		return err
	}
	if categoria == nil {
		return apperror.New(http.StatusNotFound, "la categoría no existe", apperror.ErrNotFound)
	}

	if req.Nombre != nil {
		categoria.Nombre = strings.TrimSpace(*req.Nombre)
		categoria.Slug = slug.Derivar(categoria.Nombre)
	}
	if req.Descripcion != nil {
		categoria.Descripcion = strings.TrimSpace(*req.Descripcion)
	}
	if req.Orden != nil {
		categoria.Orden = *req.Orden
	}
	if req.Activa != nil {
		categoria.Activa = *req.Activa
	}

	uow.Categorias().Update(categoria)
	_, err = uow.Commit(ctx)
	return err
}

// EliminarCategoria solo procede cuando la categoría no tiene temas; con temas
// la respuesta es desactivarla.
func (s *categoriaService) EliminarCategoria(ctx context.Context, categoriaID uint) error {
	uow := s.uowFactory.NewUnitOfWork()

	categoria, err := uow.Categorias().GetByID(ctx, categoriaID)
	if err != nil {
		return err
	}
	if categoria == nil {
		return apperror.New(http.StatusNotFound, "la categoría no existe", apperror.ErrNotFound)
	}

	n, err := uow.Temas().Count(ctx, "categoria_id = ?", categoriaID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.New(http.StatusConflict, "la categoría tiene temas; desactívela en su lugar", apperror.ErrConflict)
	}

	uow.Categorias().Delete(categoria)
	_, err = uow.Commit(ctx)
	return err
}

func buildCategoriaResponse(c *model.Categoria, numeroTemas int64) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Slug:        c.Slug,
		Orden:       c.Orden,
		Activa:      c.Activa,
		NumeroTemas: numeroTemas,
	}
}
