package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/model"
	"github.com/forosuite/foro/internal/repository"
	"github.com/forosuite/foro/pkg/apperror"
	"github.com/forosuite/foro/pkg/slug"
)

const (
	tituloMin    = 5
	tituloMax    = 200
	contenidoMin = 10
	contenidoMax = 5000
)

type TemaService interface {
	// CrearTema crea un tema junto con su mensaje de apertura en una sola
	// transacción. Nunca devuelve un error de Go para fallos esperados: el
	// resultado etiquetado distingue éxito, validación y error.
	CrearTema(ctx context.Context, cmd dto.CrearTemaCommand) dto.CrearTemaResult
	GetTemas(ctx context.Context, filter dto.TemaFilter) (*dto.PaginatedTemaResponse, error)
	GetTemaPorSlug(ctx context.Context, temaSlug string) (*dto.TemaDetalleResponse, error)
	EditarTema(ctx context.Context, usuarioID, temaID uint, req dto.EditarTemaRequest) error
	EliminarTema(ctx context.Context, usuarioID, temaID uint) error
	CerrarTema(ctx context.Context, temaID uint, cerrado bool) error
	FijarTema(ctx context.Context, temaID uint, fijado bool) error
}

type temaService struct {
	uowFactory repository.Factory
	vistas     VistaService
	logger     *slog.Logger
}

func NewTemaService(uowFactory repository.Factory, vistas VistaService, logger *slog.Logger) TemaService {
	return &temaService{
		uowFactory: uowFactory,
		vistas:     vistas,
		logger:     logger,
	}
}

func (s *temaService) CrearTema(ctx context.Context, cmd dto.CrearTemaCommand) dto.CrearTemaResult {
	if errores := validarCrearTema(cmd); len(errores) > 0 {
		s.logger.Warn("validación fallida al crear tema",
			"errores", strings.Join(errores, "; "))
		return dto.CrearTemaValidacion(errores)
	}

	uow := s.uowFactory.NewUnitOfWork()

	if err := uow.BeginTransaction(ctx); err != nil {
		s.logger.Error("no se pudo iniciar la transacción", "error", err)
		return dto.CrearTemaError("error al crear el tema: " + err.Error())
	}

	// Las referencias se comprueban dentro de la transacción para observar un
	// snapshot consistente.
	categoria, err := uow.Categorias().GetByID(ctx, cmd.CategoriaID)
	if err != nil {
		return s.abortar(ctx, uow, err)
	}
	if categoria == nil || !categoria.Activa {
		s.rollback(ctx, uow)
		s.logger.Warn("categoría inexistente o inactiva", "categoria_id", cmd.CategoriaID)
		return dto.CrearTemaError("la categoría seleccionada no existe o no está activa")
	}

	usuario, err := uow.Usuarios().GetByID(ctx, cmd.UsuarioID)
	if err != nil {
		return s.abortar(ctx, uow, err)
	}
	if usuario == nil || !usuario.Activo {
		s.rollback(ctx, uow)
		s.logger.Warn("usuario inexistente o inactivo", "usuario_id", cmd.UsuarioID)
		return dto.CrearTemaError("el usuario no existe o no está activo")
	}

	ahora := time.Now().UTC()
	contenido := strings.TrimSpace(cmd.Contenido)

	tema := &model.Tema{
		Titulo:               strings.TrimSpace(cmd.Titulo),
		Contenido:            contenido,
		Slug:                 slug.Derivar(cmd.Titulo),
		CategoriaID:          cmd.CategoriaID,
		UsuarioID:            cmd.UsuarioID,
		Fijado:               cmd.Fijado,
		Cerrado:              false,
		NumeroVistas:         0,
		FechaCreacion:        ahora,
		FechaUltimaActividad: ahora,
	}

	// Primer flush: el tema necesita su ID persistido antes de que el mensaje
	// pueda referenciarlo. Sigue dentro de la transacción abierta.
	uow.Temas().Add(tema)
	if _, err := uow.Commit(ctx); err != nil {
		return s.abortar(ctx, uow, err)
	}
	s.logger.Info("tema creado", "tema_id", tema.ID, "titulo", tema.Titulo)

	mensaje := &model.Mensaje{
		TemaID:        tema.ID,
		UsuarioID:     cmd.UsuarioID,
		Contenido:     contenido,
		FechaCreacion: ahora,
	}

	uow.Mensajes().Add(mensaje)
	if _, err := uow.Commit(ctx); err != nil {
		return s.abortar(ctx, uow, err)
	}
	s.logger.Info("primer mensaje creado", "mensaje_id", mensaje.ID, "tema_id", tema.ID)

	if err := uow.CommitTransaction(ctx); err != nil {
		// CommitTransaction ya revirtió la transacción.
		s.logger.Error("error al confirmar la transacción", "error", err)
		return dto.CrearTemaError("error al crear el tema: " + err.Error())
	}

	s.logger.Info("tema y mensaje creados en transacción",
		"tema_id", tema.ID, "mensaje_id", mensaje.ID)
	return dto.CrearTemaExito(tema.ID, mensaje.ID)
}

func (s *temaService) rollback(ctx context.Context, uow repository.UnitOfWork) {
	if err := uow.RollbackTransaction(ctx); err != nil {
		s.logger.Error("rollback fallido", "error", err)
	}
}

func (s *temaService) abortar(ctx context.Context, uow repository.UnitOfWork, err error) dto.CrearTemaResult {
	s.rollback(ctx, uow)
	s.logger.Error("error al crear tema con mensaje", "error", err)
	return dto.CrearTemaError("error al crear el tema: " + err.Error())
}

func validarCrearTema(cmd dto.CrearTemaCommand) []string {
	var errores []string

	if strings.TrimSpace(cmd.Titulo) == "" {
		errores = append(errores, "el título es obligatorio")
	} else if n := utf8.RuneCountInString(cmd.Titulo); n < tituloMin || n > tituloMax {
		errores = append(errores, fmt.Sprintf("el título debe tener entre %d y %d caracteres", tituloMin, tituloMax))
	}

	if strings.TrimSpace(cmd.Contenido) == "" {
		errores = append(errores, "el contenido del mensaje es obligatorio")
	} else if n := utf8.RuneCountInString(cmd.Contenido); n < contenidoMin || n > contenidoMax {
		errores = append(errores, fmt.Sprintf("el contenido debe tener entre %d y %d caracteres", contenidoMin, contenidoMax))
	}

	if cmd.CategoriaID == 0 {
		errores = append(errores, "debe seleccionar una categoría válida")
	}

	if cmd.UsuarioID == 0 {
		errores = append(errores, "el usuario no es válido")
	}

	return errores
}

func (s *temaService) GetTemas(ctx context.Context, filter dto.TemaFilter) (*dto.PaginatedTemaResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	var conds []string
	var args []any
	if filter.CategoriaID != 0 {
		conds = append(conds, "categoria_id = ?")
		args = append(args, filter.CategoriaID)
	}
	if filter.Busqueda != "" {
		conds = append(conds, "(titulo ILIKE ? OR contenido ILIKE ?)")
		patron := "%" + filter.Busqueda + "%"
		args = append(args, patron, patron)
	}
	where := strings.Join(conds, " AND ")

	uow := s.uowFactory.NewUnitOfWork()

	total, err := uow.Temas().Count(ctx, where, args...)
	if err != nil {
		return nil, err
	}

	temas, err := uow.Temas().Query(ctx, repository.QueryOptions{
		Where:   where,
		Args:    args,
		Order:   "fijado DESC, fecha_ultima_actividad DESC",
		Preload: []string{"Categoria", "Usuario"},
		Offset:  (filter.Page - 1) * filter.Limit,
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	respuestas := make([]dto.TemaResponse, 0, len(temas))
	for i := range temas {
		n, err := uow.Mensajes().Count(ctx, "tema_id = ? AND oculto = ?", temas[i].ID, false)
		if err != nil {
			return nil, err
		}
		respuestas = append(respuestas, buildTemaResponse(&temas[i], n))
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return &dto.PaginatedTemaResponse{
		Data: respuestas,
		Meta: dto.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       filter.Limit,
		},
	}, nil
}

func (s *temaService) GetTemaPorSlug(ctx context.Context, temaSlug string) (*dto.TemaDetalleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork()

	temas, err := uow.Temas().Query(ctx, repository.QueryOptions{
		Where:   "slug = ?",
		Args:    []any{temaSlug},
		Order:   "fecha_creacion ASC",
		Preload: []string{"Categoria", "Usuario", "Mensajes", "Mensajes.Usuario"},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(temas) == 0 {
		return nil, apperror.New(http.StatusNotFound, "el tema no existe", apperror.ErrNotFound)
	}
	tema := &temas[0]

	if s.vistas != nil {
		if err := s.vistas.IncrementarVista(ctx, tema.ID); err != nil {
			s.logger.Warn("no se pudo registrar la vista", "tema_id", tema.ID, "error", err)
		}
	}

	detalle := &dto.TemaDetalleResponse{
		TemaResponse: buildTemaResponse(tema, int64(len(tema.Mensajes))),
		Mensajes:     buildArbolMensajes(tema.Mensajes),
	}
	return detalle, nil
}

// EditarTema actualiza título y categoría de un tema del propio autor (o de un
// administrador). El slug se rederiva del título nuevo y la categoría destino
// debe existir y estar activa.
func (s *temaService) EditarTema(ctx context.Context, usuarioID, temaID uint, req dto.EditarTemaRequest) error {
	uow := s.uowFactory.NewUnitOfWork()

	tema, usuario, err := s.temaConAutorizacion(ctx, uow, usuarioID, temaID, "solo puede editar sus propios temas")
	if err != nil {
		return err
	}

	categoria, err := uow.Categorias().GetByID(ctx, req.CategoriaID)
	if err != nil {
		return err
	}
	if categoria == nil || !categoria.Activa {
		return apperror.New(http.StatusUnprocessableEntity, "la categoría seleccionada no existe o no está activa", apperror.ErrInvalidInput)
	}

	tema.Titulo = strings.TrimSpace(req.Titulo)
	tema.Slug = slug.Derivar(req.Titulo)
	tema.CategoriaID = req.CategoriaID

	uow.Temas().Update(tema)
	if _, err := uow.Commit(ctx); err != nil {
		return err
	}

	s.logger.Info("tema editado", "tema_id", temaID, "usuario_id", usuario.ID)
	return nil
}

// EliminarTema borra un tema del propio autor (o de un administrador); los
// mensajes caen con él por la restricción en cascada del modelo.
func (s *temaService) EliminarTema(ctx context.Context, usuarioID, temaID uint) error {
	uow := s.uowFactory.NewUnitOfWork()

	tema, usuario, err := s.temaConAutorizacion(ctx, uow, usuarioID, temaID, "solo puede eliminar sus propios temas")
	if err != nil {
		return err
	}

	uow.Temas().Delete(tema)
	if _, err := uow.Commit(ctx); err != nil {
		return err
	}

	s.logger.Info("tema eliminado", "tema_id", temaID, "usuario_id", usuario.ID)
	return nil
}

func (s *temaService) temaConAutorizacion(ctx context.Context, uow repository.UnitOfWork, usuarioID, temaID uint, mensajeForbidden string) (*model.Tema, *model.Usuario, error) {
	tema, err := uow.Temas().GetByID(ctx, temaID)
	if err != nil {
		return nil, nil, err
	}
	if tema == nil {
		return nil, nil, apperror.New(http.StatusNotFound, "el tema no existe", apperror.ErrNotFound)
	}

	usuario, err := uow.Usuarios().GetByID(ctx, usuarioID)
	if err != nil {
		return nil, nil, err
	}
	if usuario == nil || !usuario.Activo {
		return nil, nil, apperror.New(http.StatusUnprocessableEntity, "el usuario no existe o no está activo", apperror.ErrInvalidInput)
	}
	if tema.UsuarioID != usuarioID && usuario.Rol != model.RolAdministrador {
		return nil, nil, apperror.New(http.StatusForbidden, mensajeForbidden, apperror.ErrForbidden)
	}

	return tema, usuario, nil
}

func (s *temaService) CerrarTema(ctx context.Context, temaID uint, cerrado bool) error {
	return s.actualizarTema(ctx, temaID, func(t *model.Tema) { t.Cerrado = cerrado })
}

func (s *temaService) FijarTema(ctx context.Context, temaID uint, fijado bool) error {
	return s.actualizarTema(ctx, temaID, func(t *model.Tema) { t.Fijado = fijado })
}

func (s *temaService) actualizarTema(ctx context.Context, temaID uint, mutar func(*model.Tema)) error {
	uow := s.uowFactory.NewUnitOfWork()

	tema, err := uow.Temas().GetByID(ctx, temaID)
	if err != nil {
		return err
	}
	if tema == nil {
		return apperror.New(http.StatusNotFound, "el tema no existe", apperror.ErrNotFound)
	}

	mutar(tema)
	uow.Temas().Update(tema)
	_, err = uow.Commit(ctx)
	return err
}
