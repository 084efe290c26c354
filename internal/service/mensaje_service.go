package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/model"
	"github.com/forosuite/foro/internal/repository"
	"github.com/forosuite/foro/pkg/apperror"
)

type MensajeService interface {
	CrearMensaje(ctx context.Context, cmd dto.CrearMensajeCommand) (*dto.MensajeResponse, error)
	GetMensajesPorTema(ctx context.Context, temaID uint) ([]dto.MensajeResponse, error)
	EditarMensaje(ctx context.Context, usuarioID, mensajeID uint, contenido string) error
	OcultarMensaje(ctx context.Context, mensajeID uint, razon string) error
	DarMeGusta(ctx context.Context, mensajeID uint) error
}

type mensajeService struct {
	uowFactory repository.Factory
	logger     *slog.Logger
}

func NewMensajeService(uowFactory repository.Factory, logger *slog.Logger) MensajeService {
	return &mensajeService{uowFactory: uowFactory, logger: logger}
}

// CrearMensaje registra una respuesta en un tema abierto. El mensaje nuevo y la
// actualización de actividad del tema se descargan en un solo flush atómico.
func (s *mensajeService) CrearMensaje(ctx context.Context, cmd dto.CrearMensajeCommand) (*dto.MensajeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork()

	usuario, err := uow.Usuarios().GetByID(ctx, cmd.UsuarioID)
	if err != nil {
		return nil, err
	}
	if usuario == nil || !usuario.Activo {
		return nil, apperror.New(http.StatusUnprocessableEntity, "el usuario no existe o no está activo", apperror.ErrInvalidInput)
	}

	tema, err := uow.Temas().GetByID(ctx, cmd.TemaID)
	if err != nil {
		return nil, err
	}
	if tema == nil {
		return nil, apperror.New(http.StatusNotFound, "el tema no existe", apperror.ErrNotFound)
	}
	if tema.Cerrado {
		return nil, apperror.New(http.StatusConflict, "el tema está cerrado y no admite respuestas", apperror.ErrConflict)
	}

	if cmd.MensajePadreID != nil {
		padre, err := uow.Mensajes().GetByID(ctx, *cmd.MensajePadreID)
		if err != nil {
			return nil, err
		}
		if padre == nil {
			return nil, apperror.New(http.StatusNotFound, "el mensaje al que responde no existe", apperror.ErrNotFound)
		}
		if padre.TemaID != cmd.TemaID {
			return nil, apperror.New(http.StatusUnprocessableEntity, "el mensaje al que responde pertenece a otro tema", apperror.ErrInvalidInput)
		}
	}

	ahora := time.Now().UTC()
	mensaje := &model.Mensaje{
		TemaID:         cmd.TemaID,
		UsuarioID:      cmd.UsuarioID,
		Contenido:      strings.TrimSpace(cmd.Contenido),
		MensajePadreID: cmd.MensajePadreID,
		FechaCreacion:  ahora,
	}
	tema.FechaUltimaActividad = ahora

	uow.Mensajes().Add(mensaje)
	uow.Temas().Update(tema)
	if _, err := uow.Commit(ctx); err != nil {
		s.logger.Error("error al crear mensaje", "tema_id", cmd.TemaID, "error", err)
		return nil, err
	}

	s.logger.Info("mensaje creado", "mensaje_id", mensaje.ID, "tema_id", cmd.TemaID)

	mensaje.Usuario = *usuario
	resp := buildMensajeResponse(mensaje)
	return &resp, nil
}

func (s *mensajeService) GetMensajesPorTema(ctx context.Context, temaID uint) ([]dto.MensajeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork()

	tema, err := uow.Temas().GetByID(ctx, temaID)
	if err != nil {
		return nil, err
	}
	if tema == nil {
		return nil, apperror.New(http.StatusNotFound, "el tema no existe", apperror.ErrNotFound)
	}

	mensajes, err := uow.Mensajes().Query(ctx, repository.QueryOptions{
		Where:   "tema_id = ?",
		Args:    []any{temaID},
		Order:   "fecha_creacion ASC",
		Preload: []string{"Usuario"},
	})
	if err != nil {
		return nil, err
	}

	return buildArbolMensajes(mensajes), nil
}

func (s *mensajeService) EditarMensaje(ctx context.Context, usuarioID, mensajeID uint, contenido string) error {
	uow := s.uowFactory.NewUnitOfWork()

	mensaje, err := uow.Mensajes().GetByID(ctx, mensajeID)
	if err != nil {
		return err
	}
	if mensaje == nil {
		return apperror.New(http.StatusNotFound, "el mensaje no existe", apperror.ErrNotFound)
	}
	if mensaje.UsuarioID != usuarioID {
		return apperror.New(http.StatusForbidden, "solo puede editar sus propios mensajes", apperror.ErrForbidden)
	}

	mensaje.Contenido = strings.TrimSpace(contenido)
	mensaje.Editado = true
	mensaje.FechaEdicion = timePtr(time.Now().UTC())

	uow.Mensajes().Update(mensaje)
	if _, err := uow.Commit(ctx); err != nil {
		return err
	}

	s.logger.Info("mensaje editado", "mensaje_id", mensajeID, "usuario_id", usuarioID)
	return nil
}

// OcultarMensaje es una acción de moderación: el mensaje permanece en el
// almacén con su razón, no se borra.
func (s *mensajeService) OcultarMensaje(ctx context.Context, mensajeID uint, razon string) error {
	uow := s.uowFactory.NewUnitOfWork()

	mensaje, err := uow.Mensajes().GetByID(ctx, mensajeID)
	if err != nil {
		return err
	}
	if mensaje == nil {
		return apperror.New(http.StatusNotFound, "el mensaje no existe", apperror.ErrNotFound)
	}

	mensaje.Oculto = true
	razon = strings.TrimSpace(razon)
	mensaje.RazonOculto = &razon

	uow.Mensajes().Update(mensaje)
	if _, err := uow.Commit(ctx); err != nil {
		return err
	}

	s.logger.Info("mensaje ocultado por moderación", "mensaje_id", mensajeID, "razon", razon)
	return nil
}

func (s *mensajeService) DarMeGusta(ctx context.Context, mensajeID uint) error {
	uow := s.uowFactory.NewUnitOfWork()

	mensaje, err := uow.Mensajes().GetByID(ctx, mensajeID)
	if err != nil {
		return err
	}
	if mensaje == nil {
		return apperror.New(http.StatusNotFound, "el mensaje no existe", apperror.ErrNotFound)
	}

	mensaje.NumeroMeGusta++

	uow.Mensajes().Update(mensaje)
	_, err = uow.Commit(ctx)
	return err
}
