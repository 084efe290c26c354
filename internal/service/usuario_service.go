package service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/model"
	"github.com/forosuite/foro/internal/repository"
	"github.com/forosuite/foro/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UsuarioService interface {
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// GetUsuarioActivo resuelve un ID de usuario a su cuenta activa; es la
	// capacidad que consume el middleware de autorización.
	GetUsuarioActivo(ctx context.Context, usuarioID uint) (*model.Usuario, error)
}

type usuarioService struct {
	uowFactory repository.Factory
	jwtSecret  string
	logger     *slog.Logger
}

func NewUsuarioService(uowFactory repository.Factory, jwtSecret string, logger *slog.Logger) UsuarioService {
	return &usuarioService{
		uowFactory: uowFactory,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

func (s *usuarioService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error) {
	uow := s.uowFactory.NewUnitOfWork()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existe, err := uow.Usuarios().Exists(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apperror.New(http.StatusConflict, "ya existe una cuenta con ese email", apperror.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	usuario := &model.Usuario{
		Nombre:       strings.TrimSpace(req.Nombre),
		Email:        email,
		PasswordHash: string(hash),
		Activo:       true,
		Rol:          model.RolUsuario,
	}

	uow.Usuarios().Add(usuario)
	if _, err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("usuario registrado", "usuario_id", usuario.ID, "email", usuario.Email)

	resp := buildUsuarioResponse(usuario)
	return &resp, nil
}

func (s *usuarioService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork()

	usuarios, err := uow.Usuarios().Query(ctx, repository.QueryOptions{
		Where: "email = ?",
		Args:  []any{strings.ToLower(strings.TrimSpace(req.Email))},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(usuarios) == 0 {
		return nil, apperror.New(http.StatusUnauthorized, "credenciales inválidas", apperror.ErrUnauthorized)
	}
	usuario := &usuarios[0]

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "credenciales inválidas", apperror.ErrUnauthorized)
	}
	if !usuario.Activo {
		return nil, apperror.New(http.StatusForbidden, "la cuenta está desactivada", apperror.ErrForbidden)
	}

	usuario.UltimoAcceso = timePtr(time.Now().UTC())
	uow.Usuarios().Update(usuario)
	if _, err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	token, err := s.generarToken(usuario)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login correcto", "usuario_id", usuario.ID)

	return &dto.LoginResponse{
		Token:   token,
		Usuario: buildUsuarioResponse(usuario),
	}, nil
}

func (s *usuarioService) GetUsuarioActivo(ctx context.Context, usuarioID uint) (*model.Usuario, error) {
	uow := s.uowFactory.NewUnitOfWork()

	usuario, err := uow.Usuarios().GetByID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if usuario == nil || !usuario.Activo {
		return nil, apperror.New(http.StatusUnauthorized, "el usuario no existe o no está activo", apperror.ErrUnauthorized)
	}
	return usuario, nil
}

func (s *usuarioService) generarToken(usuario *model.Usuario) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(usuario.ID), 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(72 * time.Hour)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func buildUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:            u.ID,
		Nombre:        u.Nombre,
		Email:         u.Email,
		Rol:           u.Rol,
		FechaRegistro: u.FechaRegistro.Format(fechaFormato),
	}
}
