package service

import (
	"context"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/repository"
)

type StatService interface {
	GetEstadisticas(ctx context.Context) (*dto.EstadisticasResponse, error)
}

type statService struct {
	uowFactory repository.Factory
}

func NewStatService(uowFactory repository.Factory) StatService {
	return &statService{uowFactory: uowFactory}
}

func (s *statService) GetEstadisticas(ctx context.Context) (*dto.EstadisticasResponse, error) {
	uow := s.uowFactory.NewUnitOfWork()

	usuarios, err := uow.Usuarios().Count(ctx, "activo = ?", true)
	if err != nil {
		return nil, err
	}

	temas, err := uow.Temas().Count(ctx, "")
	if err != nil {
		return nil, err
	}

	mensajes, err := uow.Mensajes().Count(ctx, "oculto = ?", false)
	if err != nil {
		return nil, err
	}

	recientes, err := uow.Temas().Query(ctx, repository.QueryOptions{
		Order:   "fecha_creacion DESC",
		Preload: []string{"Categoria", "Usuario"},
		Limit:   5,
	})
	if err != nil {
		return nil, err
	}

	temasRecientes := make([]dto.TemaResponse, 0, len(recientes))
	for i := range recientes {
		n, err := uow.Mensajes().Count(ctx, "tema_id = ? AND oculto = ?", recientes[i].ID, false)
		if err != nil {
			return nil, err
		}
		temasRecientes = append(temasRecientes, buildTemaResponse(&recientes[i], n))
	}

	return &dto.EstadisticasResponse{
		TotalUsuarios:  usuarios,
		TotalTemas:     temas,
		TotalMensajes:  mensajes,
		TemasRecientes: temasRecientes,
	}, nil
}
