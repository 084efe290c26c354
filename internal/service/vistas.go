package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/forosuite/foro/internal/repository"
	"github.com/redis/go-redis/v9"
)

// VistaService acumula vistas de temas en redis y las vuelca periódicamente a
// la base de datos; sin redis incrementa directo en la fila del tema.
type VistaService interface {
	IncrementarVista(ctx context.Context, temaID uint) error
	StartSyncWorker(ctx context.Context)
}

type vistaService struct {
	redisClient *redis.Client
	uowFactory  repository.Factory
	logger      *slog.Logger
}

func NewVistaService(redisClient *redis.Client, uowFactory repository.Factory, logger *slog.Logger) VistaService {
	return &vistaService{
		redisClient: redisClient,
		uowFactory:  uowFactory,
		logger:      logger,
	}
}

func (s *vistaService) IncrementarVista(ctx context.Context, temaID uint) error {
	if s.redisClient == nil {
		return s.incrementarEnDB(ctx, temaID, 1)
	}

	viewKey := fmt.Sprintf("tema:vistas:%d", temaID)
	if _, err := s.redisClient.Incr(ctx, viewKey).Result(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	pendingKey := "pending:tema_vistas"
	if _, err := s.redisClient.SAdd(ctx, pendingKey, strconv.FormatUint(uint64(temaID), 10)).Result(); err != nil {
		return fmt.Errorf("failed to add to pending: %w", err)
	}

	return nil
}

// StartSyncWorker vuelca las vistas pendientes cada minuto hasta que el
// contexto se cancele. Se arranca como goroutine solo cuando hay redis.
func (s *vistaService) StartSyncWorker(ctx context.Context) {
	if s.redisClient == nil {
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncVistas(ctx)
		}
	}
}

func (s *vistaService) syncVistas(ctx context.Context) {
	pendingKey := "pending:tema_vistas"

	temaIDs, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		s.logger.Error("error leyendo vistas pendientes", "error", err)
		return
	}

	for _, idStr := range temaIDs {
		temaID, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			s.redisClient.SRem(ctx, pendingKey, idStr)
			continue
		}

		viewKey := fmt.Sprintf("tema:vistas:%s", idStr)
		pendientes, err := s.redisClient.GetDel(ctx, viewKey).Int64()
		if err != nil || pendientes == 0 {
			s.redisClient.SRem(ctx, pendingKey, idStr)
			continue
		}

		if err := s.incrementarEnDB(ctx, uint(temaID), int(pendientes)); err != nil {
			s.logger.Error("error sincronizando vistas", "tema_id", temaID, "error", err)
			// Reintenta en el próximo ciclo.
			s.redisClient.IncrBy(ctx, viewKey, pendientes)
			continue
		}

		s.redisClient.SRem(ctx, pendingKey, idStr)
	}
}

func (s *vistaService) incrementarEnDB(ctx context.Context, temaID uint, n int) error {
	uow := s.uowFactory.NewUnitOfWork()

	tema, err := uow.Temas().GetByID(ctx, temaID)
	if err != nil {
		return err
	}
	if tema == nil {
		return nil
	}

	tema.NumeroVistas += n
	uow.Temas().Update(tema)
	_, err = uow.Commit(ctx)
	return err
}
