package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/service"
	"github.com/forosuite/foro/pkg/response"
	"github.com/forosuite/foro/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type TemaHandler struct {
	temas         service.TemaService
	redisClient   *redis.Client
	rateLimitTema time.Duration
}

func NewTemaHandler(temas service.TemaService, redisClient *redis.Client, rateLimitTema time.Duration) *TemaHandler {
	return &TemaHandler{
		temas:         temas,
		redisClient:   redisClient,
		rateLimitTema: rateLimitTema,
	}
}

func (h *TemaHandler) CrearTema(c *gin.Context) {
	var req dto.CrearTemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	usuarioID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	permitido, err := service.CheckAndSetRateLimit(c.Request.Context(), h.redisClient, usuarioID, "crear_tema", h.rateLimitTema)
	if err == nil && !permitido {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "debe esperar antes de crear otro tema"})
		return
	}

	result := h.temas.CrearTema(c.Request.Context(), dto.CrearTemaCommand{
		Titulo:      req.Titulo,
		Contenido:   req.Contenido,
		CategoriaID: req.CategoriaID,
		UsuarioID:   usuarioID,
		Fijado:      req.Fijado,
	})

	switch {
	case result.Success:
		c.JSON(http.StatusCreated, result)
	case len(result.ValidationErrors) > 0:
		// El cooldown no debe consumirse por un intento inválido.
		_ = service.ClearRateLimit(c.Request.Context(), h.redisClient, usuarioID, "crear_tema")
		c.JSON(http.StatusBadRequest, result)
	default:
		_ = service.ClearRateLimit(c.Request.Context(), h.redisClient, usuarioID, "crear_tema")
		c.JSON(http.StatusUnprocessableEntity, result)
	}
}

func (h *TemaHandler) GetTemas(c *gin.Context) {
	var filter dto.TemaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	temas, err := h.temas.GetTemas(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, temas)
}

func (h *TemaHandler) GetTemaPorSlug(c *gin.Context) {
	detalle, err := h.temas.GetTemaPorSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, detalle)
}

func (h *TemaHandler) EditarTema(c *gin.Context) {
	temaID, err := strconv.ParseUint(c.Param("tema_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de tema inválido"})
		return
	}

	var req dto.EditarTemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	usuarioID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.temas.EditarTema(c.Request.Context(), usuarioID, uint(temaID), req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tema actualizado"})
}

func (h *TemaHandler) EliminarTema(c *gin.Context) {
	temaID, err := strconv.ParseUint(c.Param("tema_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de tema inválido"})
		return
	}

	usuarioID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.temas.EliminarTema(c.Request.Context(), usuarioID, uint(temaID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tema eliminado"})
}

func (h *TemaHandler) CerrarTema(c *gin.Context) {
	h.actualizarFlag(c, h.temas.CerrarTema)
}

func (h *TemaHandler) FijarTema(c *gin.Context) {
	h.actualizarFlag(c, h.temas.FijarTema)
}

func (h *TemaHandler) actualizarFlag(c *gin.Context, accion func(ctx context.Context, temaID uint, valor bool) error) {
	temaID, err := strconv.ParseUint(c.Param("tema_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de tema inválido"})
		return
	}

	var req struct {
		Valor bool `json:"valor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := accion(c.Request.Context(), uint(temaID), req.Valor); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tema actualizado"})
}
